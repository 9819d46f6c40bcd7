package snapshot

import (
	"bikeprice/internal/models"
	"bikeprice/internal/providers"
	"bikeprice/internal/snapshot/interfaces"
	"bikeprice/internal/structures"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

const (
	archivePrefix = "pricing-"
	archiveSuffix = ".json.zst"
	archiveLayout = "20060102T150405Z"
)

var ErrArchiveDisabled = errors.New("snapshot archive is disabled")

// ArchiveEntry describes one archived generation.
type ArchiveEntry struct {
	Name        string
	GeneratedAt time.Time
	Size        int64
}

// Archive keeps zstd-compressed copies of past snapshots in dir, newest
// keep files only. An empty dir disables it.
type Archive struct {
	mu         sync.Mutex
	dir        string
	keep       int
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewArchive(dir string, keep int, compressor interfaces.CompressorInterface, logger providers.Logger) *Archive {
	return &Archive{
		dir:        dir,
		keep:       keep,
		compressor: compressor,
		logger:     logger,
	}
}

func (a *Archive) Enabled() bool {
	return a.dir != ""
}

// Store archives snapshot under a name derived from generatedAt and runID,
// then prunes entries beyond the retention limit.
func (a *Archive) Store(snapshot models.Snapshot, generatedAt time.Time, runID string) (string, error) {
	if !a.Enabled() {
		return "", ErrArchiveDisabled
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	data, err := Encode(snapshot)
	if err != nil {
		return "", err
	}
	compressed, err := a.compressor.Compress(data)
	if err != nil {
		return "", fmt.Errorf("compress snapshot: %w", err)
	}

	if len(runID) > 8 {
		runID = runID[:8]
	}
	name := archivePrefix + generatedAt.UTC().Format(archiveLayout)
	if runID != "" {
		name += "-" + runID
	}
	name += archiveSuffix

	if err := writeAtomic(filepath.Join(a.dir, name), compressed); err != nil {
		return "", err
	}
	a.logger.Infof(providers.TypeSnapshot, "Archived snapshot %s (%d -> %d bytes)", name, len(data), len(compressed))

	if err := a.prune(); err != nil {
		a.logger.Errorf(providers.TypeSnapshot, "Failed to prune archive %s: %s", a.dir, err)
	}
	return name, nil
}

// List returns archived snapshots, newest first.
func (a *Archive) List() ([]ArchiveEntry, error) {
	if !a.Enabled() {
		return nil, ErrArchiveDisabled
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.list()
}

func (a *Archive) list() ([]ArchiveEntry, error) {
	files, err := filepath.Glob(filepath.Join(a.dir, archivePrefix+"*"+archiveSuffix))
	if err != nil {
		return nil, err
	}

	entries := make([]ArchiveEntry, 0, len(files))
	for _, file := range files {
		name := filepath.Base(file)
		generatedAt, ok := parseArchiveName(name)
		if !ok {
			continue
		}
		info, err := os.Stat(file)
		if err != nil {
			continue
		}
		entries = append(entries, ArchiveEntry{Name: name, GeneratedAt: generatedAt, Size: info.Size()})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name > entries[j].Name })
	return entries, nil
}

// LoadArchive reads one archived snapshot by name.
func (a *Archive) LoadArchive(name string) (models.Snapshot, error) {
	if !a.Enabled() {
		return nil, ErrArchiveDisabled
	}
	if name != filepath.Base(name) || !strings.HasSuffix(name, archiveSuffix) {
		return nil, fmt.Errorf("invalid archive name %q", name)
	}

	data, err := os.ReadFile(filepath.Join(a.dir, name))
	if err != nil {
		return nil, err
	}
	decompressed, err := a.compressor.Decompress(data)
	if err != nil {
		return nil, fmt.Errorf("decompress %s: %w", name, err)
	}
	return Decode(decompressed)
}

// Latest loads the newest archived snapshot. ok is false when there is none.
func (a *Archive) Latest() (models.Snapshot, time.Time, bool, error) {
	entries, err := a.List()
	if err != nil || len(entries) == 0 {
		return nil, time.Time{}, false, err
	}
	snapshot, err := a.LoadArchive(entries[0].Name)
	if err != nil {
		return nil, time.Time{}, false, err
	}
	return snapshot, entries[0].GeneratedAt, true, nil
}

// prune must be called under a.mu.
func (a *Archive) prune() error {
	if a.keep <= 0 {
		return nil
	}
	entries, err := a.list()
	if err != nil {
		return err
	}
	for _, entry := range entries[min(a.keep, len(entries)):] {
		if err := os.Remove(filepath.Join(a.dir, entry.Name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		a.logger.Debugf(providers.TypeSnapshot, "Pruned archived snapshot %s", entry.Name)
	}
	return nil
}

func (a *Archive) Close() {
	a.compressor.Close()
}

// "pricing-20260501T120000Z-1a2b3c4d.json.zst" -> 2026-05-01 12:00:00 UTC
func parseArchiveName(name string) (time.Time, bool) {
	stem := strings.TrimSuffix(strings.TrimPrefix(name, archivePrefix), archiveSuffix)
	if len(stem) < len(archiveLayout) {
		return time.Time{}, false
	}
	t, err := time.Parse(archiveLayout, stem[:len(archiveLayout)])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func NewArchiveProvider(conf *structures.Config, compressor interfaces.CompressorInterface, logger providers.Logger) *Archive {
	return NewArchive(conf.Snapshot.ArchiveDir, conf.Snapshot.ArchiveKeep, compressor, logger)
}
