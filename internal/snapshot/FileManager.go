package snapshot

import (
	"bikeprice/internal/models"
	"bikeprice/internal/providers"
	"errors"
	"fmt"
	json "github.com/goccy/go-json"
	"os"
	"path/filepath"
	"time"
)

// FileManager writes and reads the snapshot file: one pretty-printed JSON
// document mapping city name to pricing.
type FileManager struct {
	logger providers.Logger
}

func NewFileManager(logger providers.Logger) *FileManager {
	return &FileManager{logger: logger}
}

func Encode(snapshot models.Snapshot) ([]byte, error) {
	if snapshot == nil {
		snapshot = models.Snapshot{}
	}
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return append(data, '\n'), nil
}

func Decode(data []byte) (models.Snapshot, error) {
	var snapshot models.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if snapshot == nil {
		snapshot = models.Snapshot{}
	}
	return snapshot, nil
}

// SaveToFile replaces fileName with snapshot. Readers see either the old or
// the new file, never a partial one.
func (f *FileManager) SaveToFile(fileName string, snapshot models.Snapshot) error {
	data, err := Encode(snapshot)
	if err != nil {
		return err
	}
	if err := writeAtomic(fileName, data); err != nil {
		return err
	}
	f.logger.Infof(providers.TypeSnapshot, "Snapshot with %d cities written to %s (%d bytes)", len(snapshot), fileName, len(data))
	return nil
}

// LoadFromFile reads a snapshot and the file's modification time. A missing
// file is an empty snapshot.
func (f *FileManager) LoadFromFile(fileName string) (models.Snapshot, time.Time, error) {
	info, err := os.Stat(fileName)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			f.logger.Warnf(providers.TypeSnapshot, "Snapshot %s not found, starting empty", fileName)
			return models.Snapshot{}, time.Time{}, nil
		}
		return nil, time.Time{}, err
	}

	data, err := os.ReadFile(fileName)
	if err != nil {
		return nil, time.Time{}, err
	}
	snapshot, err := Decode(data)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("%s: %w", fileName, err)
	}
	return snapshot, info.ModTime(), nil
}

func writeAtomic(fileName string, data []byte) error {
	if dir := filepath.Dir(fileName); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}
