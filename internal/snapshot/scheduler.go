package snapshot

import (
	"bikeprice/internal/providers"
	"bikeprice/internal/services"
	"bikeprice/internal/snapshot/interfaces"
	"bikeprice/internal/structures"
	"context"
	"errors"
	"github.com/roylee0704/gron"
	"go.uber.org/atomic"
	"sync"
	"time"
)

var (
	ErrRefreshInProgress = errors.New("snapshot refresh already in progress")
	ErrSchedulerClosed   = errors.New("snapshot scheduler closed")
)

type Scheduler struct {
	config      *structures.Config
	logger      providers.Logger
	service     services.PricingServiceInterface
	fileManager *FileManager
	archive     *Archive
	cron        *gron.Cron
	opsMu       sync.Mutex
	closed      bool
	refreshing  atomic.Bool
}

func (s *Scheduler) Init() {
	s.cron = gron.New()
	interval := s.config.Snapshot.RefreshInterval
	if interval <= 0 {
		s.logger.Infof(providers.TypeSnapshot, "Periodic refresh disabled")
		return
	}

	s.cron.AddFunc(gron.Every(interval), func() {
		ctx, cancel := context.WithTimeout(context.Background(), interval)
		defer cancel()
		if err := s.Refresh(ctx); err != nil {
			s.logger.Errorf(providers.TypeSnapshot, "Scheduled refresh failed: %s", err)
		}
	})
	s.cron.Start()
	s.logger.Infof(providers.TypeSnapshot, "Snapshot refresh scheduled every %s", interval)
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// Restore serves the snapshot file, or the newest archive when the file is
// missing or empty.
func (s *Scheduler) Restore() error {
	snapshot, modTime, err := s.fileManager.LoadFromFile(s.config.Snapshot.FilePath)
	if err != nil {
		return err
	}
	if len(snapshot) == 0 && s.archive.Enabled() {
		archived, generatedAt, ok, err := s.archive.Latest()
		if err != nil {
			s.logger.Warnf(providers.TypeSnapshot, "Could not restore from archive: %s", err)
		} else if ok {
			s.logger.Infof(providers.TypeSnapshot, "Restored snapshot from archive (%s)", generatedAt.Format(time.RFC3339))
			snapshot, modTime = archived, generatedAt
		}
	}
	s.service.Put(snapshot, modTime)
	s.logger.Infof(providers.TypeSnapshot, "Serving snapshot with %d cities", len(snapshot))
	return nil
}

// Persist writes the currently served snapshot back to the snapshot file.
func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeSnapshot, "Persisting snapshot to file...")
	err := s.fileManager.SaveToFile(s.config.Snapshot.FilePath, s.service.Current())
	if err != nil {
		s.logger.Errorf(providers.TypeSnapshot, "Error while persisting snapshot: %s", err)
		return err
	}
	return nil
}

// Refresh runs one generation, writes the file, archives it and starts
// serving it. Nothing is written when generation fails.
func (s *Scheduler) Refresh(ctx context.Context) error {
	if !s.refreshing.CompareAndSwap(false, true) {
		s.logger.Warnf(providers.TypeSnapshot, "Skipping refresh, previous run still in progress")
		return ErrRefreshInProgress
	}
	defer s.refreshing.Store(false)

	snapshot, report, err := s.service.Generate(ctx)
	if err != nil {
		return err
	}

	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	if s.closed {
		return ErrSchedulerClosed
	}
	if err := s.fileManager.SaveToFile(s.config.Snapshot.FilePath, snapshot); err != nil {
		return err
	}
	generatedAt := report.StartedAt.Add(report.Duration)
	if s.archive.Enabled() {
		if _, err := s.archive.Store(snapshot, generatedAt, report.RunID); err != nil {
			s.logger.Errorf(providers.TypeSnapshot, "Failed to archive snapshot: %s", err)
		}
	}
	s.service.Put(snapshot, generatedAt)
	return nil
}

// Close stops the schedule and releases the archive's compressor. A refresh
// still generating when Close runs is dropped.
func (s *Scheduler) Close() {
	s.Stop()

	s.opsMu.Lock()
	defer s.opsMu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.archive.Close()
}

func NewScheduler(config *structures.Config, logger providers.Logger, service services.PricingServiceInterface, fileManager *FileManager, archive *Archive) interfaces.SchedulerInterface {
	return &Scheduler{
		config:      config,
		logger:      logger,
		service:     service,
		fileManager: fileManager,
		archive:     archive,
	}
}
