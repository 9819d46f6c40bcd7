package snapshot

import (
	"bikeprice/internal/models"
	"bikeprice/internal/services"
	"bikeprice/internal/structures"
	"bikeprice/internal/testutil"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePricingService hands out a fixed snapshot and records Put calls.
type fakePricingService struct {
	mu        sync.Mutex
	generated models.Snapshot
	err       error
	block     chan struct{}
	current   models.Snapshot
	putAt     time.Time
	puts      int
}

func (f *fakePricingService) BuildCity(_ context.Context, city models.City) (*models.CityPricing, services.CityReport) {
	return models.NewCityPricing(city.Name), services.CityReport{City: city.Name}
}

func (f *fakePricingService) Generate(ctx context.Context) (models.Snapshot, *services.GenerationReport, error) {
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.generated, &services.GenerationReport{RunID: "run-1234567890", StartedAt: time.Now(), Duration: time.Second}, nil
}

func (f *fakePricingService) Current() models.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

func (f *fakePricingService) Put(snapshot models.Snapshot, generatedAt time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current, f.putAt = snapshot, generatedAt
	f.puts++
}

func (f *fakePricingService) Version() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return uint64(f.puts)
}

func (f *fakePricingService) GeneratedAt() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.putAt
}

func testConfig(dir string) *structures.Config {
	return &structures.Config{
		Snapshot: structures.SnapshotConfig{
			FilePath:    filepath.Join(dir, "pricing.json"),
			ArchiveDir:  filepath.Join(dir, "archive"),
			ArchiveKeep: 3,
		},
	}
}

func newTestScheduler(t *testing.T, conf *structures.Config, svc services.PricingServiceInterface) *Scheduler {
	t.Helper()
	logger := &testutil.MockLogger{}
	c, err := NewZstdCompressor()
	require.NoError(t, err)
	archive := NewArchive(conf.Snapshot.ArchiveDir, conf.Snapshot.ArchiveKeep, c, logger)
	s := NewScheduler(conf, logger, svc, NewFileManager(logger), archive).(*Scheduler)
	t.Cleanup(s.Close)
	return s
}

func TestScheduler_RefreshWritesFileArchiveAndServes(t *testing.T) {
	dir := t.TempDir()
	conf := testConfig(dir)
	svc := &fakePricingService{generated: sampleSnapshot()}
	s := newTestScheduler(t, conf, svc)

	require.NoError(t, s.Refresh(context.Background()))

	loaded, _, err := NewFileManager(&testutil.MockLogger{}).LoadFromFile(conf.Snapshot.FilePath)
	require.NoError(t, err)
	assert.Equal(t, sampleSnapshot(), loaded)

	entries, err := s.archive.List()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Name, "run-1234")

	assert.Equal(t, 1, svc.puts)
	assert.Len(t, svc.Current(), 2)
}

func TestScheduler_RefreshFailureWritesNothing(t *testing.T) {
	dir := t.TempDir()
	conf := testConfig(dir)
	svc := &fakePricingService{err: errors.New("generation aborted")}
	s := newTestScheduler(t, conf, svc)

	assert.Error(t, s.Refresh(context.Background()))

	_, err := os.Stat(conf.Snapshot.FilePath)
	assert.True(t, os.IsNotExist(err))
	assert.Equal(t, 0, svc.puts)
}

func TestScheduler_RefreshSkipsWhenInFlight(t *testing.T) {
	conf := testConfig(t.TempDir())
	svc := &fakePricingService{generated: sampleSnapshot(), block: make(chan struct{})}
	s := newTestScheduler(t, conf, svc)

	done := make(chan error, 1)
	go func() { done <- s.Refresh(context.Background()) }()

	require.Eventually(t, s.refreshing.Load, time.Second, time.Millisecond)
	assert.ErrorIs(t, s.Refresh(context.Background()), ErrRefreshInProgress)

	close(svc.block)
	require.NoError(t, <-done)
	assert.False(t, s.refreshing.Load())
}

func TestScheduler_RestoreFromFile(t *testing.T) {
	conf := testConfig(t.TempDir())
	require.NoError(t, NewFileManager(&testutil.MockLogger{}).SaveToFile(conf.Snapshot.FilePath, sampleSnapshot()))

	svc := &fakePricingService{}
	s := newTestScheduler(t, conf, svc)
	require.NoError(t, s.Restore())

	assert.Equal(t, sampleSnapshot(), svc.Current())
	assert.False(t, svc.GeneratedAt().IsZero())
}

func TestScheduler_RestoreFallsBackToArchive(t *testing.T) {
	conf := testConfig(t.TempDir())
	svc := &fakePricingService{}
	s := newTestScheduler(t, conf, svc)

	at := time.Date(2026, 4, 2, 6, 0, 0, 0, time.UTC)
	_, err := s.archive.Store(sampleSnapshot(), at, "")
	require.NoError(t, err)

	require.NoError(t, s.Restore())
	assert.Len(t, svc.Current(), 2)
	assert.Equal(t, at, svc.GeneratedAt())
}

func TestScheduler_RestoreMissingEverything(t *testing.T) {
	conf := testConfig(t.TempDir())
	svc := &fakePricingService{}
	s := newTestScheduler(t, conf, svc)

	require.NoError(t, s.Restore())
	assert.NotNil(t, svc.Current())
	assert.Empty(t, svc.Current())
}

func TestScheduler_RestoreCorruptedFile(t *testing.T) {
	conf := testConfig(t.TempDir())
	require.NoError(t, os.WriteFile(conf.Snapshot.FilePath, []byte("not json"), 0644))

	s := newTestScheduler(t, conf, &fakePricingService{})
	assert.Error(t, s.Restore())
}

func TestScheduler_PersistWritesCurrent(t *testing.T) {
	conf := testConfig(t.TempDir())
	svc := &fakePricingService{current: sampleSnapshot()}
	s := newTestScheduler(t, conf, svc)

	require.NoError(t, s.Persist())
	loaded, _, err := NewFileManager(&testutil.MockLogger{}).LoadFromFile(conf.Snapshot.FilePath)
	require.NoError(t, err)
	assert.Equal(t, []string{"Copenhagen", "Thun"}, loaded.Names())
}

func TestScheduler_InitWithoutIntervalAndStop(t *testing.T) {
	s := newTestScheduler(t, testConfig(t.TempDir()), &fakePricingService{})
	s.Init()
	s.Stop()
}

func TestScheduler_CloseReleasesCompressor(t *testing.T) {
	conf := testConfig(t.TempDir())
	logger := &testutil.MockLogger{}
	compressor := &testutil.MockCompressor{}
	archive := NewArchive(conf.Snapshot.ArchiveDir, conf.Snapshot.ArchiveKeep, compressor, logger)
	svc := &fakePricingService{generated: sampleSnapshot()}
	s := NewScheduler(conf, logger, svc, NewFileManager(logger), archive)

	s.Close()
	s.Close()

	assert.True(t, compressor.Closed)
	assert.ErrorIs(t, s.Refresh(context.Background()), ErrSchedulerClosed)
	_, err := os.Stat(conf.Snapshot.FilePath)
	assert.True(t, os.IsNotExist(err))
	assert.Equal(t, 0, svc.puts)
}
