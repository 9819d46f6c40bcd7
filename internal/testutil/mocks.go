package testutil

import (
	"bikeprice/internal/models"
	"bikeprice/internal/providers"
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (e LogEntry) Message() string {
	return fmt.Sprintf(e.Format, e.Args...)
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Contains reports whether any recorded message at level contains substr.
func (m *MockLogger) Contains(level, substr string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.Logs {
		if e.Level == level && strings.Contains(e.Message(), substr) {
			return true
		}
	}
	return false
}

// MockMetrics implements providers.MetricsProviderInterface with counters.
type MockMetrics struct {
	mu          sync.Mutex
	Upstream    map[string]int
	Records     map[string]int
	Warnings    map[string]int
	Cities      int
	Generations int
	Hits        int
	Misses      int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		Upstream: make(map[string]int),
		Records:  make(map[string]int),
		Warnings: make(map[string]int),
	}
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Hits++
}
func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Misses++
}
func (m *MockMetrics) IncUpstreamRequests(kind, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Upstream[kind+":"+outcome]++
}
func (m *MockMetrics) ObserveUpstreamDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) ObserveGenerationDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Generations++
}
func (m *MockMetrics) SetCitiesTotal(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Cities = count
}
func (m *MockMetrics) SetRecordsTotal(kind string, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Records[kind] = count
}
func (m *MockMetrics) IncWarnings(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Warnings[kind]++
}
func (m *MockMetrics) SetSnapshotTimestamp(_ time.Time) {}

func (m *MockMetrics) UpstreamCount(kind, outcome string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Upstream[kind+":"+outcome]
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

func (m *MockCache) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data = make(map[string][]byte)
}

// MockCompressor implements snapshot.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
	Closed       bool
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() { m.Closed = true }

// Response is a canned upstream answer: Payload on success, Err otherwise.
type Response struct {
	Payload any
	Err     error
	Delay   time.Duration
}

// MockClient implements upstream.ClientInterface from a table keyed by
// "<city>/<kind>". Missing keys answer with a 404 transport error.
type MockClient struct {
	mu        sync.Mutex
	Responses map[string]Response
	Calls     []string
}

func NewMockClient() *MockClient {
	return &MockClient{Responses: make(map[string]Response)}
}

func (m *MockClient) On(city string, kind models.Kind, resp Response) *MockClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Responses[city+"/"+kind.String()] = resp
	return m
}

func (m *MockClient) Fetch(ctx context.Context, city models.City, kind models.Kind) (any, error) {
	key := city.Name + "/" + kind.String()
	m.mu.Lock()
	m.Calls = append(m.Calls, key)
	resp, ok := m.Responses[key]
	m.mu.Unlock()

	if resp.Delay > 0 {
		select {
		case <-time.After(resp.Delay):
		case <-ctx.Done():
			return nil, models.TransportError(0, "", ctx.Err())
		}
	}
	if !ok {
		return nil, models.TransportError(404, "not found", nil)
	}
	return resp.Payload, resp.Err
}

func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// City builds a registry entry whose URLs carry the given country code.
func City(name, countryCode string) models.City {
	base := "https://stables.donkey.bike/api/public/"
	loc := "55.0,12.0"
	return models.City{
		Name:           name,
		MembershipsURL: base + "plans?location=" + loc + "&country_code=" + countryCode,
		PayPerRideURL:  base + "pricings?pricing_type=location&location=" + loc,
		DayPassURL:     base + "nearby?location=" + loc + "&filter_type=radius&radius=5000",
	}
}
