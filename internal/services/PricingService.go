package services

import (
	"bikeprice/internal/models"
	"bikeprice/internal/normalize"
	"bikeprice/internal/providers"
	"bikeprice/internal/registry"
	"bikeprice/internal/structures"
	"bikeprice/internal/upstream"
	"context"
	"fmt"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"sort"
	"strings"
	"sync"
	"time"
)

type PricingServiceInterface interface {
	BuildCity(ctx context.Context, city models.City) (*models.CityPricing, CityReport)
	Generate(ctx context.Context) (models.Snapshot, *GenerationReport, error)
	Current() models.Snapshot
	Put(snapshot models.Snapshot, generatedAt time.Time)
	Version() uint64
	GeneratedAt() time.Time
}

// CityReport lists what happened while building one city.
type CityReport struct {
	City        string
	Counts      map[string]int
	Diagnostics []string
	Warning     string
}

type GenerationReport struct {
	RunID     string
	StartedAt time.Time
	Duration  time.Duration
	Records   map[string]int
	Warnings  int
	Cities    []CityReport
}

type PricingService struct {
	registry    registry.RegistryInterface
	client      upstream.ClientInterface
	policy      normalize.Policy
	concurrency int
	logger      providers.Logger
	metrics     providers.MetricsProviderInterface

	mu          sync.RWMutex
	current     models.Snapshot
	version     uint64
	generatedAt time.Time
}

func NewPricingService(conf *structures.Config, reg registry.RegistryInterface, client upstream.ClientInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) (PricingServiceInterface, error) {
	policy, err := normalize.ParsePolicy(conf.Normalization.Policy)
	if err != nil {
		return nil, err
	}
	return &PricingService{
		registry:    reg,
		client:      client,
		policy:      policy,
		concurrency: max(conf.Snapshot.CityConcurrency, 1),
		logger:      logger,
		metrics:     metrics,
		current:     models.Snapshot{},
	}, nil
}

// BuildCity fetches and normalizes the three pricing kinds of one city
// concurrently. It always returns a record: kinds that failed or came back
// empty are named in the warning.
func (s *PricingService) BuildCity(ctx context.Context, city models.City) (*models.CityPricing, CityReport) {
	pricing := models.NewCityPricing(city.Name)
	diagnostics := make([][]string, len(models.Kinds))

	var g errgroup.Group
	for i, kind := range models.Kinds {
		g.Go(func() error {
			diagnostics[i] = s.fill(ctx, city, kind, pricing)
			return nil
		})
	}
	_ = g.Wait()

	report := CityReport{City: city.Name, Counts: make(map[string]int, len(models.Kinds)), Diagnostics: []string{}}
	var missing []string
	for i, kind := range models.Kinds {
		report.Counts[kind.String()] = pricing.Count(kind)
		report.Diagnostics = append(report.Diagnostics, diagnostics[i]...)
		if pricing.Count(kind) == 0 {
			missing = append(missing, "No "+kind.String()+".")
			s.metrics.IncWarnings(kind.String())
		}
	}
	pricing.Warning = strings.Join(missing, " ")
	report.Warning = pricing.Warning

	if pricing.Warning != "" {
		s.logger.Warnf(providers.TypeApp, "%s: %s", city.Name, pricing.Warning)
	}
	return pricing, report
}

// fill writes exactly one kind's list into pricing, so concurrent calls for
// different kinds never touch the same field.
func (s *PricingService) fill(ctx context.Context, city models.City, kind models.Kind, pricing *models.CityPricing) []string {
	raw, err := s.client.Fetch(ctx, city, kind)
	if err != nil {
		return []string{fmt.Sprintf("%s: fetch failed: %s", kind, err)}
	}

	var diagnostics []string
	switch kind {
	case models.KindMemberships:
		res := normalize.Memberships(raw, s.policy)
		pricing.Memberships, diagnostics = res.Records, res.Diagnostics
	case models.KindPayPerRide:
		res := normalize.PayPerRide(raw, s.policy)
		pricing.JustRide, diagnostics = res.Records, res.Diagnostics
	case models.KindDayPass:
		res := normalize.DayPasses(raw, s.policy)
		pricing.DayDeals, diagnostics = res.Records, res.Diagnostics
	}
	for _, d := range diagnostics {
		s.logger.Debugf(providers.TypeNormalize, "%s [%s] %s", city.Name, kind, d)
	}
	return diagnostics
}

// Generate builds every registered city with at most concurrency cities in
// flight. A cancelled ctx discards the partial result.
func (s *PricingService) Generate(ctx context.Context) (models.Snapshot, *GenerationReport, error) {
	report := &GenerationReport{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
		Records:   make(map[string]int, len(models.Kinds)),
	}
	cities := s.registry.Cities()
	s.logger.Infof(providers.TypeApp, "Generation %s started for %d cities (policy %s)", report.RunID, len(cities), s.policy)

	results := make([]*models.CityPricing, len(cities))
	reports := make([]CityReport, len(cities))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, city := range cities {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i], reports[i] = s.BuildCity(gctx, city)
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Generation %s aborted: %s", report.RunID, err)
		return nil, nil, fmt.Errorf("generation %s aborted: %w", report.RunID, err)
	}

	snapshot := make(models.Snapshot, len(cities))
	for i, pricing := range results {
		snapshot[pricing.CityName] = pricing
		if reports[i].Warning != "" {
			report.Warnings++
		}
	}
	sort.Slice(reports, func(i, j int) bool { return reports[i].City < reports[j].City })
	report.Cities = reports
	report.Duration = time.Since(report.StartedAt)

	for _, kind := range models.Kinds {
		report.Records[kind.String()] = snapshot.Records(kind)
		s.metrics.SetRecordsTotal(kind.String(), report.Records[kind.String()])
	}
	s.metrics.SetCitiesTotal(len(snapshot))
	s.metrics.ObserveGenerationDuration(report.Duration)

	s.logger.Infof(providers.TypeApp, "Generation %s finished in %s: %d cities, %d with warnings, records %v",
		report.RunID, report.Duration.Round(time.Millisecond), len(snapshot), report.Warnings, report.Records)
	return snapshot, report, nil
}

func (s *PricingService) Current() models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Put replaces the served snapshot. Callers must not mutate it afterwards.
func (s *PricingService) Put(snapshot models.Snapshot, generatedAt time.Time) {
	if snapshot == nil {
		snapshot = models.Snapshot{}
	}
	s.mu.Lock()
	s.current = snapshot
	s.generatedAt = generatedAt
	s.version++
	s.mu.Unlock()

	s.metrics.SetCitiesTotal(len(snapshot))
	s.metrics.SetSnapshotTimestamp(generatedAt)
}

// Version changes on every Put and keys rendered views in the cache.
func (s *PricingService) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

func (s *PricingService) GeneratedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generatedAt
}
