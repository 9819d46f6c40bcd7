package internal

import (
	"bikeprice/internal/models"
	"bikeprice/internal/providers"
	"bikeprice/internal/registry"
	"bikeprice/internal/services"
	"bikeprice/internal/snapshot/interfaces"
	"bikeprice/internal/structures"
	"bikeprice/internal/upstream"
	"context"
	"fmt"
	"io"
	"strings"
)

// Runner backs the one-shot CLI commands.
type Runner struct {
	conf      *structures.Config
	logger    providers.Logger
	registry  registry.RegistryInterface
	client    upstream.ClientInterface
	scheduler interfaces.SchedulerInterface
}

func NewRunner(conf *structures.Config, logger providers.Logger, reg registry.RegistryInterface, client upstream.ClientInterface, scheduler interfaces.SchedulerInterface) *Runner {
	return &Runner{
		conf:      conf,
		logger:    logger,
		registry:  reg,
		client:    client,
		scheduler: scheduler,
	}
}

// Generate builds every city and rewrites the snapshot file. Per-city
// failures only produce warnings; anything that prevents the file from being
// written is fatal.
func (r *Runner) Generate(ctx context.Context) error {
	if err := r.scheduler.Refresh(ctx); err != nil {
		return models.FatalError(err, "snapshot generation failed")
	}
	r.logger.Infof(providers.TypeApp, "Snapshot written to %s", r.conf.Snapshot.FilePath)
	return nil
}

func (r *Runner) CheckDayDeals(ctx context.Context, w io.Writer) error {
	results := services.CheckDayDeals(ctx, r.registry.Cities(), r.client, r.conf.Snapshot.CityConcurrency)
	for _, res := range results {
		if _, err := fmt.Fprintln(w, res); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) PrintCities(w io.Writer) error {
	for _, group := range r.registry.GroupByCountry() {
		if _, err := fmt.Fprintf(w, "%s: %s\n", group.Country, strings.Join(group.Cities, ", ")); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) Close() {
	r.scheduler.Close()
	r.logger.Close()
}
