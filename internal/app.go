package internal

import (
	"bikeprice/internal/controllers"
	"bikeprice/internal/providers"
	"bikeprice/internal/services"
	"bikeprice/internal/snapshot/interfaces"
	"bikeprice/internal/structures"
	"context"
	"errors"
	"fmt"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"
)

type App struct {
	WebServer *http.Server
	scheduler interfaces.SchedulerInterface
	service   services.PricingServiceInterface
	conf      *structures.Config
	logger    providers.Logger
}

// NewHandler mounts the API routes behind the metrics and access log
// middleware, next to the infrastructure endpoints.
func NewHandler(healthController *controllers.HealthController, conf *structures.Config, logger providers.Logger, router providers.RouterProviderInterface, metrics providers.MetricsProviderInterface) http.Handler {
	instrumentedAPI := providers.MetricsMiddleware(metrics, router.Handler())

	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthController.Health)
	if conf.Metrics.Enabled {
		mux.Handle("/metrics", promhttp.Handler())
	}
	mux.Handle("/", instrumentedAPI)
	return providers.AccessLogMiddleware(logger, mux)
}

func NewApp(handler http.Handler, scheduler interfaces.SchedulerInterface, service services.PricingServiceInterface, conf *structures.Config, logger providers.Logger) *App {
	return &App{
		WebServer: &http.Server{
			Addr:         conf.WebServer.Host + ":" + strconv.Itoa(conf.WebServer.Port),
			Handler:      handler,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		scheduler: scheduler,
		service:   service,
		conf:      conf,
		logger:    logger,
	}
}

// Run restores the last snapshot, starts the refresh schedule and serves until
// SIGINT or SIGTERM. With nothing to restore a first generation runs in the
// background.
func (a *App) Run() error {
	a.logger.Infof(providers.TypeApp, "Starting %s", a.conf.AppName)
	defer a.scheduler.Close()
	if err := a.scheduler.Restore(); err != nil {
		a.logger.Errorf(providers.TypeApp, "Restore error: %s", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if len(a.service.Current()) == 0 {
		go func() {
			if err := a.scheduler.Refresh(ctx); err != nil {
				a.logger.Errorf(providers.TypeApp, "Initial generation failed: %s", err)
			}
		}()
	}
	a.scheduler.Init()

	serverErr := make(chan error, 1)
	go func() {
		a.logger.Infof(providers.TypeApp, "Listening HTTP clients on %s", a.WebServer.Addr)
		if err := a.WebServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case <-stop:
		a.logger.Infof(providers.TypeApp, "Shutdown signal received")
	case err := <-serverErr:
		a.scheduler.Stop()
		return fmt.Errorf("server error: %w", err)
	}

	cancel()
	a.scheduler.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := a.WebServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if len(a.service.Current()) > 0 {
		if err := a.scheduler.Persist(); err != nil {
			return err
		}
	}
	a.logger.Infof(providers.TypeApp, "gracefully stopped")
	return nil
}
