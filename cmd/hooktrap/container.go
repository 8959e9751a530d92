package main

import (
	"context"
	"net/http"

	"go.uber.org/dig"
	"go.uber.org/zap"

	httphandler "github.com/ruudy-sib/hooktrap/internal/adapter/primary/http"
	"github.com/ruudy-sib/hooktrap/internal/adapter/primary/worker"
	"github.com/ruudy-sib/hooktrap/internal/adapter/secondary/kafkapublisher"
	"github.com/ruudy-sib/hooktrap/internal/adapter/secondary/storefactory"
	"github.com/ruudy-sib/hooktrap/internal/config"
	"github.com/ruudy-sib/hooktrap/internal/domain/service"
	"github.com/ruudy-sib/hooktrap/internal/port/primary"
	"github.com/ruudy-sib/hooktrap/internal/port/secondary"
)

func buildContainer(ctx context.Context) (*dig.Container, error) {
	c := dig.New()

	// --- Configuration ---
	if err := c.Provide(func() (*config.Config, error) {
		cfg := config.New()
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return cfg, nil
	}); err != nil {
		return nil, err
	}

	// --- Logger ---
	if err := c.Provide(newLogger); err != nil {
		return nil, err
	}

	// --- Secondary Adapters (infrastructure) ---

	// Store backend selected by STORE_DRIVER
	if err := c.Provide(func(cfg *config.Config, logger *zap.Logger) (*storefactory.Backend, error) {
		return storefactory.Open(ctx, cfg, logger)
	}); err != nil {
		return nil, err
	}

	// Webhook store (implements secondary.WebhookStore)
	if err := c.Provide(func(backend *storefactory.Backend) secondary.WebhookStore {
		return backend.Store
	}); err != nil {
		return nil, err
	}

	// Capture event publisher (implements secondary.EventPublisher)
	if err := c.Provide(kafkapublisher.New); err != nil {
		return nil, err
	}

	// Collect all health checks
	if err := c.Provide(func(cfg *config.Config, backend *storefactory.Backend) []secondary.HealthChecker {
		checks := append([]secondary.HealthChecker(nil), backend.Checks...)
		if cfg.KafkaEnabled() {
			checks = append(checks, kafkapublisher.NewHealthCheck(cfg.KafkaBrokers))
		}
		return checks
	}); err != nil {
		return nil, err
	}

	// --- Domain Services ---

	if err := c.Provide(func(
		cfg *config.Config,
		store secondary.WebhookStore,
		publisher secondary.EventPublisher,
		logger *zap.Logger,
	) *service.CaptureService {
		return service.NewCaptureService(store, publisher, logger,
			service.WithTimeoutDelay(cfg.TimeoutSimulation),
		)
	}); err != nil {
		return nil, err
	}

	if err := c.Provide(service.NewInspectionService); err != nil {
		return nil, err
	}

	// Bind concrete services to the primary port interfaces
	if err := c.Provide(func(s *service.CaptureService) primary.CaptureService {
		return s
	}); err != nil {
		return nil, err
	}

	if err := c.Provide(func(s *service.InspectionService) primary.InspectionService {
		return s
	}); err != nil {
		return nil, err
	}

	// --- Primary Adapters ---

	// HTTP router
	if err := c.Provide(func(
		captureSvc primary.CaptureService,
		inspectionSvc primary.InspectionService,
		checks []secondary.HealthChecker,
		logger *zap.Logger,
	) http.Handler {
		return httphandler.NewRouter(captureSvc, inspectionSvc, checks, logger)
	}); err != nil {
		return nil, err
	}

	// Store statistics worker
	if err := c.Provide(func(inspectionSvc primary.InspectionService, cfg *config.Config, logger *zap.Logger) *worker.Worker {
		return worker.NewWorker(inspectionSvc, cfg.StatsInterval, logger)
	}); err != nil {
		return nil, err
	}

	return c, nil
}
