// Package hooktrap embeds the webhook capture and inspection service in
// another Go application.
package hooktrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	httphandler "github.com/ruudy-sib/hooktrap/internal/adapter/primary/http"
	"github.com/ruudy-sib/hooktrap/internal/adapter/secondary/kafkapublisher"
	"github.com/ruudy-sib/hooktrap/internal/adapter/secondary/storefactory"
	"github.com/ruudy-sib/hooktrap/internal/config"
	"github.com/ruudy-sib/hooktrap/internal/domain"
	"github.com/ruudy-sib/hooktrap/internal/domain/entity"
	"github.com/ruudy-sib/hooktrap/internal/domain/service"
	"github.com/ruudy-sib/hooktrap/internal/port/secondary"
)

// Receiver captures webhooks and serves them back for inspection.
type Receiver struct {
	inspection *service.InspectionService
	store      secondary.WebhookStore
	publisher  secondary.EventPublisher
	handler    http.Handler
	logger     *zap.Logger
	config     *Config
}

// Config holds configuration for a Receiver.
type Config struct {
	// Store driver: "memory" (default), "redis", "sqlite", "postgres"
	StoreDriver string

	// SQLite file path or DSN (StoreDriver = "sqlite")
	SQLitePath string

	// Postgres DSN (StoreDriver = "postgres")
	DatabaseURL string

	// Redis mode: "standalone" (default), "sentinel", "cluster"
	RedisMode          string
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	RedisMasterName    string
	RedisSentinelAddrs []string
	RedisClusterAddrs  []string
	RedisKeyPrefix     string

	// Capture events are published only when both are set.
	KafkaBrokers      []string
	KafkaCaptureTopic string

	// How long fail-timeout- sessions block. Zero means the 15s default.
	TimeoutSimulation time.Duration

	// Logger (if nil, a default logger will be created)
	Logger *zap.Logger
}

// DefaultConfig returns an in-memory configuration.
func DefaultConfig() *Config {
	return &Config{
		StoreDriver:       config.DriverMemory,
		RedisAddr:         "localhost:6379",
		RedisKeyPrefix:    domain.DefaultRedisKeyPrefix,
		TimeoutSimulation: domain.TimeoutSimulationDelay,
	}
}

// New creates a Receiver with the given configuration.
func New(cfg *Config) (*Receiver, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	// Create logger if not provided
	logger := cfg.Logger
	if logger == nil {
		var err error
		logger, err = zap.NewProduction()
		if err != nil {
			return nil, fmt.Errorf("creating logger: %w", err)
		}
	}

	internalCfg := cfg.toInternal()
	if err := internalCfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	backend, err := storefactory.Open(context.Background(), internalCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	publisher := kafkapublisher.New(internalCfg, logger)

	capture := service.NewCaptureService(backend.Store, publisher, logger,
		service.WithTimeoutDelay(internalCfg.TimeoutSimulation),
	)
	inspection := service.NewInspectionService(backend.Store, logger)

	return &Receiver{
		inspection: inspection,
		store:      backend.Store,
		publisher:  publisher,
		handler:    httphandler.NewRouter(capture, inspection, backend.Checks, logger),
		logger:     logger,
		config:     cfg,
	}, nil
}

// Handler returns the HTTP handler serving capture and inspection routes.
// Mount it at the root of a server, or behind http.StripPrefix.
func (r *Receiver) Handler() http.Handler {
	return r.handler
}

// Webhook is one captured request.
type Webhook struct {
	ID        int64
	Method    string
	Headers   map[string]string
	Body      *string
	CreatedAt time.Time
}

// Session summarizes the captures of one session.
type Session struct {
	ID             string
	Count          int
	LastCapturedAt time.Time
}

// Webhooks returns the captures of a session in the order they arrived.
func (r *Receiver) Webhooks(ctx context.Context, sessionID string) ([]Webhook, error) {
	records, err := r.inspection.ListWebhooks(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	out := make([]Webhook, 0, len(records))
	for _, rec := range records {
		out = append(out, fromRecord(rec))
	}
	return out, nil
}

// Sessions returns every session, most recently active first.
func (r *Receiver) Sessions(ctx context.Context) ([]Session, error) {
	summaries, err := r.inspection.ListSessions(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Session, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, Session{ID: s.SessionID, Count: s.Count, LastCapturedAt: s.LastCapturedAt})
	}
	return out, nil
}

// Clear deletes every capture of a session and returns how many were removed.
func (r *Receiver) Clear(ctx context.Context, sessionID string) (int, error) {
	return r.inspection.ClearSession(ctx, sessionID)
}

// Close releases the store and the event publisher.
func (r *Receiver) Close() error {
	r.logger.Info("shutting down hooktrap receiver")

	var errs []error

	if err := r.publisher.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing event publisher: %w", err))
	}

	if err := r.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing store: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errs)
	}

	return nil
}

func (c *Config) toInternal() *config.Config {
	internal := &config.Config{
		StoreDriver:        c.StoreDriver,
		SQLitePath:         c.SQLitePath,
		DatabaseURL:        c.DatabaseURL,
		RedisMode:          c.RedisMode,
		RedisAddr:          c.RedisAddr,
		RedisPassword:      c.RedisPassword,
		RedisDB:            c.RedisDB,
		RedisMasterName:    c.RedisMasterName,
		RedisSentinelAddrs: c.RedisSentinelAddrs,
		RedisClusterAddrs:  c.RedisClusterAddrs,
		RedisKeyPrefix:     c.RedisKeyPrefix,
		KafkaBrokers:       c.KafkaBrokers,
		KafkaCaptureTopic:  c.KafkaCaptureTopic,
		TimeoutSimulation:  c.TimeoutSimulation,
		StatsInterval:      time.Minute,
	}
	if internal.StoreDriver == "" {
		internal.StoreDriver = config.DriverMemory
	}
	if internal.RedisKeyPrefix == "" {
		internal.RedisKeyPrefix = domain.DefaultRedisKeyPrefix
	}
	if internal.TimeoutSimulation == 0 {
		internal.TimeoutSimulation = domain.TimeoutSimulationDelay
	}
	return internal
}

func fromRecord(rec *entity.CapturedRequest) Webhook {
	return Webhook{
		ID:        rec.ID,
		Method:    rec.Method,
		Headers:   rec.Headers,
		Body:      rec.Body,
		CreatedAt: rec.CreatedAt,
	}
}
