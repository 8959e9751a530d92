package storefactory

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ruudy-sib/hooktrap/internal/adapter/secondary/memorystore"
	"github.com/ruudy-sib/hooktrap/internal/adapter/secondary/redisstore"
	"github.com/ruudy-sib/hooktrap/internal/adapter/secondary/sqlstore"
	"github.com/ruudy-sib/hooktrap/internal/config"
	"github.com/ruudy-sib/hooktrap/internal/domain"
	"github.com/ruudy-sib/hooktrap/internal/port/secondary"
)

// Backend is an opened webhook store together with the health checks of the
// infrastructure behind it.
type Backend struct {
	Store  secondary.WebhookStore
	Checks []secondary.HealthChecker
}

// Open builds the store selected by cfg.StoreDriver.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Backend, error) {
	logger = logger.Named("store-factory")

	switch cfg.StoreDriver {
	case config.DriverMemory:
		logger.Info("using in-memory store")
		return &Backend{Store: memorystore.New(logger)}, nil

	case config.DriverRedis:
		client, err := redisstore.NewClient(ctx, cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("creating redis client: %w", err)
		}
		return &Backend{
			Store:  redisstore.NewStore(client, cfg.RedisKeyPrefix, logger),
			Checks: []secondary.HealthChecker{redisstore.NewHealthCheck(client)},
		}, nil

	case config.DriverSQLite, config.DriverPostgres:
		dialect, dsn := sqlstore.DialectSQLite, cfg.SQLitePath
		if cfg.StoreDriver == config.DriverPostgres {
			dialect, dsn = sqlstore.DialectPostgres, cfg.DatabaseURL
		}
		db, err := sqlstore.Open(ctx, dialect, dsn, logger)
		if err != nil {
			return nil, fmt.Errorf("opening %s store: %w", dialect, err)
		}
		return &Backend{
			Store:  sqlstore.NewStore(db, logger),
			Checks: []secondary.HealthChecker{sqlstore.NewHealthCheck(db, dialect)},
		}, nil
	}

	return nil, fmt.Errorf("%w: %q", domain.ErrUnknownStoreDriver, cfg.StoreDriver)
}
