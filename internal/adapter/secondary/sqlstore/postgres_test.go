package sqlstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/ruudy-sib/hooktrap/internal/adapter/secondary/storetest"
	"github.com/ruudy-sib/hooktrap/internal/port/secondary"
)

// setupPostgres starts a PostgreSQL container and returns its connection string.
func setupPostgres(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := postgres.Run(ctx,
		"postgres:17-alpine",
		postgres.WithDatabase("hooktrap_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return connStr
}

func TestPostgresStore(t *testing.T) {
	connStr := setupPostgres(t)

	storetest.Run(t, func(t *testing.T) secondary.WebhookStore {
		ctx := context.Background()
		db, err := Open(ctx, DialectPostgres, connStr, zap.NewNop())
		require.NoError(t, err)
		_, err = db.ExecContext(ctx, "TRUNCATE webhooks")
		require.NoError(t, err)

		store := NewStore(db, zap.NewNop())
		t.Cleanup(func() { _ = store.Close() })
		return store
	})
}
