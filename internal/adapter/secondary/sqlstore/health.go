package sqlstore

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/ruudy-sib/hooktrap/internal/port/secondary"
)

// HealthCheck implements secondary.HealthChecker for the SQL store.
type HealthCheck struct {
	db   *bun.DB
	name string
}

// NewHealthCheck creates a health checker named after the dialect.
func NewHealthCheck(db *bun.DB, dialect string) secondary.HealthChecker {
	return &HealthCheck{db: db, name: dialect}
}

// Name returns the name of this health check.
func (h *HealthCheck) Name() string {
	return h.name
}

// Check pings the database.
func (h *HealthCheck) Check(ctx context.Context) error {
	return h.db.PingContext(ctx)
}
