package sqlstore

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"go.uber.org/zap"

	"github.com/ruudy-sib/hooktrap/internal/domain"
)

// Dialects understood by Open.
const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
)

//go:embed migrations
var migrationsFS embed.FS

// Open connects to the database, applies pending migrations and returns a
// bun handle for the dialect.
func Open(ctx context.Context, dialect, dsn string, logger *zap.Logger) (*bun.DB, error) {
	var db *bun.DB

	switch dialect {
	case DialectSQLite:
		sqldb, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite: %w", err)
		}
		// SQLite allows one writer; a single connection also keeps in-memory databases alive.
		sqldb.SetMaxOpenConns(1)
		db = bun.NewDB(sqldb, sqlitedialect.New())
	case DialectPostgres:
		sqldb, err := sql.Open("pgx", dsn)
		if err != nil {
			return nil, fmt.Errorf("opening postgres: %w", err)
		}
		db = bun.NewDB(sqldb, pgdialect.New())
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownStoreDriver, dialect)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %s ping: %v", domain.ErrStoreUnavailable, dialect, err)
	}

	if err := runMigrations(db, dialect, dsn); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Info("connected to sql store", zap.String("dialect", dialect))
	return db, nil
}

func runMigrations(db *bun.DB, dialect, dsn string) error {
	sub, err := fs.Sub(migrationsFS, "migrations/"+dialect)
	if err != nil {
		return fmt.Errorf("locating %s migrations: %w", dialect, err)
	}
	src, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("loading %s migrations: %w", dialect, err)
	}

	var (
		driver database.Driver
		owned  *sql.DB
	)
	switch dialect {
	case DialectSQLite:
		driver, err = sqlite3.WithInstance(db.DB, &sqlite3.Config{})
	case DialectPostgres:
		// Postgres migrations pin a connection for their lifetime, so they get their own pool.
		owned, err = sql.Open("pgx", dsn)
		if err == nil {
			driver, err = postgres.WithInstance(owned, &postgres.Config{})
		}
	}
	if err != nil {
		if owned != nil {
			_ = owned.Close()
		}
		return fmt.Errorf("preparing %s migrations: %w", dialect, err)
	}

	m, err := migrate.NewWithInstance("iofs", src, dialect, driver)
	if err != nil {
		return fmt.Errorf("initializing migrations: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("running migrations: %w", err)
	}

	// Closing the sqlite driver would close the shared handle.
	if owned != nil {
		srcErr, dbErr := m.Close()
		return errors.Join(srcErr, dbErr)
	}
	return src.Close()
}
