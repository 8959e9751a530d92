package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"go.uber.org/zap"

	"github.com/ruudy-sib/hooktrap/internal/domain/entity"
	"github.com/ruudy-sib/hooktrap/internal/port/secondary"
)

// Store implements secondary.WebhookStore on a SQL database through bun.
type Store struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewStore creates a SQL-backed webhook store. The store owns db and closes it on Close.
func NewStore(db *bun.DB, logger *zap.Logger) secondary.WebhookStore {
	return &Store{
		db:     db,
		logger: logger.Named("sql-store"),
	}
}

// Insert stores rec and assigns its ID.
func (s *Store) Insert(ctx context.Context, rec *entity.CapturedRequest) error {
	return s.insert(ctx, s.db, rec)
}

// InsertIfBelow counts and inserts in one transaction. Postgres serializes
// writers per session with a transaction-scoped advisory lock; SQLite runs on
// a single connection and needs nothing more.
func (s *Store) InsertIfBelow(ctx context.Context, rec *entity.CapturedRequest, limit int) (int, bool, error) {
	var (
		attempts int
		inserted bool
	)

	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if s.db.Dialect().Name() == dialect.PG {
			if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext(?))", rec.SessionID); err != nil {
				return fmt.Errorf("locking session: %w", err)
			}
		}

		count, err := tx.NewSelect().
			Model((*webhookRecord)(nil)).
			Where("session_id = ?", rec.SessionID).
			Count(ctx)
		if err != nil {
			return fmt.Errorf("counting records: %w", err)
		}

		attempts = count
		if count >= limit {
			return nil
		}
		if err := s.insert(ctx, tx, rec); err != nil {
			return err
		}
		inserted = true
		return nil
	})
	if err != nil {
		return 0, false, err
	}
	return attempts, inserted, nil
}

func (s *Store) insert(ctx context.Context, db bun.IDB, rec *entity.CapturedRequest) error {
	row := toRecord(rec)
	if _, err := db.NewInsert().Model(row).Returning("id").Exec(ctx); err != nil {
		return fmt.Errorf("inserting record: %w", err)
	}
	rec.ID = row.ID
	return nil
}

// ListBySession returns the session's records ordered by capture time, then id.
func (s *Store) ListBySession(ctx context.Context, sessionID string) ([]*entity.CapturedRequest, error) {
	var rows []*webhookRecord
	err := s.db.NewSelect().
		Model(&rows).
		Where("session_id = ?", sessionID).
		OrderExpr("created_at ASC, id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}

	records := make([]*entity.CapturedRequest, 0, len(rows))
	for _, row := range rows {
		records = append(records, toEntity(row))
	}
	return records, nil
}

// CountBySession returns the number of records held for the session.
func (s *Store) CountBySession(ctx context.Context, sessionID string) (int, error) {
	count, err := s.db.NewSelect().
		Model((*webhookRecord)(nil)).
		Where("session_id = ?", sessionID).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("counting records: %w", err)
	}
	return count, nil
}

// DeleteBySession removes every record of the session and reports how many there were.
func (s *Store) DeleteBySession(ctx context.Context, sessionID string) (int, error) {
	res, err := s.db.NewDelete().
		Model((*webhookRecord)(nil)).
		Where("session_id = ?", sessionID).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("deleting records: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reading deleted count: %w", err)
	}
	return int(n), nil
}

// Sessions aggregates records per session, most recent capture first.
func (s *Store) Sessions(ctx context.Context) ([]entity.SessionSummary, error) {
	var rows []sessionRow
	err := s.db.NewSelect().
		Model((*webhookRecord)(nil)).
		ColumnExpr("session_id").
		ColumnExpr("COUNT(*) AS count").
		ColumnExpr("MAX(created_at) AS last_captured_at").
		Group("session_id").
		OrderExpr("last_captured_at DESC, session_id ASC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("aggregating sessions: %w", err)
	}

	summaries := make([]entity.SessionSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, entity.SessionSummary{
			SessionID:      row.SessionID,
			Count:          row.Count,
			LastCapturedAt: time.UnixMicro(row.LastCapturedAt).UTC(),
		})
	}
	return summaries, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
