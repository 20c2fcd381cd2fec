package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/skulkarni3/energy-insights/internal/model"
)

// PostgresRepository stores insight lookup history and recommendation
// feedback. It is operational audit data only: nothing here is ever read
// back into rule evaluation.
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(dsn string, maxConn, maxIdleConn int) (*PostgresRepository, error) {
	// Disable prepared statement caching to avoid "unnamed prepared statement does not exist" errors
	if !strings.Contains(dsn, "?") {
		dsn += "?prefer_simple_protocol=true"
	} else {
		dsn += "&prefer_simple_protocol=true"
	}

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{db: db}, nil
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// Bootstrap creates the history tables if they do not exist yet.
func (r *PostgresRepository) Bootstrap(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS insight_lookups (
			id               BIGSERIAL PRIMARY KEY,
			lookup_id        UUID NOT NULL UNIQUE,
			address          TEXT NOT NULL,
			annual_usage_kwh DOUBLE PRECISION,
			solar_potential  DOUBLE PRECISION,
			recommendations  INT NOT NULL DEFAULT 0,
			status           TEXT NOT NULL DEFAULT 'ok',
			took_ms          BIGINT NOT NULL DEFAULT 0,
			created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS insight_feedback (
			id             BIGSERIAL PRIMARY KEY,
			lookup_id      UUID NOT NULL,
			recommendation TEXT NOT NULL DEFAULT '',
			action         TEXT NOT NULL,
			created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_insight_lookups_created_at
			ON insight_lookups (created_at DESC);
		CREATE INDEX IF NOT EXISTS idx_insight_feedback_lookup_id
			ON insight_feedback (lookup_id);
	`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to bootstrap schema: %w", err)
	}
	return nil
}

// LogLookup records one insight lookup. Called from a goroutine after the
// response has been sent; failures are the caller's to log, not to surface.
func (r *PostgresRepository) LogLookup(ctx context.Context, rec model.LookupRecord) error {
	query := `
		INSERT INTO insight_lookups (lookup_id, address, annual_usage_kwh, solar_potential, recommendations, status, took_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		rec.LookupID, rec.Address, rec.AnnualUsageKWh, rec.SolarPotential,
		rec.Recommendations, rec.Status, rec.Took,
	)
	if err != nil {
		return fmt.Errorf("failed to log lookup: %w", err)
	}
	return nil
}

// LogFeedback records user feedback on a recommendation. An empty
// recommendation name means the feedback applies to the lookup as a whole.
func (r *PostgresRepository) LogFeedback(ctx context.Context, lookupID, recommendation, action string) error {
	query := `
		INSERT INTO insight_feedback (lookup_id, recommendation, action)
		VALUES ($1, $2, $3)
	`
	_, err := r.db.ExecContext(ctx, query, lookupID, recommendation, action)
	if err != nil {
		return fmt.Errorf("failed to log feedback: %w", err)
	}
	return nil
}

// RecentLookups returns the most recent lookup history rows, newest first.
func (r *PostgresRepository) RecentLookups(ctx context.Context, limit int) ([]model.LookupRecord, error) {
	query := `
		SELECT lookup_id, address, annual_usage_kwh, solar_potential, recommendations, status, took_ms, created_at
		FROM insight_lookups
		ORDER BY created_at DESC
		LIMIT $1
	`
	records := []model.LookupRecord{}
	if err := r.db.SelectContext(ctx, &records, query, limit); err != nil {
		return nil, fmt.Errorf("failed to fetch lookups: %w", err)
	}
	return records, nil
}
