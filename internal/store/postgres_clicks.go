package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shortloop/shortloop/internal/click"
)

// PostgresEventStore is a PostgreSQL implementation of click.EventStore.
// Writes are plain appends; the table carries indexes on (code, ts) for the
// summary and fallback-aggregation scans.
type PostgresEventStore struct {
	pool *pgxpool.Pool
}

// NewPostgresEventStore creates a new PostgreSQL-backed click event store.
func NewPostgresEventStore(pool *pgxpool.Pool) *PostgresEventStore {
	return &PostgresEventStore{pool: pool}
}

func (p *PostgresEventStore) Append(ctx context.Context, e *click.Event) (int64, error) {
	query := `
		INSERT INTO clicks (code, ts, ip_hash, ua_hash, referrer)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	var id int64

	err := p.pool.QueryRow(ctx, query,
		e.Code,
		e.OccurredAt,
		e.IPHash,
		e.UAHash,
		nullIfEmpty(e.Referrer),
	).Scan(&id)
	if err != nil {
		return 0, err
	}

	return id, nil
}

func (p *PostgresEventStore) Summarize(ctx context.Context, code string) (*click.Summary, error) {
	query := `
		SELECT COUNT(*), MIN(ts), MAX(ts)
		FROM clicks
		WHERE code = $1
	`

	var summary click.Summary

	err := p.pool.QueryRow(ctx, query, code).Scan(
		&summary.TotalClicks,
		&summary.FirstClickAt,
		&summary.LastClickAt,
	)
	if err != nil {
		return nil, err
	}

	return &summary, nil
}

func (p *PostgresEventStore) CountByDay(ctx context.Context, code string, from, to time.Time) ([]click.DayCount, error) {
	query := `
		SELECT (ts AT TIME ZONE 'UTC')::date AS day, COUNT(*)
		FROM clicks
		WHERE code = $1
		  AND (ts AT TIME ZONE 'UTC')::date BETWEEN $2 AND $3
		GROUP BY day
		ORDER BY day ASC
	`

	rows, err := p.pool.Query(ctx, query, code, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []click.DayCount

	for rows.Next() {
		var dc click.DayCount

		if err := rows.Scan(&dc.Day, &dc.Clicks); err != nil {
			return nil, err
		}

		dc.Day = click.DayOf(dc.Day)
		counts = append(counts, dc)
	}

	return counts, rows.Err()
}

// PostgresRollupStore is a PostgreSQL implementation of click.RollupStore.
// The upsert-increment runs as a single statement so concurrent clicks on
// the same (code, day) never lose an increment.
type PostgresRollupStore struct {
	pool *pgxpool.Pool
}

// NewPostgresRollupStore creates a new PostgreSQL-backed rollup store.
func NewPostgresRollupStore(pool *pgxpool.Pool) *PostgresRollupStore {
	return &PostgresRollupStore{pool: pool}
}

func (p *PostgresRollupStore) IncrementDay(ctx context.Context, code string, day time.Time) (int64, error) {
	query := `
		INSERT INTO daily_clicks (code, day, clicks)
		VALUES ($1, $2, 1)
		ON CONFLICT (code, day) DO UPDATE SET clicks = daily_clicks.clicks + 1
		RETURNING clicks
	`

	var clicks int64

	err := p.pool.QueryRow(ctx, query, code, click.DayOf(day)).Scan(&clicks)
	if err != nil {
		return 0, err
	}

	return clicks, nil
}

func (p *PostgresRollupStore) Range(ctx context.Context, code string, from, to time.Time) ([]click.DayCount, error) {
	query := `
		SELECT day, clicks
		FROM daily_clicks
		WHERE code = $1 AND day BETWEEN $2 AND $3
		ORDER BY day ASC
	`

	rows, err := p.pool.Query(ctx, query, code, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []click.DayCount

	for rows.Next() {
		var dc click.DayCount

		if err := rows.Scan(&dc.Day, &dc.Clicks); err != nil {
			return nil, err
		}

		dc.Day = click.DayOf(dc.Day)
		counts = append(counts, dc)
	}

	return counts, rows.Err()
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

var _ click.EventStore = (*PostgresEventStore)(nil)
var _ click.RollupStore = (*PostgresRollupStore)(nil)
