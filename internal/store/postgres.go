package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shortloop/shortloop/internal/link"
)

// pgUniqueViolation is the Postgres error code for unique constraint hits.
const pgUniqueViolation = "23505"

// PostgresLinkRepository is a PostgreSQL implementation of link.Repository.
// The unique constraint on links.code is what makes concurrent creations
// with the same code safe; the application never check-then-inserts.
type PostgresLinkRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresLinkRepository creates a new PostgreSQL-backed link repository.
func NewPostgresLinkRepository(pool *pgxpool.Pool) *PostgresLinkRepository {
	return &PostgresLinkRepository{pool: pool}
}

func (p *PostgresLinkRepository) Create(ctx context.Context, l *link.Link) (*link.Link, error) {
	query := `
		INSERT INTO links (code, target_url, owner_id, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	created := *l

	err := p.pool.QueryRow(ctx, query,
		l.Code,
		l.TargetURL,
		l.OwnerID,
		l.IsActive,
		l.CreatedAt,
	).Scan(&created.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, link.ErrCodeTaken
		}

		return nil, err
	}

	return &created, nil
}

func (p *PostgresLinkRepository) GetByCode(ctx context.Context, code string) (*link.Link, error) {
	query := `
		SELECT id, code, target_url, owner_id, is_active, created_at
		FROM links
		WHERE code = $1
	`

	return p.scanLink(p.pool.QueryRow(ctx, query, code))
}

func (p *PostgresLinkRepository) GetByID(ctx context.Context, id int64) (*link.Link, error) {
	query := `
		SELECT id, code, target_url, owner_id, is_active, created_at
		FROM links
		WHERE id = $1
	`

	return p.scanLink(p.pool.QueryRow(ctx, query, id))
}

func (p *PostgresLinkRepository) ListByOwner(ctx context.Context, ownerID int64, offset, limit int) ([]*link.Link, error) {
	query := `
		SELECT id, code, target_url, owner_id, is_active, created_at
		FROM links
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC
		OFFSET $2 LIMIT $3
	`

	rows, err := p.pool.Query(ctx, query, ownerID, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []*link.Link

	for rows.Next() {
		var l link.Link

		if err := rows.Scan(&l.ID, &l.Code, &l.TargetURL, &l.OwnerID, &l.IsActive, &l.CreatedAt); err != nil {
			return nil, err
		}

		links = append(links, &l)
	}

	return links, rows.Err()
}

func (p *PostgresLinkRepository) Deactivate(ctx context.Context, id int64) error {
	// Idempotent by construction: flipping an already-false flag matches the
	// row and affects it without changing anything.
	tag, err := p.pool.Exec(ctx, `UPDATE links SET is_active = FALSE WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return link.ErrNotFound
	}

	return nil
}

func (p *PostgresLinkRepository) scanLink(row pgx.Row) (*link.Link, error) {
	var l link.Link

	err := row.Scan(&l.ID, &l.Code, &l.TargetURL, &l.OwnerID, &l.IsActive, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, link.ErrNotFound
		}

		return nil, err
	}

	return &l, nil
}

var _ link.Repository = (*PostgresLinkRepository)(nil)
