package store

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shortloop/shortloop/internal/link"
)

// CachedLinkRepository wraps a link.Repository with Redis caching for the
// by-code lookup, which is the redirect hot path. The active flag is cached
// too, so inactive links resolve to NotFound without touching Postgres.
type CachedLinkRepository struct {
	inner  link.Repository
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewCachedLinkRepository creates a Redis-cached link repository decorator.
func NewCachedLinkRepository(inner link.Repository, client *redis.Client, ttl time.Duration) *CachedLinkRepository {
	return &CachedLinkRepository{
		inner:  inner,
		client: client,
		prefix: "link:",
		ttl:    ttl,
	}
}

// Create stores the link in the underlying repository and writes through to
// the cache.
func (c *CachedLinkRepository) Create(ctx context.Context, l *link.Link) (*link.Link, error) {
	created, err := c.inner.Create(ctx, l)
	if err != nil {
		return nil, err
	}

	c.cacheLink(ctx, created)

	return created, nil
}

// GetByCode checks the cache first and falls back to the underlying
// repository, populating the cache on a miss. Cache errors degrade to the
// underlying store.
func (c *CachedLinkRepository) GetByCode(ctx context.Context, code string) (*link.Link, error) {
	if cached, err := c.getFromCache(ctx, code); err == nil {
		return cached, nil
	}

	l, err := c.inner.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	c.cacheLink(ctx, l)

	return l, nil
}

func (c *CachedLinkRepository) GetByID(ctx context.Context, id int64) (*link.Link, error) {
	return c.inner.GetByID(ctx, id)
}

func (c *CachedLinkRepository) ListByOwner(ctx context.Context, ownerID int64, offset, limit int) ([]*link.Link, error) {
	return c.inner.ListByOwner(ctx, ownerID, offset, limit)
}

// Deactivate soft-deletes the link and drops its cache entry so the next
// resolve sees the inactive row.
func (c *CachedLinkRepository) Deactivate(ctx context.Context, id int64) error {
	l, err := c.inner.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := c.inner.Deactivate(ctx, id); err != nil {
		return err
	}

	_ = c.client.Del(ctx, c.prefix+l.Code).Err()

	return nil
}

func (c *CachedLinkRepository) getFromCache(ctx context.Context, code string) (*link.Link, error) {
	result, err := c.client.HGetAll(ctx, c.prefix+code).Result()
	if err != nil {
		return nil, err
	}

	if len(result) == 0 {
		return nil, link.ErrNotFound
	}

	id, _ := strconv.ParseInt(result["id"], 10, 64)
	ownerID, _ := strconv.ParseInt(result["owner_id"], 10, 64)
	isActive, _ := strconv.ParseBool(result["is_active"])

	var createdAt time.Time

	if nanos, err := strconv.ParseInt(result["created_at"], 10, 64); err == nil {
		createdAt = time.Unix(0, nanos).UTC()
	}

	return &link.Link{
		ID:        id,
		Code:      result["code"],
		TargetURL: result["target_url"],
		OwnerID:   ownerID,
		IsActive:  isActive,
		CreatedAt: createdAt,
	}, nil
}

func (c *CachedLinkRepository) cacheLink(ctx context.Context, l *link.Link) {
	key := c.prefix + l.Code

	pipe := c.client.Pipeline()
	pipe.HSet(ctx, key, map[string]interface{}{
		"id":         l.ID,
		"code":       l.Code,
		"target_url": l.TargetURL,
		"owner_id":   l.OwnerID,
		"is_active":  l.IsActive,
		"created_at": l.CreatedAt.UnixNano(),
	})

	if c.ttl > 0 {
		pipe.Expire(ctx, key, c.ttl)
	}

	_, _ = pipe.Exec(ctx)
}

// Shutdown is a no-op; the Redis client is managed by the container.
func (c *CachedLinkRepository) Shutdown() error {
	return nil
}

var _ link.Repository = (*CachedLinkRepository)(nil)
