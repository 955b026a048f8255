package link_test

import (
	"context"
	"regexp"
	"sync"
	"testing"

	"github.com/jaevor/go-nanoid"
	"github.com/shortloop/shortloop/internal/link"
	"github.com/shortloop/shortloop/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const codeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

func newTestRegistry(t *testing.T) (*link.Registry, *store.MemoryLinkRepository) {
	t.Helper()

	repo := store.NewMemoryLinkRepository()

	generate, err := nanoid.CustomASCII(codeAlphabet, 8)
	require.NoError(t, err)

	return link.NewRegistry(repo, link.CodeGenerator(generate), zap.NewNop()), repo
}

func TestRegistry_Create(t *testing.T) {
	t.Run("generates an 8-character alphanumeric code", func(t *testing.T) {
		registry, _ := newTestRegistry(t)

		l, err := registry.Create(context.Background(), 1, "https://example.com/a/b?x=1", "")

		require.NoError(t, err)
		assert.Regexp(t, regexp.MustCompile(`^[A-Za-z0-9]{8}$`), l.Code)
		assert.Equal(t, "https://example.com/a/b?x=1", l.TargetURL)
		assert.True(t, l.IsActive)
		assert.NotZero(t, l.ID)
	})

	t.Run("accepts a valid custom code", func(t *testing.T) {
		registry, _ := newTestRegistry(t)

		l, err := registry.Create(context.Background(), 1, "https://example.com", "promo")

		require.NoError(t, err)
		assert.Equal(t, "promo", l.Code)
	})

	t.Run("rejects a relative target url", func(t *testing.T) {
		registry, _ := newTestRegistry(t)

		_, err := registry.Create(context.Background(), 1, "/just/a/path", "")

		assert.ErrorIs(t, err, link.ErrInvalidTarget)
	})

	t.Run("rejects an unparseable target url", func(t *testing.T) {
		registry, _ := newTestRegistry(t)

		_, err := registry.Create(context.Background(), 1, "http://%zz", "")

		assert.ErrorIs(t, err, link.ErrInvalidTarget)
	})

	t.Run("rejects a custom code outside the charset", func(t *testing.T) {
		registry, _ := newTestRegistry(t)

		for _, code := range []string{"has space", "sneaky/../path", "überkürzel", "waaaaaaaaaaaaaaaaytoolong"} {
			_, err := registry.Create(context.Background(), 1, "https://example.com", code)

			assert.ErrorIs(t, err, link.ErrCodeTaken, "code %q should be rejected", code)
		}
	})

	t.Run("rejects a custom code that already exists", func(t *testing.T) {
		registry, _ := newTestRegistry(t)

		_, err := registry.Create(context.Background(), 1, "https://example.com/first", "promo")
		require.NoError(t, err)

		_, err = registry.Create(context.Background(), 2, "https://example.com/second", "promo")

		assert.ErrorIs(t, err, link.ErrCodeTaken)
	})

	t.Run("soft-deleted codes stay reserved", func(t *testing.T) {
		registry, _ := newTestRegistry(t)

		l, err := registry.Create(context.Background(), 1, "https://example.com", "promo")
		require.NoError(t, err)

		require.NoError(t, registry.Deactivate(context.Background(), l.ID))

		_, err = registry.Create(context.Background(), 1, "https://example.com/other", "promo")

		assert.ErrorIs(t, err, link.ErrCodeTaken)
	})

	t.Run("retries generation on collision", func(t *testing.T) {
		repo := store.NewMemoryLinkRepository()

		codes := []string{"COLLIDED", "COLLIDED", "fresh001"}
		calls := 0
		generate := func() string {
			code := codes[calls%len(codes)]
			calls++

			return code
		}

		registry := link.NewRegistry(repo, generate, zap.NewNop())

		_, err := registry.Create(context.Background(), 1, "https://example.com/seed", "COLLIDED")
		require.NoError(t, err)

		l, err := registry.Create(context.Background(), 1, "https://example.com", "")

		require.NoError(t, err)
		assert.Equal(t, "fresh001", l.Code)
		assert.Equal(t, 3, calls)
	})

	t.Run("exactly one of two concurrent creations wins a custom code", func(t *testing.T) {
		registry, _ := newTestRegistry(t)

		var wg sync.WaitGroup

		errs := make([]error, 2)

		for i := range errs {
			wg.Add(1)

			go func(i int) {
				defer wg.Done()

				_, errs[i] = registry.Create(context.Background(), int64(i+1), "https://example.com", "promo")
			}(i)
		}

		wg.Wait()

		winners, losers := 0, 0

		for _, err := range errs {
			if err == nil {
				winners++
			} else {
				require.ErrorIs(t, err, link.ErrCodeTaken)
				losers++
			}
		}

		assert.Equal(t, 1, winners)
		assert.Equal(t, 1, losers)
	})
}

func TestRegistry_Resolve(t *testing.T) {
	t.Run("resolves an active link", func(t *testing.T) {
		registry, _ := newTestRegistry(t)

		created, err := registry.Create(context.Background(), 1, "https://example.com/a/b?x=1", "")
		require.NoError(t, err)

		resolved, err := registry.Resolve(context.Background(), created.Code)

		require.NoError(t, err)
		assert.Equal(t, created.TargetURL, resolved.TargetURL)
	})

	t.Run("unknown code is not found", func(t *testing.T) {
		registry, _ := newTestRegistry(t)

		_, err := registry.Resolve(context.Background(), "nope")

		assert.ErrorIs(t, err, link.ErrNotFound)
	})

	t.Run("deactivated code is indistinguishable from unknown", func(t *testing.T) {
		registry, _ := newTestRegistry(t)

		l, err := registry.Create(context.Background(), 1, "https://example.com", "promo")
		require.NoError(t, err)

		require.NoError(t, registry.Deactivate(context.Background(), l.ID))

		_, err = registry.Resolve(context.Background(), "promo")

		assert.ErrorIs(t, err, link.ErrNotFound)
	})
}

func TestRegistry_Deactivate(t *testing.T) {
	t.Run("is idempotent", func(t *testing.T) {
		registry, _ := newTestRegistry(t)

		l, err := registry.Create(context.Background(), 1, "https://example.com", "")
		require.NoError(t, err)

		require.NoError(t, registry.Deactivate(context.Background(), l.ID))
		assert.NoError(t, registry.Deactivate(context.Background(), l.ID))
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		registry, _ := newTestRegistry(t)

		err := registry.Deactivate(context.Background(), 12345)

		assert.ErrorIs(t, err, link.ErrNotFound)
	})
}

func TestRegistry_ListByOwner(t *testing.T) {
	t.Run("returns only the owner's links, newest first", func(t *testing.T) {
		registry, _ := newTestRegistry(t)

		for i := 0; i < 3; i++ {
			_, err := registry.Create(context.Background(), 1, "https://example.com/mine", "")
			require.NoError(t, err)
		}

		_, err := registry.Create(context.Background(), 2, "https://example.com/theirs", "")
		require.NoError(t, err)

		links, err := registry.ListByOwner(context.Background(), 1, 1, 20)

		require.NoError(t, err)
		require.Len(t, links, 3)

		for _, l := range links {
			assert.Equal(t, int64(1), l.OwnerID)
		}
	})

	t.Run("paginates", func(t *testing.T) {
		registry, _ := newTestRegistry(t)

		for i := 0; i < 5; i++ {
			_, err := registry.Create(context.Background(), 1, "https://example.com", "")
			require.NoError(t, err)
		}

		page1, err := registry.ListByOwner(context.Background(), 1, 1, 2)
		require.NoError(t, err)

		page3, err := registry.ListByOwner(context.Background(), 1, 3, 2)
		require.NoError(t, err)

		assert.Len(t, page1, 2)
		assert.Len(t, page3, 1)
	})
}
