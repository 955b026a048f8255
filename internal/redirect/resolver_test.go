package redirect_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shortloop/shortloop/internal/click"
	"github.com/shortloop/shortloop/internal/link"
	"github.com/shortloop/shortloop/internal/redirect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubLinkResolver struct {
	links map[string]*link.Link
}

func (s *stubLinkResolver) Resolve(_ context.Context, code string) (*link.Link, error) {
	l, ok := s.links[code]
	if !ok {
		return nil, link.ErrNotFound
	}

	return l, nil
}

type spyRecorder struct {
	mu       sync.Mutex
	recorded []click.RawClick
	ack      click.Ack
	delay    time.Duration
}

func (s *spyRecorder) Record(_ context.Context, raw click.RawClick) click.Ack {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.recorded = append(s.recorded, raw)

	return s.ack
}

func (s *spyRecorder) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.recorded)
}

func newStubLinks() *stubLinkResolver {
	return &stubLinkResolver{links: map[string]*link.Link{
		"promo": {ID: 1, Code: "promo", TargetURL: "https://example.com/sale", OwnerID: 1, IsActive: true},
	}}
}

func TestResolver_Resolve(t *testing.T) {
	t.Run("returns the target and records the click", func(t *testing.T) {
		recorder := &spyRecorder{ack: click.Ack{Accepted: true}}
		resolver := redirect.NewResolver(newStubLinks(), recorder, time.Second, zap.NewNop())

		target, err := resolver.Resolve(context.Background(), click.RawClick{
			Code:      "promo",
			IP:        "203.0.113.7",
			UserAgent: "Mozilla/5.0",
		})

		require.NoError(t, err)
		assert.Equal(t, "https://example.com/sale", target)
		require.Equal(t, 1, recorder.count())
		assert.Equal(t, "203.0.113.7", recorder.recorded[0].IP)
	})

	t.Run("unknown code records nothing", func(t *testing.T) {
		recorder := &spyRecorder{ack: click.Ack{Accepted: true}}
		resolver := redirect.NewResolver(newStubLinks(), recorder, time.Second, zap.NewNop())

		_, err := resolver.Resolve(context.Background(), click.RawClick{Code: "nope"})

		assert.ErrorIs(t, err, link.ErrNotFound)
		assert.Equal(t, 0, recorder.count())
	})

	t.Run("a rejected click still redirects", func(t *testing.T) {
		recorder := &spyRecorder{ack: click.Ack{Accepted: false, Reason: "store down"}}
		resolver := redirect.NewResolver(newStubLinks(), recorder, time.Second, zap.NewNop())

		target, err := resolver.Resolve(context.Background(), click.RawClick{Code: "promo"})

		require.NoError(t, err)
		assert.Equal(t, "https://example.com/sale", target)
	})

	t.Run("a slow recorder does not delay the redirect past the timeout", func(t *testing.T) {
		recorder := &spyRecorder{ack: click.Ack{Accepted: true}, delay: 2 * time.Second}
		resolver := redirect.NewResolver(newStubLinks(), recorder, 50*time.Millisecond, zap.NewNop())

		start := time.Now()

		target, err := resolver.Resolve(context.Background(), click.RawClick{Code: "promo"})

		require.NoError(t, err)
		assert.Equal(t, "https://example.com/sale", target)
		assert.Less(t, time.Since(start), time.Second)
	})

	t.Run("the abandoned recording still completes", func(t *testing.T) {
		recorder := &spyRecorder{ack: click.Ack{Accepted: true}, delay: 100 * time.Millisecond}
		resolver := redirect.NewResolver(newStubLinks(), recorder, 10*time.Millisecond, zap.NewNop())

		_, err := resolver.Resolve(context.Background(), click.RawClick{Code: "promo"})
		require.NoError(t, err)

		assert.Eventually(t, func() bool {
			return recorder.count() == 1
		}, time.Second, 10*time.Millisecond)
	})
}

func TestNewResolver(t *testing.T) {
	t.Run("non-positive timeout uses the default", func(t *testing.T) {
		recorder := &spyRecorder{ack: click.Ack{Accepted: true}}
		resolver := redirect.NewResolver(newStubLinks(), recorder, 0, zap.NewNop())

		target, err := resolver.Resolve(context.Background(), click.RawClick{Code: "promo"})

		require.NoError(t, err)
		assert.Equal(t, "https://example.com/sale", target)
	})
}
