// Package redirect resolves short codes to target URLs and records clicks
// without letting analytics problems touch the redirect path.
package redirect

import (
	"context"
	"time"

	"github.com/shortloop/shortloop/internal/click"
	"github.com/shortloop/shortloop/internal/link"
	"go.uber.org/zap"
)

// DefaultRecordTimeout bounds how long a redirect waits for the click to be
// acknowledged before abandoning it.
const DefaultRecordTimeout = 700 * time.Millisecond

// LinkResolver looks up active links by code.
type LinkResolver interface {
	Resolve(ctx context.Context, code string) (*link.Link, error)
}

// Resolver serves the redirect path: resolve the code, fire the click, and
// return the target URL regardless of how the click recording went. The
// registry is a hard dependency; the recorder is best-effort telemetry.
type Resolver struct {
	links    LinkResolver
	recorder click.Recorder
	timeout  time.Duration
	logger   *zap.Logger
}

// NewResolver creates a redirect resolver. A non-positive timeout falls back
// to DefaultRecordTimeout.
func NewResolver(links LinkResolver, recorder click.Recorder, timeout time.Duration, logger *zap.Logger) *Resolver {
	if timeout <= 0 {
		timeout = DefaultRecordTimeout
	}

	return &Resolver{
		links:    links,
		recorder: recorder,
		timeout:  timeout,
		logger:   logger,
	}
}

// Resolve returns the target URL for visit.Code. Unknown or inactive codes
// return link.ErrNotFound and no click is recorded. Otherwise the click is
// recorded on its own goroutine and the call waits at most the configured
// timeout for the ack; a slow, failed, or unreachable recorder never delays
// the redirect beyond that bound.
func (r *Resolver) Resolve(ctx context.Context, visit click.RawClick) (string, error) {
	l, err := r.links.Resolve(ctx, visit.Code)
	if err != nil {
		return "", err
	}

	// The recording goroutine gets a context detached from the request so an
	// abandoned ack does not cancel a write already in flight.
	recordCtx := context.WithoutCancel(ctx)

	done := make(chan click.Ack, 1)

	go func() {
		done <- r.recorder.Record(recordCtx, visit)
	}()

	timer := time.NewTimer(r.timeout)
	defer timer.Stop()

	select {
	case ack := <-done:
		if !ack.Accepted {
			r.logger.Warn("click dropped",
				zap.String("code", visit.Code),
				zap.String("reason", ack.Reason),
			)
		}
	case <-timer.C:
		r.logger.Warn("click recording timed out, redirecting anyway",
			zap.String("code", visit.Code),
			zap.Duration("timeout", r.timeout),
		)
	}

	return l.TargetURL, nil
}
