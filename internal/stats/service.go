// Package stats serves click analytics reads: per-code summaries from the
// raw event log and daily series from the rollup counters with a raw-event
// fallback.
package stats

import (
	"context"
	"time"

	"github.com/shortloop/shortloop/internal/click"
	"go.uber.org/zap"
)

// Service answers stats queries. Reads prefer the rollup store; when a
// requested range has no rollup rows the service recomputes from the raw
// event log, which also covers the crash window between an event append and
// its rollup increment.
type Service struct {
	events  click.EventStore
	rollups click.RollupStore
	logger  *zap.Logger
}

// NewService creates a stats query service.
func NewService(events click.EventStore, rollups click.RollupStore, logger *zap.Logger) *Service {
	return &Service{
		events:  events,
		rollups: rollups,
		logger:  logger,
	}
}

// Summary scans the event store for a code's total, first, and last click.
// The rollup store does not track first/last, so this is always the exact
// path.
func (s *Service) Summary(ctx context.Context, code string) (*click.Summary, error) {
	return s.events.Summarize(ctx, code)
}

// DailySeries returns per-day click counts over an inclusive day range,
// ascending. An empty or failing rollup read falls back to grouping raw
// events over the same range; both paths honor the same contract.
func (s *Service) DailySeries(ctx context.Context, code string, from, to time.Time) ([]click.DayCount, error) {
	from, to = click.DayOf(from), click.DayOf(to)

	rows, err := s.rollups.Range(ctx, code, from, to)
	if err != nil {
		s.logger.Warn("rollup range read failed, falling back to raw events",
			zap.String("code", code),
			zap.Error(err),
		)
	} else if len(rows) > 0 {
		return rows, nil
	}

	return s.events.CountByDay(ctx, code, from, to)
}
