package click

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// RawClick carries the unhashed request metadata for one click. It only
// exists in memory; Event is what gets persisted or published.
type RawClick struct {
	Code       string
	IP         string
	UserAgent  string
	Referrer   string
	OccurredAt time.Time
}

// Event converts the raw click into its storable form, fingerprinting the
// IP and user agent and defaulting the timestamp to now.
func (r RawClick) Event() *Event {
	ts := r.OccurredAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	return &Event{
		Code:       r.Code,
		OccurredAt: ts,
		IPHash:     Fingerprint(r.IP),
		UAHash:     Fingerprint(r.UserAgent),
		Referrer:   r.Referrer,
	}
}

// Ack reports the outcome of recording a click. Recording never fails the
// operation that triggered it; callers inspect Accepted if they care.
type Ack struct {
	Accepted bool
	Reason   string
}

// Recorder records one click, best effort.
type Recorder interface {
	Record(ctx context.Context, raw RawClick) Ack
}

// Ingestor validates and writes one click to both stores: the durable event
// append first, the rollup increment second. A rollup failure after a
// durable append is only logged; the stats fallback recomputes from raw
// events until the counter catches up.
type Ingestor struct {
	events  EventStore
	rollups RollupStore
	logger  *zap.Logger
}

// NewIngestor creates a click ingestor.
func NewIngestor(events EventStore, rollups RollupStore, logger *zap.Logger) *Ingestor {
	return &Ingestor{
		events:  events,
		rollups: rollups,
		logger:  logger,
	}
}

// Record fingerprints and stores one click.
func (i *Ingestor) Record(ctx context.Context, raw RawClick) Ack {
	if err := i.Store(ctx, raw.Event()); err != nil {
		return Ack{Accepted: false, Reason: err.Error()}
	}

	return Ack{Accepted: true}
}

// Store persists an already-fingerprinted event. It returns an error only
// when the event append itself fails; queue consumers use this to nack for
// redelivery.
func (i *Ingestor) Store(ctx context.Context, e *Event) error {
	if _, err := i.events.Append(ctx, e); err != nil {
		return err
	}

	if _, err := i.rollups.IncrementDay(ctx, e.Code, DayOf(e.OccurredAt)); err != nil {
		// The event is durable; the daily series self-repairs via fallback
		// aggregation until the rollup row exists again.
		i.logger.Warn("rollup increment failed after durable append",
			zap.String("code", e.Code),
			zap.Time("day", DayOf(e.OccurredAt)),
			zap.Error(err),
		)
	}

	return nil
}
