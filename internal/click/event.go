package click

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// TopicClick is the topic click events are published on when ingestion runs
// out of process.
const TopicClick = "link.clicked"

// Event is one recorded click. Events are append-only and deliberately do
// not reference the link row, so ingestion never needs a registry round-trip.
type Event struct {
	Code       string    `json:"code"`
	OccurredAt time.Time `json:"occurredAt"`
	IPHash     string    `json:"ipHash"`
	UAHash     string    `json:"uaHash"`
	Referrer   string    `json:"referrer,omitempty"`
}

// Summary aggregates all clicks ever recorded for a code.
type Summary struct {
	TotalClicks  int64
	FirstClickAt *time.Time
	LastClickAt  *time.Time
}

// DayCount is the click total for one calendar day.
type DayCount struct {
	Day    time.Time
	Clicks int64
}

// Fingerprint returns the hex SHA-256 of a raw identifying value. Raw IPs
// and user agents are hashed before anything touches storage or the wire.
func Fingerprint(raw string) string {
	sum := sha256.Sum256([]byte(raw))

	return hex.EncodeToString(sum[:])
}

// DayOf truncates a timestamp to its UTC calendar day.
func DayOf(t time.Time) time.Time {
	u := t.UTC()

	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// EventStore is the append-only raw click log.
type EventStore interface {
	// Append stores one event and returns its insertion ID.
	Append(ctx context.Context, e *Event) (int64, error)

	// Summarize scans a code's events for total, first, and last click.
	Summarize(ctx context.Context, code string) (*Summary, error)

	// CountByDay groups a code's events by UTC day over an inclusive range,
	// ascending. Days without clicks are omitted.
	CountByDay(ctx context.Context, code string, from, to time.Time) ([]DayCount, error)
}

// RollupStore keeps pre-aggregated per-(code, day) counters derived from the
// event stream. It is a performance optimization, never the system of record.
type RollupStore interface {
	// IncrementDay atomically creates the (code, day) row if absent and adds
	// one, returning the new count. Concurrent callers must never lose an
	// increment.
	IncrementDay(ctx context.Context, code string, day time.Time) (int64, error)

	// Range returns counters over an inclusive day range, ascending.
	Range(ctx context.Context, code string, from, to time.Time) ([]DayCount, error)
}
