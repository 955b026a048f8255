package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shortloop/shortloop/internal/click"
)

// MemoryEventStore is an in-memory implementation of click.EventStore.
type MemoryEventStore struct {
	mu     sync.RWMutex
	events []click.Event
}

// NewMemoryEventStore creates a new in-memory click event store.
func NewMemoryEventStore() *MemoryEventStore {
	return &MemoryEventStore{}
}

func (m *MemoryEventStore) Append(_ context.Context, e *click.Event) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.events = append(m.events, *e)

	return int64(len(m.events)), nil
}

func (m *MemoryEventStore) Summarize(_ context.Context, code string) (*click.Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	summary := &click.Summary{}

	for i := range m.events {
		e := &m.events[i]
		if e.Code != code {
			continue
		}

		summary.TotalClicks++

		ts := e.OccurredAt
		if summary.FirstClickAt == nil || ts.Before(*summary.FirstClickAt) {
			first := ts
			summary.FirstClickAt = &first
		}

		if summary.LastClickAt == nil || ts.After(*summary.LastClickAt) {
			last := ts
			summary.LastClickAt = &last
		}
	}

	return summary, nil
}

func (m *MemoryEventStore) CountByDay(_ context.Context, code string, from, to time.Time) ([]click.DayCount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := make(map[time.Time]int64)

	for i := range m.events {
		e := &m.events[i]
		if e.Code != code {
			continue
		}

		day := click.DayOf(e.OccurredAt)
		if day.Before(from) || day.After(to) {
			continue
		}

		counts[day]++
	}

	return sortedDayCounts(counts), nil
}

// MemoryRollupStore is an in-memory implementation of click.RollupStore.
// Increments are serialized per store, the in-memory equivalent of the
// Postgres upsert-increment.
type MemoryRollupStore struct {
	mu     sync.Mutex
	counts map[rollupKey]int64
}

type rollupKey struct {
	code string
	day  time.Time
}

// NewMemoryRollupStore creates a new in-memory rollup store.
func NewMemoryRollupStore() *MemoryRollupStore {
	return &MemoryRollupStore{
		counts: make(map[rollupKey]int64),
	}
}

func (m *MemoryRollupStore) IncrementDay(_ context.Context, code string, day time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := rollupKey{code: code, day: click.DayOf(day)}
	m.counts[key]++

	return m.counts[key], nil
}

func (m *MemoryRollupStore) Range(_ context.Context, code string, from, to time.Time) ([]click.DayCount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	counts := make(map[time.Time]int64)

	for key, n := range m.counts {
		if key.code != code || key.day.Before(from) || key.day.After(to) {
			continue
		}

		counts[key.day] = n
	}

	return sortedDayCounts(counts), nil
}

func sortedDayCounts(counts map[time.Time]int64) []click.DayCount {
	if len(counts) == 0 {
		return nil
	}

	out := make([]click.DayCount, 0, len(counts))
	for day, n := range counts {
		out = append(out, click.DayCount{Day: day, Clicks: n})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Day.Before(out[j].Day)
	})

	return out
}

var _ click.EventStore = (*MemoryEventStore)(nil)
var _ click.RollupStore = (*MemoryRollupStore)(nil)
