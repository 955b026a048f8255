package store

import (
	"context"
	"sort"
	"sync"

	"github.com/shortloop/shortloop/internal/link"
)

// MemoryLinkRepository is an in-memory implementation of link.Repository.
// Code uniqueness is enforced under the same lock as the insert, mirroring
// the unique constraint the Postgres implementation relies on.
type MemoryLinkRepository struct {
	mu     sync.RWMutex
	byCode map[string]*link.Link
	byID   map[int64]*link.Link
	nextID int64
}

// NewMemoryLinkRepository creates a new in-memory link repository.
func NewMemoryLinkRepository() *MemoryLinkRepository {
	return &MemoryLinkRepository{
		byCode: make(map[string]*link.Link),
		byID:   make(map[int64]*link.Link),
	}
}

func (m *MemoryLinkRepository) Create(_ context.Context, l *link.Link) (*link.Link, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Soft-deleted rows stay in byCode, so their codes remain taken.
	if _, exists := m.byCode[l.Code]; exists {
		return nil, link.ErrCodeTaken
	}

	m.nextID++

	stored := *l
	stored.ID = m.nextID

	m.byCode[stored.Code] = &stored
	m.byID[stored.ID] = &stored

	out := stored

	return &out, nil
}

func (m *MemoryLinkRepository) GetByCode(_ context.Context, code string) (*link.Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	l, ok := m.byCode[code]
	if !ok {
		return nil, link.ErrNotFound
	}

	out := *l

	return &out, nil
}

func (m *MemoryLinkRepository) GetByID(_ context.Context, id int64) (*link.Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	l, ok := m.byID[id]
	if !ok {
		return nil, link.ErrNotFound
	}

	out := *l

	return &out, nil
}

func (m *MemoryLinkRepository) ListByOwner(_ context.Context, ownerID int64, offset, limit int) ([]*link.Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var owned []*link.Link

	for _, l := range m.byID {
		if l.OwnerID == ownerID {
			out := *l
			owned = append(owned, &out)
		}
	}

	sort.Slice(owned, func(i, j int) bool {
		if owned[i].CreatedAt.Equal(owned[j].CreatedAt) {
			return owned[i].ID > owned[j].ID
		}

		return owned[i].CreatedAt.After(owned[j].CreatedAt)
	})

	if offset >= len(owned) {
		return nil, nil
	}

	owned = owned[offset:]
	if limit < len(owned) {
		owned = owned[:limit]
	}

	return owned, nil
}

func (m *MemoryLinkRepository) Deactivate(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.byID[id]
	if !ok {
		return link.ErrNotFound
	}

	l.IsActive = false

	return nil
}

var _ link.Repository = (*MemoryLinkRepository)(nil)
