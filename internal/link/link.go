package link

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a code does not resolve to an active link.
	// Inactive and never-created codes are deliberately indistinguishable.
	ErrNotFound = errors.New("link not found")

	// ErrCodeTaken is returned when a code is already claimed by any link,
	// active or soft-deleted.
	ErrCodeTaken = errors.New("code already taken")

	// ErrInvalidTarget is returned when the target is not an absolute URL.
	ErrInvalidTarget = errors.New("invalid target url")
)

// Link maps a short code to a target URL. Codes are immutable once created
// and never reused, even after the link is deactivated.
type Link struct {
	ID        int64
	Code      string
	TargetURL string
	OwnerID   int64
	IsActive  bool
	CreatedAt time.Time
}

// Repository defines storage operations for links. Implementations must
// enforce code uniqueness at the storage layer so that concurrent creations
// with the same code cannot both succeed.
type Repository interface {
	// Create persists a new link and returns it with its assigned ID.
	// Returns ErrCodeTaken if the code exists, active or not.
	Create(ctx context.Context, l *Link) (*Link, error)

	// GetByCode returns the link for a code regardless of its active flag.
	// Returns ErrNotFound if no such code was ever created.
	GetByCode(ctx context.Context, code string) (*Link, error)

	// GetByID returns a link by its ID. Returns ErrNotFound when absent.
	GetByID(ctx context.Context, id int64) (*Link, error)

	// ListByOwner returns the owner's links, newest first.
	ListByOwner(ctx context.Context, ownerID int64, offset, limit int) ([]*Link, error)

	// Deactivate soft-deletes a link. Deactivating an already-inactive link
	// is not an error. Returns ErrNotFound for unknown IDs.
	Deactivate(ctx context.Context, id int64) error
}
