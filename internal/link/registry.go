package link

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"time"

	"go.uber.org/zap"
)

// CodeGenerator generates random short codes.
type CodeGenerator func() string

// customCodePattern restricts custom codes to a bounded alphanumeric charset.
var customCodePattern = regexp.MustCompile(`^[A-Za-z0-9]{1,20}$`)

// maxGenerateAttempts bounds collision retries for generated codes. With an
// 8-character alphanumeric alphabet a single collision is already unlikely.
const maxGenerateAttempts = 5

// Registry owns the code -> target URL mapping.
type Registry struct {
	repo         Repository
	generateCode CodeGenerator
	logger       *zap.Logger
}

// NewRegistry creates a link registry.
func NewRegistry(repo Repository, generator CodeGenerator, logger *zap.Logger) *Registry {
	return &Registry{
		repo:         repo,
		generateCode: generator,
		logger:       logger,
	}
}

// Create registers a new link. A custom code must match the restricted
// charset and be unused by any link ever created; when no custom code is
// given a random one is generated, retrying on the rare collision.
func (r *Registry) Create(ctx context.Context, ownerID int64, targetURL, customCode string) (*Link, error) {
	if err := validateTarget(targetURL); err != nil {
		return nil, err
	}

	if customCode != "" {
		if !customCodePattern.MatchString(customCode) {
			return nil, fmt.Errorf("%w: custom code must be alphanumeric, at most 20 characters", ErrCodeTaken)
		}

		return r.repo.Create(ctx, r.newLink(ownerID, targetURL, customCode))
	}

	for attempt := 0; attempt < maxGenerateAttempts; attempt++ {
		code := r.generateCode()

		created, err := r.repo.Create(ctx, r.newLink(ownerID, targetURL, code))
		if err == nil {
			return created, nil
		}

		if !errors.Is(err, ErrCodeTaken) {
			return nil, err
		}

		r.logger.Warn("generated code collided, retrying",
			zap.String("code", code),
			zap.Int("attempt", attempt+1),
		)
	}

	return nil, fmt.Errorf("%w: could not generate a free code after %d attempts", ErrCodeTaken, maxGenerateAttempts)
}

// Resolve returns the link for a code only if it is active. Inactive and
// unknown codes both yield ErrNotFound so callers cannot enumerate deleted
// codes.
func (r *Registry) Resolve(ctx context.Context, code string) (*Link, error) {
	l, err := r.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if !l.IsActive {
		return nil, ErrNotFound
	}

	return l, nil
}

// Get returns a link by ID, active or not.
func (r *Registry) Get(ctx context.Context, id int64) (*Link, error) {
	return r.repo.GetByID(ctx, id)
}

// ListByOwner returns a page of the owner's links, newest first.
func (r *Registry) ListByOwner(ctx context.Context, ownerID int64, page, perPage int) ([]*Link, error) {
	if page < 1 {
		page = 1
	}

	if perPage < 1 {
		perPage = 20
	}

	return r.repo.ListByOwner(ctx, ownerID, (page-1)*perPage, perPage)
}

// Deactivate soft-deletes a link. Idempotent for already-inactive links.
func (r *Registry) Deactivate(ctx context.Context, id int64) error {
	return r.repo.Deactivate(ctx, id)
}

func (r *Registry) newLink(ownerID int64, targetURL, code string) *Link {
	return &Link{
		Code:      code,
		TargetURL: targetURL,
		OwnerID:   ownerID,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}
}

func validateTarget(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidTarget, rawURL)
	}

	if !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("%w: %s", ErrInvalidTarget, rawURL)
	}

	return nil
}
