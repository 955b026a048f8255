package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shortloop/shortloop/internal/link"
	"go.uber.org/zap"
)

// LinkHandler handles link registry operations.
type LinkHandler struct {
	registry *link.Registry
	baseURL  string
	logger   *zap.Logger
}

// NewLinkHandler creates a new link handler.
func NewLinkHandler(registry *link.Registry, baseURL string, logger *zap.Logger) *LinkHandler {
	return &LinkHandler{
		registry: registry,
		baseURL:  baseURL,
		logger:   logger,
	}
}

func (h *LinkHandler) CreateLink(ctx context.Context, req *CreateLinkRequest) (*CreateLinkResponse, error) {
	l, err := h.registry.Create(ctx, req.Body.OwnerID, req.Body.TargetURL, req.Body.CustomCode)
	if err != nil {
		switch {
		case errors.Is(err, link.ErrInvalidTarget):
			return nil, huma.Error422UnprocessableEntity("target must be an absolute URL")
		case errors.Is(err, link.ErrCodeTaken):
			return nil, huma.Error409Conflict("code taken")
		default:
			h.logger.Error("failed to create link", zap.Error(err))

			return nil, huma.Error500InternalServerError("failed to create link")
		}
	}

	resp := &CreateLinkResponse{}
	resp.Body = h.toLinkInfo(l)

	return resp, nil
}

func (h *LinkHandler) ListLinks(ctx context.Context, req *ListLinksRequest) (*ListLinksResponse, error) {
	links, err := h.registry.ListByOwner(ctx, req.OwnerID, req.Page, req.PerPage)
	if err != nil {
		h.logger.Error("failed to list links", zap.Int64("ownerId", req.OwnerID), zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to list links")
	}

	resp := &ListLinksResponse{}
	resp.Body.Links = make([]LinkInfo, 0, len(links))

	for _, l := range links {
		resp.Body.Links = append(resp.Body.Links, h.toLinkInfo(l))
	}

	return resp, nil
}

// GetLinkByCode resolves an active link. Inactive and unknown codes both
// come back as 404 so deleted codes cannot be enumerated.
func (h *LinkHandler) GetLinkByCode(ctx context.Context, req *GetLinkByCodeRequest) (*GetLinkByCodeResponse, error) {
	l, err := h.registry.Resolve(ctx, req.Code)
	if err != nil {
		if errors.Is(err, link.ErrNotFound) {
			return nil, huma.Error404NotFound("link not found")
		}

		h.logger.Error("failed to resolve link", zap.String("code", req.Code), zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to resolve link")
	}

	resp := &GetLinkByCodeResponse{}
	resp.Body = h.toLinkInfo(l)

	return resp, nil
}

func (h *LinkHandler) DeleteLink(ctx context.Context, req *DeleteLinkRequest) (*DeleteLinkResponse, error) {
	if err := h.registry.Deactivate(ctx, req.ID); err != nil {
		if errors.Is(err, link.ErrNotFound) {
			return nil, huma.Error404NotFound("link not found")
		}

		h.logger.Error("failed to deactivate link", zap.Int64("id", req.ID), zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to deactivate link")
	}

	resp := &DeleteLinkResponse{}
	resp.Body.OK = true

	return resp, nil
}

func (h *LinkHandler) toLinkInfo(l *link.Link) LinkInfo {
	return LinkInfo{
		ID:        l.ID,
		Code:      l.Code,
		ShortURL:  fmt.Sprintf("%s/r/%s", h.baseURL, l.Code),
		TargetURL: l.TargetURL,
		OwnerID:   l.OwnerID,
		IsActive:  l.IsActive,
		CreatedAt: l.CreatedAt,
	}
}
