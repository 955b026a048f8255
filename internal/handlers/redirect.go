package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shortloop/shortloop/internal/click"
	"github.com/shortloop/shortloop/internal/link"
	"github.com/shortloop/shortloop/internal/redirect"
	"go.uber.org/zap"
)

// RedirectHandler serves the public redirect and the explicit tracking call.
type RedirectHandler struct {
	resolver *redirect.Resolver
	recorder click.Recorder
	logger   *zap.Logger
}

// NewRedirectHandler creates a new redirect handler.
func NewRedirectHandler(resolver *redirect.Resolver, recorder click.Recorder, logger *zap.Logger) *RedirectHandler {
	return &RedirectHandler{
		resolver: resolver,
		recorder: recorder,
		logger:   logger,
	}
}

// Redirect resolves a code and answers with a 302 to the target. Click
// recording is best-effort inside the resolver and never shows up in the
// response, success or not.
func (h *RedirectHandler) Redirect(ctx context.Context, req *RedirectRequest) (*RedirectResponse, error) {
	meta := RequestMetaFromContext(ctx)

	target, err := h.resolver.Resolve(ctx, click.RawClick{
		Code:      req.Code,
		IP:        meta.ClientIP,
		UserAgent: meta.UserAgent,
		Referrer:  meta.Referrer,
	})
	if err != nil {
		if errors.Is(err, link.ErrNotFound) {
			return nil, huma.Error404NotFound("short link not found")
		}

		h.logger.Error("failed to resolve redirect", zap.String("code", req.Code), zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to resolve redirect")
	}

	resp := &RedirectResponse{
		Status: http.StatusFound,
	}
	resp.Headers.Location = target

	return resp, nil
}

// TrackClick records one click explicitly. In a split deployment the
// redirecting process calls this endpoint and must treat any non-2xx as
// dropped telemetry, completing its redirect regardless.
func (h *RedirectHandler) TrackClick(ctx context.Context, req *TrackClickRequest) (*TrackClickResponse, error) {
	meta := RequestMetaFromContext(ctx)

	referrer := req.Body.Referrer
	if referrer == "" {
		referrer = meta.Referrer
	}

	ack := h.recorder.Record(ctx, click.RawClick{
		Code:       req.Code,
		IP:         meta.ClientIP,
		UserAgent:  meta.UserAgent,
		Referrer:   referrer,
		OccurredAt: req.Body.OccurredAt,
	})
	if !ack.Accepted {
		return nil, huma.Error503ServiceUnavailable(ack.Reason)
	}

	resp := &TrackClickResponse{}
	resp.Body.OK = true

	return resp, nil
}
