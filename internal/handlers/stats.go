package handlers

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shortloop/shortloop/internal/stats"
	"go.uber.org/zap"
)

// defaultSeriesDays is the window served when no range is given.
const defaultSeriesDays = 14

const dayLayout = "2006-01-02"

// StatsHandler serves read-only click analytics.
type StatsHandler struct {
	service *stats.Service
	logger  *zap.Logger
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(service *stats.Service, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{
		service: service,
		logger:  logger,
	}
}

func (h *StatsHandler) Summary(ctx context.Context, req *SummaryRequest) (*SummaryResponse, error) {
	summary, err := h.service.Summary(ctx, req.Code)
	if err != nil {
		h.logger.Error("failed to summarize clicks", zap.String("code", req.Code), zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to summarize clicks")
	}

	resp := &SummaryResponse{}
	resp.Body.TotalClicks = summary.TotalClicks
	resp.Body.FirstClickAt = summary.FirstClickAt
	resp.Body.LastClickAt = summary.LastClickAt

	return resp, nil
}

func (h *StatsHandler) DailySeries(ctx context.Context, req *DailySeriesRequest) (*DailySeriesResponse, error) {
	now := time.Now().UTC()

	from, to := now.AddDate(0, 0, -defaultSeriesDays), now

	var err error

	if req.From != "" {
		if from, err = time.Parse(dayLayout, req.From); err != nil {
			return nil, huma.Error400BadRequest("from must be formatted as YYYY-MM-DD")
		}
	}

	if req.To != "" {
		if to, err = time.Parse(dayLayout, req.To); err != nil {
			return nil, huma.Error400BadRequest("to must be formatted as YYYY-MM-DD")
		}
	}

	if to.Before(from) {
		return nil, huma.Error400BadRequest("to must not precede from")
	}

	days, err := h.service.DailySeries(ctx, req.Code, from, to)
	if err != nil {
		h.logger.Error("failed to read daily series", zap.String("code", req.Code), zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to read daily series")
	}

	resp := &DailySeriesResponse{}
	resp.Body.Days = make([]DayCountInfo, 0, len(days))

	for _, d := range days {
		resp.Body.Days = append(resp.Body.Days, DayCountInfo{
			Day:    d.Day.Format(dayLayout),
			Clicks: d.Clicks,
		})
	}

	return resp, nil
}
