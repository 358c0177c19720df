package handler

import (
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/revitawellness/voiceai-hub/errors"
	callDto "github.com/revitawellness/voiceai-hub/internal/adapter/dto/call"
	"github.com/revitawellness/voiceai-hub/internal/usecase/reporting"
)

// StatsHandler serves aggregate stats over stored calls and insights
type StatsHandler struct {
	reports reporting.Service
	logger  *zap.Logger
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(reports reporting.Service, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{reports: reports, logger: logger}
}

// Today returns the dashboard stats for the current UTC day
func (h *StatsHandler) Today(c echo.Context) error {
	from, to := reporting.TodayRange(time.Now())

	overview, err := h.reports.RangeOverview(c.Request().Context(), from, to)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrDBQueryFailed("today stats", err))
	}
	return HandleSuccess(h.logger, c, overview)
}

// Range returns the stats for an explicit date range
func (h *StatsHandler) Range(c echo.Context) error {
	var req callDto.StatsRangeRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid query parameters"))
	}
	if req.FromDate == "" || req.ToDate == "" {
		return HandleError(h.logger, c, errors.ErrMissingDateRange())
	}

	from, err := parseDateParam(req.FromDate, false)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(fmt.Sprintf("invalid from_date: %v", err)))
	}
	to, err := parseDateParam(req.ToDate, true)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(fmt.Sprintf("invalid to_date: %v", err)))
	}

	overview, err := h.reports.RangeOverview(c.Request().Context(), *from, *to)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrDBQueryFailed("range stats", err))
	}
	return HandleSuccess(h.logger, c, overview)
}
