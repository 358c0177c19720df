package handler

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/revitawellness/voiceai-hub/errors"
	callDto "github.com/revitawellness/voiceai-hub/internal/adapter/dto/call"
	"github.com/revitawellness/voiceai-hub/internal/domain/repositories"
	"github.com/revitawellness/voiceai-hub/pkg/telnyx"
)

// Dialer initiates an outbound call through the voice gateway
type Dialer interface {
	Dial(ctx context.Context, to, webhookURL string) (*telnyx.DialResult, error)
}

// CallHandler serves the read API over stored calls and the outbound dial
// endpoint. It never mutates call records; the lifecycle controller owns all
// writes.
type CallHandler struct {
	calls       repositories.CallRepository
	transcripts repositories.TranscriptRepository
	insights    repositories.InsightRepository
	dialer      Dialer
	logger      *zap.Logger
}

// NewCallHandler creates a new call handler
func NewCallHandler(
	calls repositories.CallRepository,
	transcripts repositories.TranscriptRepository,
	insights repositories.InsightRepository,
	dialer Dialer,
	logger *zap.Logger,
) *CallHandler {
	return &CallHandler{
		calls:       calls,
		transcripts: transcripts,
		insights:    insights,
		dialer:      dialer,
		logger:      logger,
	}
}

// ListCalls returns calls filtered by direction, status, and start date,
// paginated, newest first
func (h *CallHandler) ListCalls(c echo.Context) error {
	var req callDto.ListCallsRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid query parameters"))
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	filters := repositories.CallFilters{
		Direction: req.Direction,
		Status:    req.Status,
		Limit:     req.Limit,
		Offset:    req.Offset,
	}
	if filters.Limit <= 0 {
		filters.Limit = 50
	}

	var err error
	if filters.FromDate, err = parseDateParam(req.FromDate, false); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(fmt.Sprintf("invalid from_date: %v", err)))
	}
	if filters.ToDate, err = parseDateParam(req.ToDate, true); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(fmt.Sprintf("invalid to_date: %v", err)))
	}

	rows, total, err := h.calls.List(c.Request().Context(), filters)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrDBQueryFailed("list calls", err))
	}

	return c.JSON(200, callDto.ListCallsResponse{
		Data: rows,
		Pagination: callDto.Pagination{
			Total:  total,
			Limit:  filters.Limit,
			Offset: filters.Offset,
		},
	})
}

// RecentCalls returns the most recently started calls
func (h *CallHandler) RecentCalls(c echo.Context) error {
	var req callDto.RecentCallsRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid query parameters"))
	}
	if req.Limit <= 0 {
		req.Limit = 20
	}

	rows, err := h.calls.Recent(c.Request().Context(), req.Limit)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrDBQueryFailed("recent calls", err))
	}
	return HandleSuccess(h.logger, c, rows)
}

// GetCall returns one call joined with its transcript and insight
func (h *CallHandler) GetCall(c echo.Context) error {
	callControlID := c.Param("callControlID")

	call, err := h.calls.FindByControlID(c.Request().Context(), callControlID)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrDBQueryFailed("find call", err))
	}
	if call == nil {
		return HandleError(h.logger, c, errors.ErrCallNotFound(callControlID))
	}

	turns, err := h.transcripts.ListByCall(c.Request().Context(), call.ID)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrDBQueryFailed("list transcript", err))
	}
	insight, err := h.insights.FindByCall(c.Request().Context(), call.ID)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrDBQueryFailed("find insight", err))
	}

	return HandleSuccess(h.logger, c, callDto.DetailResponse{
		Call:          call,
		Transcription: turns,
		Insight:       insight,
	})
}

// DialOutbound initiates an outbound call to the given number
func (h *CallHandler) DialOutbound(c echo.Context) error {
	var req callDto.OutboundCallRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("a destination number in E.164 format is required"))
	}

	result, err := h.dialer.Dial(c.Request().Context(), req.To, "")
	if err != nil {
		return HandleError(h.logger, c, errors.ErrGatewayFailed("dial", err))
	}

	h.logger.Info("outbound call initiated",
		zap.String("to", req.To),
		zap.String("call_control_id", result.CallControlID))
	return HandleSuccess(h.logger, c, result)
}

// parseDateParam accepts RFC3339 timestamps or bare dates. A bare to_date is
// widened to the end of that day so a single-day range covers the whole day.
func parseDateParam(value string, endOfDay bool) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return &ts, nil
	}
	ts, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, fmt.Errorf("expected RFC3339 or YYYY-MM-DD")
	}
	if endOfDay {
		ts = ts.Add(24*time.Hour - time.Nanosecond)
	}
	return &ts, nil
}
