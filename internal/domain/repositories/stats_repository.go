package repositories

import (
	"context"
	"time"

	"github.com/revitawellness/voiceai-hub/internal/domain/entities"
)

// DailyStats summarizes call volume and duration over a window
type DailyStats struct {
	TotalCalls    int64   `json:"total"`
	Completed     int64   `json:"completed"`
	Missed        int64   `json:"missed"`
	Inbound       int64   `json:"inbound"`
	Outbound      int64   `json:"outbound"`
	AvgDuration   float64 `json:"avg_duration"`
	TotalDuration int64   `json:"total_duration"`
}

// SentimentStats counts insights per sentiment tag over a window
type SentimentStats struct {
	Positive int64 `json:"positive"`
	Neutral  int64 `json:"neutral"`
	Negative int64 `json:"negative"`
}

// OutcomeCount is one bucket of the outcome histogram
type OutcomeCount struct {
	Outcome entities.CallOutcome `json:"outcome"`
	Count   int64                `json:"count"`
}

// StatsRepository defines read-only aggregations over stored calls and
// insights. Empty windows yield zero-valued results, never errors.
type StatsRepository interface {
	// Daily aggregates call counts and durations for calls started in the window
	Daily(ctx context.Context, from, to time.Time) (*DailyStats, error)

	// Sentiment counts insight sentiment tags for calls started in the window
	Sentiment(ctx context.Context, from, to time.Time) (*SentimentStats, error)

	// Outcomes builds the outcome histogram for calls started in the window
	Outcomes(ctx context.Context, from, to time.Time) ([]OutcomeCount, error)
}
