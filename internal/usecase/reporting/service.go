package reporting

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/revitawellness/voiceai-hub/internal/domain/repositories"
)

// Overview bundles the three projections the stats endpoints serve
type Overview struct {
	Calls     repositories.DailyStats     `json:"calls"`
	Sentiment repositories.SentimentStats `json:"sentiment"`
	Outcomes  []repositories.OutcomeCount `json:"outcomes"`
}

// Service exposes read-only projections over stored calls and insights.
// It never mutates records.
type Service interface {
	DailySummary(ctx context.Context, from, to time.Time) (*repositories.DailyStats, error)
	SentimentBreakdown(ctx context.Context, from, to time.Time) (*repositories.SentimentStats, error)
	OutcomeHistogram(ctx context.Context, from, to time.Time) ([]repositories.OutcomeCount, error)
	RangeOverview(ctx context.Context, from, to time.Time) (*Overview, error)
}

type service struct {
	stats repositories.StatsRepository
}

// NewService constructs the reporting service
func NewService(stats repositories.StatsRepository) Service {
	return &service{stats: stats}
}

// DailySummary returns call volume and duration aggregates. The missed
// count is the calls still at initiated inside the window, a query-time
// heuristic rather than a stored state. Average duration covers only calls
// with a positive duration and is rounded to whole seconds.
func (s *service) DailySummary(ctx context.Context, from, to time.Time) (*repositories.DailyStats, error) {
	stats, err := s.stats.Daily(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("daily summary: %w", err)
	}
	stats.AvgDuration = math.Round(stats.AvgDuration)
	return stats, nil
}

// SentimentBreakdown counts insight sentiment tags over the window
func (s *service) SentimentBreakdown(ctx context.Context, from, to time.Time) (*repositories.SentimentStats, error) {
	stats, err := s.stats.Sentiment(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("sentiment breakdown: %w", err)
	}
	return stats, nil
}

// OutcomeHistogram buckets insights by classified outcome over the window
func (s *service) OutcomeHistogram(ctx context.Context, from, to time.Time) ([]repositories.OutcomeCount, error) {
	counts, err := s.stats.Outcomes(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("outcome histogram: %w", err)
	}
	return counts, nil
}

// RangeOverview combines all three projections for one window
func (s *service) RangeOverview(ctx context.Context, from, to time.Time) (*Overview, error) {
	daily, err := s.DailySummary(ctx, from, to)
	if err != nil {
		return nil, err
	}
	sentiment, err := s.SentimentBreakdown(ctx, from, to)
	if err != nil {
		return nil, err
	}
	outcomes, err := s.OutcomeHistogram(ctx, from, to)
	if err != nil {
		return nil, err
	}

	return &Overview{
		Calls:     *daily,
		Sentiment: *sentiment,
		Outcomes:  outcomes,
	}, nil
}

// TodayRange returns the UTC day window for the "today" stats endpoint
func TodayRange(now time.Time) (time.Time, time.Time) {
	now = now.UTC()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	to := from.Add(24*time.Hour - time.Nanosecond)
	return from, to
}
