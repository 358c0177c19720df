package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/revitawellness/voiceai-hub/internal/domain/entities"
	"github.com/revitawellness/voiceai-hub/internal/domain/repositories"
)

// StatsRepository computes read-only aggregations over calls and insights
type StatsRepository struct {
	db *gorm.DB
}

// NewStatsRepository creates a new stats repository
func NewStatsRepository(db *gorm.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// Daily aggregates call counts and durations for calls started in the
// window. An empty window yields zeroed counts.
func (r *StatsRepository) Daily(ctx context.Context, from, to time.Time) (*repositories.DailyStats, error) {
	var stats repositories.DailyStats
	err := r.db.WithContext(ctx).
		Model(&entities.Call{}).
		Select(`COUNT(*) AS total_calls,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS completed,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS missed,
			COALESCE(SUM(CASE WHEN direction = ? THEN 1 ELSE 0 END), 0) AS inbound,
			COALESCE(SUM(CASE WHEN direction = ? THEN 1 ELSE 0 END), 0) AS outbound,
			COALESCE(AVG(CASE WHEN duration_seconds > 0 THEN duration_seconds END), 0) AS avg_duration,
			COALESCE(SUM(duration_seconds), 0) AS total_duration`,
			entities.CallStatusEnded,
			entities.CallStatusInitiated,
			entities.DirectionInbound,
			entities.DirectionOutbound,
		).
		Where("started_at >= ? AND started_at <= ?", from, to).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// Sentiment counts insight sentiment tags for calls started in the window
func (r *StatsRepository) Sentiment(ctx context.Context, from, to time.Time) (*repositories.SentimentStats, error) {
	var stats repositories.SentimentStats
	err := r.db.WithContext(ctx).
		Model(&entities.Insight{}).
		Select(`COALESCE(SUM(CASE WHEN insights.sentiment = ? THEN 1 ELSE 0 END), 0) AS positive,
			COALESCE(SUM(CASE WHEN insights.sentiment = ? THEN 1 ELSE 0 END), 0) AS neutral,
			COALESCE(SUM(CASE WHEN insights.sentiment = ? THEN 1 ELSE 0 END), 0) AS negative`,
			entities.SentimentPositive,
			entities.SentimentNeutral,
			entities.SentimentNegative,
		).
		Joins("JOIN calls ON calls.id = insights.call_id").
		Where("calls.started_at >= ? AND calls.started_at <= ?", from, to).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// Outcomes builds the outcome histogram for calls started in the window
func (r *StatsRepository) Outcomes(ctx context.Context, from, to time.Time) ([]repositories.OutcomeCount, error) {
	counts := make([]repositories.OutcomeCount, 0)
	err := r.db.WithContext(ctx).
		Model(&entities.Insight{}).
		Select("insights.outcome AS outcome, COUNT(*) AS count").
		Joins("JOIN calls ON calls.id = insights.call_id").
		Where("calls.started_at >= ? AND calls.started_at <= ?", from, to).
		Group("insights.outcome").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}
