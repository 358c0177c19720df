package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/revitawellness/voiceai-hub/internal/domain/entities"
)

// InsightRepository handles call insight data operations
type InsightRepository struct {
	db *gorm.DB
}

// NewInsightRepository creates a new insight repository
func NewInsightRepository(db *gorm.DB) *InsightRepository {
	return &InsightRepository{db: db}
}

// Upsert creates the call's insight row or replaces the existing one, so a
// redelivered insights event never produces a duplicate.
func (r *InsightRepository) Upsert(ctx context.Context, insight *entities.Insight) error {
	if insight == nil {
		return errors.New("insight cannot be nil")
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "call_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"summary", "sentiment", "action_items", "topics", "outcome", "raw_payload", "updated_at",
			}),
		}).
		Create(insight).Error
}

// FindByCall retrieves the call's insight; returns nil when absent
func (r *InsightRepository) FindByCall(ctx context.Context, callID string) (*entities.Insight, error) {
	var insight entities.Insight
	if err := r.db.WithContext(ctx).Where("call_id = ?", callID).First(&insight).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &insight, nil
}
