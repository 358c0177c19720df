package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/revitawellness/voiceai-hub/internal/domain/entities"
)

// TranscriptRepository handles transcript turn data operations
type TranscriptRepository struct {
	db *gorm.DB
}

// NewTranscriptRepository creates a new transcript repository
func NewTranscriptRepository(db *gorm.DB) *TranscriptRepository {
	return &TranscriptRepository{db: db}
}

// Append stores one utterance. Turns are append-only; there is no update path.
func (r *TranscriptRepository) Append(ctx context.Context, turn *entities.TranscriptTurn) error {
	if turn == nil {
		return errors.New("turn cannot be nil")
	}
	return r.db.WithContext(ctx).Create(turn).Error
}

// ListByCall retrieves a call's turns ordered by spoken time ascending
func (r *TranscriptRepository) ListByCall(ctx context.Context, callID string) ([]*entities.TranscriptTurn, error) {
	turns := make([]*entities.TranscriptTurn, 0)
	err := r.db.WithContext(ctx).
		Where("call_id = ?", callID).
		Order("spoken_at ASC, id ASC").
		Find(&turns).Error
	if err != nil {
		return nil, err
	}
	return turns, nil
}
