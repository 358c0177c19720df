package repositories

import (
	"context"

	"github.com/revitawellness/voiceai-hub/internal/domain/entities"
)

// TranscriptRepository defines the interface for transcript turn data access
type TranscriptRepository interface {
	// Append stores one utterance; turns are never updated
	Append(ctx context.Context, turn *entities.TranscriptTurn) error

	// ListByCall retrieves a call's turns ordered by spoken time ascending
	ListByCall(ctx context.Context, callID string) ([]*entities.TranscriptTurn, error)
}

// InsightRepository defines the interface for call insight data access
type InsightRepository interface {
	// Upsert creates the call's insight row or replaces the existing one
	Upsert(ctx context.Context, insight *entities.Insight) error

	// FindByCall retrieves the call's insight; returns nil when absent
	FindByCall(ctx context.Context, callID string) (*entities.Insight, error)
}
