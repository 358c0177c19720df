package repositories

import (
	"context"
	"time"

	"github.com/revitawellness/voiceai-hub/internal/domain/entities"
)

// CallRepository defines the interface for call record data access.
// Every mutation is durable before the method returns.
type CallRepository interface {
	// Create inserts a new call; a correlation id collision surfaces as
	// ErrDuplicateKey
	Create(ctx context.Context, call *entities.Call) error

	// FindByControlID retrieves a call by its provider call control id;
	// returns nil when absent
	FindByControlID(ctx context.Context, callControlID string) (*entities.Call, error)

	// UpdateStatus updates only the call status
	UpdateStatus(ctx context.Context, callControlID string, status entities.CallStatus) error

	// MarkAnswered stamps answered_at and moves the call to answered
	MarkAnswered(ctx context.Context, callControlID string, answeredAt time.Time) error

	// MarkEnded stamps the terminal fields and moves the call to ended
	MarkEnded(ctx context.Context, callControlID string, end CallEnd) error

	// List retrieves calls with filters and pagination; the returned total
	// counts all rows matching the filter before pagination
	List(ctx context.Context, filters CallFilters) ([]*entities.Call, int64, error)

	// Recent retrieves the most recently started calls
	Recent(ctx context.Context, limit int) ([]*entities.Call, error)
}

// CallEnd carries the terminal attributes stamped at hangup
type CallEnd struct {
	EndedAt         time.Time
	DurationSeconds int
	HangupCause     string
}

// CallFilters represents filter options for listing calls
type CallFilters struct {
	Direction string
	Status    string
	FromDate  *time.Time
	ToDate    *time.Time
	Limit     int
	Offset    int
}
