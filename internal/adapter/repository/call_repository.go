package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/revitawellness/voiceai-hub/internal/domain/entities"
	"github.com/revitawellness/voiceai-hub/internal/domain/repositories"
)

// CallRepository handles call record data operations
type CallRepository struct {
	db *gorm.DB
}

// NewCallRepository creates a new call repository
func NewCallRepository(db *gorm.DB) *CallRepository {
	return &CallRepository{db: db}
}

// Create inserts a new call row. A second insert for the same call control
// id fails with repositories.ErrDuplicateKey, which event processing treats
// as "already handled".
func (r *CallRepository) Create(ctx context.Context, call *entities.Call) error {
	if call == nil {
		return errors.New("call cannot be nil")
	}
	if err := r.db.WithContext(ctx).Create(call).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return repositories.ErrDuplicateKey
		}
		return err
	}
	return nil
}

// FindByControlID retrieves a call by its provider call control id
func (r *CallRepository) FindByControlID(ctx context.Context, callControlID string) (*entities.Call, error) {
	var call entities.Call
	if err := r.db.WithContext(ctx).Where("call_control_id = ?", callControlID).First(&call).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &call, nil
}

// UpdateStatus updates only the call status
func (r *CallRepository) UpdateStatus(ctx context.Context, callControlID string, status entities.CallStatus) error {
	return r.applyUpdate(ctx, callControlID, map[string]interface{}{
		"status": status,
	})
}

// MarkAnswered stamps answered_at and moves the call to answered
func (r *CallRepository) MarkAnswered(ctx context.Context, callControlID string, answeredAt time.Time) error {
	return r.applyUpdate(ctx, callControlID, map[string]interface{}{
		"status":      entities.CallStatusAnswered,
		"answered_at": answeredAt,
	})
}

// MarkEnded stamps the terminal fields and moves the call to ended
func (r *CallRepository) MarkEnded(ctx context.Context, callControlID string, end repositories.CallEnd) error {
	return r.applyUpdate(ctx, callControlID, map[string]interface{}{
		"status":           entities.CallStatusEnded,
		"ended_at":         end.EndedAt,
		"duration_seconds": end.DurationSeconds,
		"hangup_cause":     end.HangupCause,
	})
}

// applyUpdate runs a partial update keyed by call control id. An absent id
// surfaces as repositories.ErrNotFound so the caller decides whether to
// ignore.
func (r *CallRepository) applyUpdate(ctx context.Context, callControlID string, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).
		Model(&entities.Call{}).
		Where("call_control_id = ?", callControlID).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// List retrieves calls with filters and pagination. The returned total
// counts every row matching the filter, not just the returned page.
func (r *CallRepository) List(ctx context.Context, filters repositories.CallFilters) ([]*entities.Call, int64, error) {
	query := r.db.WithContext(ctx).Model(&entities.Call{})

	if filters.Direction != "" {
		query = query.Where("direction = ?", filters.Direction)
	}
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.FromDate != nil {
		query = query.Where("started_at >= ?", *filters.FromDate)
	}
	if filters.ToDate != nil {
		query = query.Where("started_at <= ?", *filters.ToDate)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = 50
	}

	calls := make([]*entities.Call, 0, limit)
	err := query.
		Order("started_at DESC").
		Limit(limit).
		Offset(filters.Offset).
		Find(&calls).Error
	if err != nil {
		return nil, 0, err
	}

	return calls, total, nil
}

// Recent retrieves the most recently started calls
func (r *CallRepository) Recent(ctx context.Context, limit int) ([]*entities.Call, error) {
	if limit <= 0 {
		limit = 20
	}

	calls := make([]*entities.Call, 0, limit)
	err := r.db.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&calls).Error
	if err != nil {
		return nil, err
	}
	return calls, nil
}
