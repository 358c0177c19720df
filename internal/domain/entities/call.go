package entities

import (
	"time"

	"github.com/google/uuid"
)

// CallStatus represents where a call is in its lifecycle
type CallStatus string

const (
	CallStatusInitiated CallStatus = "initiated"
	CallStatusAnswered  CallStatus = "answered"
	CallStatusAIActive  CallStatus = "ai_active"
	CallStatusEnded     CallStatus = "ended"
)

// Call directions. The provider reports inbound legs as "incoming" on some
// event types; NormalizeDirection folds both spellings into one value.
const (
	DirectionInbound  = "inbound"
	DirectionOutbound = "outbound"
)

// Call represents one telephone call attempt. The row is created on the
// first lifecycle event for a call control id and mutated in place by every
// later event carrying the same id; it is never deleted.
type Call struct {
	ID              string     `json:"id" gorm:"type:varchar(36);primaryKey"`
	CallControlID   string     `json:"call_control_id" gorm:"type:varchar(255);uniqueIndex;not null"`
	CallLegID       string     `json:"call_leg_id,omitempty" gorm:"type:varchar(255)"`
	Direction       string     `json:"direction" gorm:"type:varchar(20);default:'inbound';index"`
	FromNumber      string     `json:"from_number,omitempty" gorm:"type:varchar(32)"`
	ToNumber        string     `json:"to_number,omitempty" gorm:"type:varchar(32)"`
	Status          CallStatus `json:"status" gorm:"type:varchar(20);default:'initiated';index"`
	StartedAt       time.Time  `json:"started_at" gorm:"index"`
	AnsweredAt      *time.Time `json:"answered_at,omitempty"`
	EndedAt         *time.Time `json:"ended_at,omitempty"`
	DurationSeconds int        `json:"duration_seconds" gorm:"default:0"`
	HangupCause     string     `json:"hangup_cause,omitempty" gorm:"type:varchar(50)"`
	CreatedAt       time.Time  `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (Call) TableName() string {
	return "calls"
}

// NewCall creates a new call record at the initiated state
func NewCall(callControlID, callLegID, direction, from, to string) *Call {
	return &Call{
		ID:            uuid.NewString(),
		CallControlID: callControlID,
		CallLegID:     callLegID,
		Direction:     NormalizeDirection(direction),
		FromNumber:    from,
		ToNumber:      to,
		Status:        CallStatusInitiated,
		StartedAt:     time.Now().UTC(),
	}
}

// NormalizeDirection maps provider direction spellings onto the stored ones
func NormalizeDirection(direction string) string {
	switch direction {
	case "incoming", DirectionInbound, "":
		return DirectionInbound
	case "outgoing", DirectionOutbound:
		return DirectionOutbound
	default:
		return direction
	}
}

// IsInbound reports whether the call arrived from outside
func (c *Call) IsInbound() bool {
	return c.Direction == DirectionInbound
}

// Ended reports whether the call reached its terminal state
func (c *Call) Ended() bool {
	return c.Status == CallStatusEnded
}
