package entities

import (
	"time"

	"gorm.io/datatypes"
)

// CallOutcome is the closed classification of a completed call's purpose
type CallOutcome string

const (
	OutcomeAppointment CallOutcome = "appointment"
	OutcomeTransfer    CallOutcome = "transfer"
	OutcomeInfo        CallOutcome = "info"
	OutcomeOther       CallOutcome = "other"
)

// Sentiment tags reported by the AI provider
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// Insight holds the AI-generated analysis of a call. At most one row exists
// per call; a later insights event replaces the earlier row.
type Insight struct {
	ID          uint           `json:"id" gorm:"primaryKey;autoIncrement"`
	CallID      string         `json:"call_id" gorm:"type:varchar(36);uniqueIndex;not null"`
	Summary     string         `json:"summary,omitempty" gorm:"type:text"`
	Sentiment   string         `json:"sentiment,omitempty" gorm:"type:varchar(20)"`
	ActionItems datatypes.JSON `json:"action_items,omitempty"`
	Topics      datatypes.JSON `json:"topics,omitempty"`
	Outcome     CallOutcome    `json:"outcome" gorm:"type:varchar(20);default:'other'"`
	RawPayload  datatypes.JSON `json:"raw_payload,omitempty"`
	CreatedAt   time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Insight) TableName() string {
	return "insights"
}
