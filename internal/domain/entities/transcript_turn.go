package entities

import "time"

// TranscriptTurn is a single utterance in a call's AI conversation.
// Turns are append-only and retrieved ordered by SpokenAt ascending.
type TranscriptTurn struct {
	ID       uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	CallID   string    `json:"call_id" gorm:"type:varchar(36);index;not null"`
	Role     string    `json:"role" gorm:"type:varchar(32)"`
	Content  string    `json:"content" gorm:"type:text"`
	SpokenAt time.Time `json:"timestamp"`
}

// TableName specifies the table name for GORM
func (TranscriptTurn) TableName() string {
	return "transcript_turns"
}
