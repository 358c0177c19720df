package lifecycle

import (
	"encoding/json"
	"time"
)

// Lifecycle event types delivered by the voice platform
const (
	EventCallInitiated     = "call.initiated"
	EventCallAnswered      = "call.answered"
	EventConversationEnded = "call.conversation.ended"
	EventInsightsGenerated = "call.conversation_insights.generated"
	EventCallHangup        = "call.hangup"
)

// EventPayload is the union of fields the recognized lifecycle events carry.
// Delivery is at-least-once and unordered, so any field may be absent.
type EventPayload struct {
	CallControlID string              `json:"call_control_id"`
	CallLegID     string              `json:"call_leg_id,omitempty"`
	Direction     string              `json:"direction,omitempty"`
	From          string              `json:"from,omitempty"`
	To            string              `json:"to,omitempty"`
	HangupCause   string              `json:"hangup_cause,omitempty"`
	Transcription []TranscriptMessage `json:"transcription,omitempty"`
	Insights      *InsightPayload     `json:"insights,omitempty"`
}

// TranscriptMessage is one utterance inside a conversation.ended payload.
// Some provider versions send the utterance under "content", others under
// "text".
type TranscriptMessage struct {
	Role      string `json:"role,omitempty"`
	Content   string `json:"content,omitempty"`
	Text      string `json:"text,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// Body returns the utterance text regardless of which field carried it
func (m TranscriptMessage) Body() string {
	if m.Content != "" {
		return m.Content
	}
	return m.Text
}

// SpokenAt parses the utterance timestamp, falling back to the given default
func (m TranscriptMessage) SpokenAt(fallback time.Time) time.Time {
	if m.Timestamp == "" {
		return fallback
	}
	ts, err := time.Parse(time.RFC3339, m.Timestamp)
	if err != nil {
		return fallback
	}
	return ts
}

// InsightPayload is the AI-generated analysis attached to an insights event
type InsightPayload struct {
	Summary     string         `json:"summary,omitempty"`
	Sentiment   SentimentValue `json:"sentiment,omitempty"`
	ActionItems []string       `json:"action_items,omitempty"`
	Topics      []string       `json:"topics,omitempty"`
}

// SentimentValue accepts the sentiment either as a bare string or as an
// object with an "overall" field, both of which appear in provider payloads.
type SentimentValue string

// UnmarshalJSON implements json.Unmarshaler
func (s *SentimentValue) UnmarshalJSON(data []byte) error {
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		*s = SentimentValue(plain)
		return nil
	}

	var wrapped struct {
		Overall string `json:"overall"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return err
	}
	*s = SentimentValue(wrapped.Overall)
	return nil
}
