package lifecycle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/revitawellness/voiceai-hub/internal/domain/entities"
	"github.com/revitawellness/voiceai-hub/internal/domain/repositories"
)

// Gateway is the slice of the voice provider's action API the controller
// needs: answering an inbound leg and attaching the AI assistant to an
// answered one. Failures are logged, never retried; the provider
// deduplicates actions by call control id.
type Gateway interface {
	Answer(ctx context.Context, callControlID string) error
	StartAssistant(ctx context.Context, callControlID string) error
}

// Service is the call lifecycle controller. It consumes inbound lifecycle
// events, validates them against the stored call record, applies idempotent
// transitions, and triggers gateway side effects.
type Service interface {
	HandleEvent(ctx context.Context, eventType string, payload json.RawMessage) error
}

type service struct {
	calls       repositories.CallRepository
	transcripts repositories.TranscriptRepository
	insights    repositories.InsightRepository
	gateway     Gateway
	classifier  OutcomeClassifier
	logger      *zap.Logger
	locks       *keyedMutex
	now         func() time.Time
}

// NewService constructs the lifecycle controller
func NewService(
	calls repositories.CallRepository,
	transcripts repositories.TranscriptRepository,
	insights repositories.InsightRepository,
	gateway Gateway,
	classifier OutcomeClassifier,
	logger *zap.Logger,
) Service {
	if classifier == nil {
		classifier = NewKeywordClassifier()
	}
	return &service{
		calls:       calls,
		transcripts: transcripts,
		insights:    insights,
		gateway:     gateway,
		classifier:  classifier,
		logger:      logger,
		locks:       newKeyedMutex(),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// HandleEvent applies one lifecycle event. Events for the same call control
// id are serialized; duplicates and events for unknown calls are logged and
// dropped without error, since the transport has already acknowledged
// receipt.
func (s *service) HandleEvent(ctx context.Context, eventType string, payload json.RawMessage) error {
	var p EventPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("malformed %s payload: %w", eventType, err)
	}
	if p.CallControlID == "" {
		s.logger.Warn("event without call control id, dropping",
			zap.String("event_type", eventType))
		return nil
	}

	unlock := s.locks.Lock(p.CallControlID)
	defer unlock()

	s.logger.Info("processing lifecycle event",
		zap.String("event_type", eventType),
		zap.String("call_control_id", p.CallControlID))

	switch eventType {
	case EventCallInitiated:
		return s.handleInitiated(ctx, &p)
	case EventCallAnswered:
		return s.handleAnswered(ctx, &p)
	case EventConversationEnded:
		return s.handleConversationEnded(ctx, &p)
	case EventInsightsGenerated:
		return s.handleInsightsGenerated(ctx, &p, payload)
	case EventCallHangup:
		return s.handleHangup(ctx, &p)
	default:
		s.logger.Info("unhandled event type, ignoring",
			zap.String("event_type", eventType),
			zap.String("call_control_id", p.CallControlID))
		return nil
	}
}

// handleInitiated creates the call row and answers inbound legs. A repeated
// call.initiated for a known call control id is a no-op.
func (s *service) handleInitiated(ctx context.Context, p *EventPayload) error {
	call := entities.NewCall(p.CallControlID, p.CallLegID, p.Direction, p.From, p.To)
	call.StartedAt = s.now()

	if err := s.calls.Create(ctx, call); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			s.logger.Info("call already recorded, ignoring duplicate call.initiated",
				zap.String("call_control_id", p.CallControlID))
			return nil
		}
		return fmt.Errorf("create call: %w", err)
	}

	if call.IsInbound() {
		if err := s.gateway.Answer(ctx, p.CallControlID); err != nil {
			// Left at initiated; the provider delivers no further events for
			// an unanswered leg until hangup.
			s.logger.Error("answer action failed",
				zap.String("call_control_id", p.CallControlID),
				zap.Error(err))
		}
	}
	return nil
}

// handleAnswered stamps answered_at and attaches the AI assistant. The call
// only advances to ai_active when the assistant start succeeds.
func (s *service) handleAnswered(ctx context.Context, p *EventPayload) error {
	if err := s.calls.MarkAnswered(ctx, p.CallControlID, s.now()); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			s.logger.Warn("call.answered for unknown call, ignoring",
				zap.String("call_control_id", p.CallControlID))
			return nil
		}
		return fmt.Errorf("mark answered: %w", err)
	}

	if err := s.gateway.StartAssistant(ctx, p.CallControlID); err != nil {
		s.logger.Error("AI assistant start failed, call stays answered",
			zap.String("call_control_id", p.CallControlID),
			zap.Error(err))
		return nil
	}

	if err := s.calls.UpdateStatus(ctx, p.CallControlID, entities.CallStatusAIActive); err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	return nil
}

// handleConversationEnded appends the delivered transcript. Accepted for any
// existing call regardless of status, since delivery order is not
// guaranteed.
func (s *service) handleConversationEnded(ctx context.Context, p *EventPayload) error {
	call, err := s.calls.FindByControlID(ctx, p.CallControlID)
	if err != nil {
		return fmt.Errorf("find call: %w", err)
	}
	if call == nil {
		s.logger.Warn("conversation.ended for unknown call, ignoring",
			zap.String("call_control_id", p.CallControlID))
		return nil
	}

	now := s.now()
	for _, msg := range p.Transcription {
		role := msg.Role
		if role == "" {
			role = "unknown"
		}
		turn := &entities.TranscriptTurn{
			CallID:   call.ID,
			Role:     role,
			Content:  msg.Body(),
			SpokenAt: msg.SpokenAt(now),
		}
		if err := s.transcripts.Append(ctx, turn); err != nil {
			return fmt.Errorf("append transcript turn: %w", err)
		}
	}

	s.logger.Info("transcript stored",
		zap.String("call_control_id", p.CallControlID),
		zap.Int("turns", len(p.Transcription)))
	return nil
}

// handleInsightsGenerated classifies the outcome and upserts the single
// insight row. The insights may arrive under payload.insights or as the
// payload itself; the raw payload is kept for audit.
func (s *service) handleInsightsGenerated(ctx context.Context, p *EventPayload, raw json.RawMessage) error {
	call, err := s.calls.FindByControlID(ctx, p.CallControlID)
	if err != nil {
		return fmt.Errorf("find call: %w", err)
	}
	if call == nil {
		s.logger.Warn("insights for unknown call, ignoring",
			zap.String("call_control_id", p.CallControlID))
		return nil
	}

	ins := p.Insights
	if ins == nil {
		var direct InsightPayload
		if err := json.Unmarshal(raw, &direct); err != nil {
			return fmt.Errorf("parse insights payload: %w", err)
		}
		ins = &direct
	}

	actionItems, err := json.Marshal(emptyIfNil(ins.ActionItems))
	if err != nil {
		return fmt.Errorf("encode action items: %w", err)
	}
	topics, err := json.Marshal(emptyIfNil(ins.Topics))
	if err != nil {
		return fmt.Errorf("encode topics: %w", err)
	}

	insight := &entities.Insight{
		CallID:      call.ID,
		Summary:     ins.Summary,
		Sentiment:   string(ins.Sentiment),
		ActionItems: datatypes.JSON(actionItems),
		Topics:      datatypes.JSON(topics),
		Outcome:     s.classifier.Classify(ins.Summary, ins.ActionItems),
		RawPayload:  datatypes.JSON(raw),
	}
	if err := s.insights.Upsert(ctx, insight); err != nil {
		return fmt.Errorf("upsert insight: %w", err)
	}

	s.logger.Info("insights stored",
		zap.String("call_control_id", p.CallControlID),
		zap.String("sentiment", insight.Sentiment),
		zap.String("outcome", string(insight.Outcome)))
	return nil
}

// handleHangup stamps the terminal fields. Duration is always recomputed
// from answered_at, never read from the payload; a call that was never
// answered ends with duration 0.
func (s *service) handleHangup(ctx context.Context, p *EventPayload) error {
	call, err := s.calls.FindByControlID(ctx, p.CallControlID)
	if err != nil {
		return fmt.Errorf("find call: %w", err)
	}
	if call == nil {
		s.logger.Warn("call.hangup for unknown call, ignoring",
			zap.String("call_control_id", p.CallControlID))
		return nil
	}

	now := s.now()
	duration := 0
	if call.AnsweredAt != nil {
		if d := int(math.Round(now.Sub(*call.AnsweredAt).Seconds())); d > 0 {
			duration = d
		}
	}

	cause := p.HangupCause
	if cause == "" {
		cause = "normal"
	}

	end := repositories.CallEnd{
		EndedAt:         now,
		DurationSeconds: duration,
		HangupCause:     cause,
	}
	if err := s.calls.MarkEnded(ctx, p.CallControlID, end); err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("mark ended: %w", err)
	}

	s.logger.Info("call ended",
		zap.String("call_control_id", p.CallControlID),
		zap.Int("duration_seconds", duration),
		zap.String("hangup_cause", cause))
	return nil
}

func emptyIfNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
