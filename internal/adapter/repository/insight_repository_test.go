package repository

import (
	"context"
	"testing"
	"time"

	"gorm.io/datatypes"

	"github.com/revitawellness/voiceai-hub/internal/domain/entities"
)

func TestInsightRepositoryUpsertReplaces(t *testing.T) {
	db := newTestDB(t)
	calls := NewCallRepository(db)
	insights := NewInsightRepository(db)

	started := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	call := seedCall(t, calls, "cc-i1", "inbound", entities.CallStatusEnded, started, 40)

	first := &entities.Insight{
		CallID:      call.ID,
		Summary:     "Pidió información de precios.",
		Sentiment:   entities.SentimentNeutral,
		ActionItems: datatypes.JSON([]byte(`[]`)),
		Topics:      datatypes.JSON([]byte(`["precios"]`)),
		Outcome:     entities.OutcomeInfo,
		RawPayload:  datatypes.JSON([]byte(`{}`)),
	}
	if err := insights.Upsert(context.Background(), first); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	second := &entities.Insight{
		CallID:      call.ID,
		Summary:     "Agendó una cita para el viernes.",
		Sentiment:   entities.SentimentPositive,
		ActionItems: datatypes.JSON([]byte(`["Confirmar cita"]`)),
		Topics:      datatypes.JSON([]byte(`["citas"]`)),
		Outcome:     entities.OutcomeAppointment,
		RawPayload:  datatypes.JSON([]byte(`{}`)),
	}
	if err := insights.Upsert(context.Background(), second); err != nil {
		t.Fatalf("Upsert redelivery: %v", err)
	}

	var count int64
	if err := db.Model(&entities.Insight{}).Where("call_id = ?", call.ID).Count(&count).Error; err != nil {
		t.Fatalf("count insights: %v", err)
	}
	if count != 1 {
		t.Fatalf("insight rows = %d, want 1", count)
	}

	stored, err := insights.FindByCall(context.Background(), call.ID)
	if err != nil {
		t.Fatalf("FindByCall: %v", err)
	}
	if stored.Summary != second.Summary {
		t.Errorf("summary = %q, want replaced value", stored.Summary)
	}
	if stored.Outcome != entities.OutcomeAppointment {
		t.Errorf("outcome = %q, want %q", stored.Outcome, entities.OutcomeAppointment)
	}
}

func TestInsightRepositoryFindByCallMissing(t *testing.T) {
	insights := NewInsightRepository(newTestDB(t))

	stored, err := insights.FindByCall(context.Background(), "no-such-call")
	if err != nil {
		t.Fatalf("FindByCall: %v", err)
	}
	if stored != nil {
		t.Errorf("expected nil for call without insight, got %+v", stored)
	}
}
