package repository

import (
	"context"
	"testing"
	"time"

	"gorm.io/datatypes"

	"github.com/revitawellness/voiceai-hub/internal/domain/entities"
)

func seedInsight(t *testing.T, insights *InsightRepository, callID, sentiment string, outcome entities.CallOutcome) {
	t.Helper()
	err := insights.Upsert(context.Background(), &entities.Insight{
		CallID:      callID,
		Summary:     "resumen",
		Sentiment:   sentiment,
		ActionItems: datatypes.JSON([]byte(`[]`)),
		Topics:      datatypes.JSON([]byte(`[]`)),
		Outcome:     outcome,
		RawPayload:  datatypes.JSON([]byte(`{}`)),
	})
	if err != nil {
		t.Fatalf("seed insight for %s: %v", callID, err)
	}
}

func TestStatsRepositoryDaily(t *testing.T) {
	db := newTestDB(t)
	calls := NewCallRepository(db)
	stats := NewStatsRepository(db)

	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	seedCall(t, calls, "cc-s1", "inbound", entities.CallStatusEnded, day.Add(9*time.Hour), 30)
	seedCall(t, calls, "cc-s2", "inbound", entities.CallStatusEnded, day.Add(10*time.Hour), 60)
	// Never answered: stays initiated with zero duration, counted as missed.
	seedCall(t, calls, "cc-s3", "inbound", entities.CallStatusInitiated, day.Add(11*time.Hour), 0)
	seedCall(t, calls, "cc-s4", "outbound", entities.CallStatusEnded, day.Add(12*time.Hour), 90)
	// Outside the window.
	seedCall(t, calls, "cc-s5", "inbound", entities.CallStatusEnded, day.AddDate(0, 0, 1).Add(9*time.Hour), 120)

	got, err := stats.Daily(context.Background(), day, day.Add(24*time.Hour-time.Nanosecond))
	if err != nil {
		t.Fatalf("Daily: %v", err)
	}

	if got.TotalCalls != 4 {
		t.Errorf("total = %d, want 4", got.TotalCalls)
	}
	if got.Completed != 3 {
		t.Errorf("completed = %d, want 3", got.Completed)
	}
	if got.Missed != 1 {
		t.Errorf("missed = %d, want 1", got.Missed)
	}
	if got.Inbound != 3 || got.Outbound != 1 {
		t.Errorf("inbound/outbound = %d/%d, want 3/1", got.Inbound, got.Outbound)
	}
	if got.TotalDuration != 180 {
		t.Errorf("total_duration = %d, want 180", got.TotalDuration)
	}
	// Zero-duration calls are excluded from the average: (30+60+90)/3.
	if got.AvgDuration != 60 {
		t.Errorf("avg_duration = %v, want 60", got.AvgDuration)
	}
}

func TestStatsRepositoryDailyEmptyWindow(t *testing.T) {
	stats := NewStatsRepository(newTestDB(t))

	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	got, err := stats.Daily(context.Background(), from, from.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("Daily: %v", err)
	}
	if got.TotalCalls != 0 || got.AvgDuration != 0 || got.TotalDuration != 0 {
		t.Errorf("empty window stats = %+v, want zeroes", got)
	}
}

func TestStatsRepositorySentimentAndOutcomes(t *testing.T) {
	db := newTestDB(t)
	calls := NewCallRepository(db)
	insights := NewInsightRepository(db)
	stats := NewStatsRepository(db)

	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	a := seedCall(t, calls, "cc-s6", "inbound", entities.CallStatusEnded, day.Add(9*time.Hour), 30)
	b := seedCall(t, calls, "cc-s7", "inbound", entities.CallStatusEnded, day.Add(10*time.Hour), 40)
	c := seedCall(t, calls, "cc-s8", "inbound", entities.CallStatusEnded, day.Add(11*time.Hour), 50)
	outside := seedCall(t, calls, "cc-s9", "inbound", entities.CallStatusEnded, day.AddDate(0, 0, 2), 60)

	seedInsight(t, insights, a.ID, entities.SentimentPositive, entities.OutcomeAppointment)
	seedInsight(t, insights, b.ID, entities.SentimentPositive, entities.OutcomeAppointment)
	seedInsight(t, insights, c.ID, entities.SentimentNegative, entities.OutcomeTransfer)
	seedInsight(t, insights, outside.ID, entities.SentimentNeutral, entities.OutcomeOther)

	to := day.Add(24*time.Hour - time.Nanosecond)

	sentiment, err := stats.Sentiment(context.Background(), day, to)
	if err != nil {
		t.Fatalf("Sentiment: %v", err)
	}
	if sentiment.Positive != 2 || sentiment.Neutral != 0 || sentiment.Negative != 1 {
		t.Errorf("sentiment = %+v, want 2/0/1", sentiment)
	}

	outcomes, err := stats.Outcomes(context.Background(), day, to)
	if err != nil {
		t.Fatalf("Outcomes: %v", err)
	}
	counts := make(map[entities.CallOutcome]int64, len(outcomes))
	for _, oc := range outcomes {
		counts[oc.Outcome] = oc.Count
	}
	if counts[entities.OutcomeAppointment] != 2 || counts[entities.OutcomeTransfer] != 1 {
		t.Errorf("outcome counts = %v, want appointment:2 transfer:1", counts)
	}
	if _, ok := counts[entities.OutcomeOther]; ok {
		t.Errorf("outcome outside window leaked into histogram: %v", counts)
	}
}

func TestStatsRepositoryOutcomesEmpty(t *testing.T) {
	stats := NewStatsRepository(newTestDB(t))

	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	outcomes, err := stats.Outcomes(context.Background(), from, from.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("Outcomes: %v", err)
	}
	if outcomes == nil {
		t.Fatal("outcomes = nil, want empty slice")
	}
	if len(outcomes) != 0 {
		t.Errorf("outcomes = %v, want empty", outcomes)
	}
}
