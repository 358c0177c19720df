package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/revitawellness/voiceai-hub/internal/domain/entities"
	"github.com/revitawellness/voiceai-hub/internal/domain/repositories"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open in-memory database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap database handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(&entities.Call{}, &entities.TranscriptTurn{}, &entities.Insight{}); err != nil {
		t.Fatalf("migrate schema: %v", err)
	}
	return db
}

func seedCall(t *testing.T, repo *CallRepository, callControlID, direction string, status entities.CallStatus, startedAt time.Time, duration int) *entities.Call {
	t.Helper()

	call := entities.NewCall(callControlID, "leg-"+callControlID, direction, "+15551230001", "+15559990000")
	call.Status = status
	call.StartedAt = startedAt
	call.DurationSeconds = duration
	if err := repo.Create(context.Background(), call); err != nil {
		t.Fatalf("seed call %s: %v", callControlID, err)
	}
	return call
}

func TestCallRepositoryCreateDuplicate(t *testing.T) {
	repo := NewCallRepository(newTestDB(t))
	started := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	seedCall(t, repo, "cc-1", "inbound", entities.CallStatusInitiated, started, 0)

	dup := entities.NewCall("cc-1", "leg-2", "inbound", "+15551230002", "+15559990000")
	err := repo.Create(context.Background(), dup)
	if !errors.Is(err, repositories.ErrDuplicateKey) {
		t.Fatalf("Create duplicate = %v, want ErrDuplicateKey", err)
	}
}

func TestCallRepositoryFindByControlID(t *testing.T) {
	repo := NewCallRepository(newTestDB(t))
	started := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	seeded := seedCall(t, repo, "cc-2", "inbound", entities.CallStatusInitiated, started, 0)

	found, err := repo.FindByControlID(context.Background(), "cc-2")
	if err != nil {
		t.Fatalf("FindByControlID: %v", err)
	}
	if found == nil || found.ID != seeded.ID {
		t.Fatalf("found = %+v, want id %s", found, seeded.ID)
	}

	missing, err := repo.FindByControlID(context.Background(), "cc-missing")
	if err != nil {
		t.Fatalf("FindByControlID missing: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for unknown call control id, got %+v", missing)
	}
}

func TestCallRepositoryUpdatesUnknownCall(t *testing.T) {
	repo := NewCallRepository(newTestDB(t))

	err := repo.MarkAnswered(context.Background(), "cc-ghost", time.Now().UTC())
	if !errors.Is(err, repositories.ErrNotFound) {
		t.Fatalf("MarkAnswered unknown = %v, want ErrNotFound", err)
	}

	err = repo.UpdateStatus(context.Background(), "cc-ghost", entities.CallStatusAIActive)
	if !errors.Is(err, repositories.ErrNotFound) {
		t.Fatalf("UpdateStatus unknown = %v, want ErrNotFound", err)
	}
}

func TestCallRepositoryMarkEnded(t *testing.T) {
	repo := NewCallRepository(newTestDB(t))
	started := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	seedCall(t, repo, "cc-3", "inbound", entities.CallStatusAIActive, started, 0)

	endedAt := started.Add(90 * time.Second)
	end := repositories.CallEnd{EndedAt: endedAt, DurationSeconds: 88, HangupCause: "normal_clearing"}
	if err := repo.MarkEnded(context.Background(), "cc-3", end); err != nil {
		t.Fatalf("MarkEnded: %v", err)
	}

	call, err := repo.FindByControlID(context.Background(), "cc-3")
	if err != nil {
		t.Fatalf("FindByControlID: %v", err)
	}
	if call.Status != entities.CallStatusEnded {
		t.Errorf("status = %q, want %q", call.Status, entities.CallStatusEnded)
	}
	if call.DurationSeconds != 88 {
		t.Errorf("duration_seconds = %d, want 88", call.DurationSeconds)
	}
	if call.EndedAt == nil || !call.EndedAt.Equal(endedAt) {
		t.Errorf("ended_at = %v, want %v", call.EndedAt, endedAt)
	}
}

func TestCallRepositoryListFiltersAndPagination(t *testing.T) {
	repo := NewCallRepository(newTestDB(t))
	base := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

	seedCall(t, repo, "cc-a", "inbound", entities.CallStatusEnded, base, 30)
	seedCall(t, repo, "cc-b", "inbound", entities.CallStatusEnded, base.Add(1*time.Hour), 45)
	seedCall(t, repo, "cc-c", "outbound", entities.CallStatusEnded, base.Add(2*time.Hour), 60)
	seedCall(t, repo, "cc-d", "inbound", entities.CallStatusInitiated, base.Add(3*time.Hour), 0)

	rows, total, err := repo.List(context.Background(), repositories.CallFilters{
		Direction: "inbound",
		Status:    string(entities.CallStatusEnded),
		Limit:     1,
	})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 2 {
		t.Errorf("total = %d, want 2 (full filtered count, not page size)", total)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if rows[0].CallControlID != "cc-b" {
		t.Errorf("first row = %s, want cc-b (newest first)", rows[0].CallControlID)
	}

	from := base.Add(90 * time.Minute)
	rows, total, err = repo.List(context.Background(), repositories.CallFilters{FromDate: &from})
	if err != nil {
		t.Fatalf("List with from date: %v", err)
	}
	if total != 2 || len(rows) != 2 {
		t.Errorf("date-filtered total = %d rows = %d, want 2 and 2", total, len(rows))
	}
}

func TestCallRepositoryRecent(t *testing.T) {
	repo := NewCallRepository(newTestDB(t))
	base := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

	for i, id := range []string{"cc-old", "cc-mid", "cc-new"} {
		seedCall(t, repo, id, "inbound", entities.CallStatusEnded, base.Add(time.Duration(i)*time.Hour), 10)
	}

	calls, err := repo.Recent(context.Background(), 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(calls) != 2 {
		t.Fatalf("rows = %d, want 2", len(calls))
	}
	if calls[0].CallControlID != "cc-new" || calls[1].CallControlID != "cc-mid" {
		t.Errorf("order = [%s %s], want [cc-new cc-mid]", calls[0].CallControlID, calls[1].CallControlID)
	}
}
