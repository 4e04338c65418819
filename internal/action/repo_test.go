package action

import (
	"context"
	"errors"
	"testing"

	"agentpulse/internal/model"
)

func TestBulkCreate_DuplicateDayRejected(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()

	first := []model.DailyAction{
		{UserID: "u1", ActionDate: "2025-01-15", Title: "a", Generated: true},
	}
	if _, err := repo.BulkCreate(ctx, first); err != nil {
		t.Fatalf("first batch: %v", err)
	}

	second := []model.DailyAction{
		{UserID: "u1", ActionDate: "2025-01-15", Title: "b", Generated: true},
	}
	if _, err := repo.BulkCreate(ctx, second); !errors.Is(err, ErrDuplicateDay) {
		t.Fatalf("second batch: err = %v, want ErrDuplicateDay", err)
	}

	// Other users and other days are unaffected.
	others := []model.DailyAction{
		{UserID: "u2", ActionDate: "2025-01-15", Title: "c", Generated: true},
		{UserID: "u2", ActionDate: "2025-01-15", Title: "d", Generated: true},
	}
	if _, err := repo.BulkCreate(ctx, others); err != nil {
		t.Fatalf("other user: %v", err)
	}
	nextDay := []model.DailyAction{
		{UserID: "u1", ActionDate: "2025-01-16", Title: "e", Generated: true},
	}
	if _, err := repo.BulkCreate(ctx, nextDay); err != nil {
		t.Fatalf("next day: %v", err)
	}
}

func TestBulkCreate_ManualActionsBypassGuard(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()

	generated := []model.DailyAction{
		{UserID: "u1", ActionDate: "2025-01-15", Title: "a", Generated: true},
	}
	if _, err := repo.BulkCreate(ctx, generated); err != nil {
		t.Fatalf("generated batch: %v", err)
	}

	// A user-entered action on the same day is fine.
	manual := []model.DailyAction{
		{UserID: "u1", ActionDate: "2025-01-15", Title: "pick up signs", Generated: false},
	}
	if _, err := repo.BulkCreate(ctx, manual); err != nil {
		t.Fatalf("manual batch: %v", err)
	}

	gen, err := repo.ListGenerated(ctx, "u1", "2025-01-15")
	if err != nil {
		t.Fatalf("list generated: %v", err)
	}
	if len(gen) != 1 {
		t.Fatalf("expected 1 generated action, got %d", len(gen))
	}
	all, err := repo.ListForDay(ctx, "u1", "2025-01-15")
	if err != nil {
		t.Fatalf("list for day: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 actions for the day, got %d", len(all))
	}
}

func TestUpdateStatus_UnknownID(t *testing.T) {
	repo := NewMemoryRepo()
	if _, err := repo.UpdateStatus(context.Background(), "nope", model.StatusCompleted); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
