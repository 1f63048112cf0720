package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/dayplanhq/dayplan/internal/models"
)

func TestMemoryStore_IdentityLifecycle(t *testing.T) {
	t.Parallel()

	s := NewMemory()
	ctx := context.Background()

	id, err := s.RegisterIdentity(ctx, "ana@example.com", "hunter2!", "Ana")
	if err != nil {
		t.Fatalf("RegisterIdentity failed: %v", err)
	}

	if _, err := s.RegisterIdentity(ctx, "ana@example.com", "other", "Ana"); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("duplicate registration error = %v, want ErrEmailTaken", err)
	}

	got, err := s.Authenticate(ctx, "ana@example.com", "hunter2!")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if got != id {
		t.Errorf("Authenticate returned %s, want %s", got, id)
	}

	if _, err := s.Authenticate(ctx, "ana@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("bad password error = %v, want ErrInvalidCredentials", err)
	}
	if _, err := s.Authenticate(ctx, "nobody@example.com", "x"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email error = %v, want ErrInvalidCredentials", err)
	}

	if err := s.EndSession(ctx, id); err != nil {
		t.Errorf("EndSession failed: %v", err)
	}
}

func TestMemoryStore_ProfileRoundTrip(t *testing.T) {
	t.Parallel()

	s := NewMemory()
	ctx := context.Background()
	userID := uuid.New()

	// Never saved is (nil, nil), not an error.
	p, err := s.LoadProfile(ctx, userID)
	if err != nil {
		t.Fatalf("LoadProfile of missing profile failed: %v", err)
	}
	if p != nil {
		t.Fatal("expected nil profile before first save")
	}

	in := models.Profile{
		ID:         userID,
		Name:       "Ana",
		Email:      "ana@example.com",
		XP:         250,
		Level:      3,
		Theme:      models.ThemeLight,
		Categories: []string{"work", "health"},
		Energy:     map[string]models.EnergyLevel{"2024-01-01": models.EnergyHigh},
	}
	if err := s.SaveProfile(ctx, in); err != nil {
		t.Fatalf("SaveProfile failed: %v", err)
	}

	out, err := s.LoadProfile(ctx, userID)
	if err != nil {
		t.Fatalf("LoadProfile failed: %v", err)
	}
	if out.Name != in.Name || out.XP != in.XP || out.Level != in.Level || out.Theme != in.Theme {
		t.Errorf("profile round-trip mismatch: got %+v want %+v", out, in)
	}
	if out.Energy["2024-01-01"] != models.EnergyHigh {
		t.Error("energy map did not survive the round-trip")
	}
}

func TestMemoryStore_CollectionRoundTrip(t *testing.T) {
	t.Parallel()

	s := NewMemory()
	ctx := context.Background()
	userID := uuid.New()

	hour := 9
	remind := time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC)
	tasks := []models.Task{
		{ID: uuid.New(), Title: "write report", Priority: models.PriorityHigh, DueDate: remind, ScheduledHour: &hour, ReminderAt: &remind},
		{ID: uuid.New(), Title: "buy milk", Priority: models.PriorityLow, Completed: true},
	}
	if err := s.SaveCollection(ctx, userID, models.CollectionTasks, tasks); err != nil {
		t.Fatalf("SaveCollection failed: %v", err)
	}

	var got []models.Task
	if err := s.LoadCollection(ctx, userID, models.CollectionTasks, &got); err != nil {
		t.Fatalf("LoadCollection failed: %v", err)
	}
	if len(got) != len(tasks) {
		t.Fatalf("got %d tasks, want %d", len(got), len(tasks))
	}
	for i := range tasks {
		if got[i].ID != tasks[i].ID || got[i].Title != tasks[i].Title || got[i].Completed != tasks[i].Completed {
			t.Errorf("task %d mismatch: got %+v want %+v", i, got[i], tasks[i])
		}
	}
	if got[0].ScheduledHour == nil || *got[0].ScheduledHour != hour {
		t.Error("scheduled hour lost in round-trip")
	}
	if got[0].ReminderAt == nil || !got[0].ReminderAt.Equal(remind) {
		t.Error("reminder time lost in round-trip")
	}

	// A save is a full replace: shrinking the collection shrinks the
	// stored value.
	if err := s.SaveCollection(ctx, userID, models.CollectionTasks, tasks[:1]); err != nil {
		t.Fatalf("SaveCollection (replace) failed: %v", err)
	}
	got = nil
	if err := s.LoadCollection(ctx, userID, models.CollectionTasks, &got); err != nil {
		t.Fatalf("LoadCollection after replace failed: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("full replace left %d tasks, want 1", len(got))
	}
}

func TestMemoryStore_NeverSavedLeavesDefault(t *testing.T) {
	t.Parallel()

	s := NewMemory()
	ctx := context.Background()

	habits := []models.Habit{}
	if err := s.LoadCollection(ctx, uuid.New(), models.CollectionHabits, &habits); err != nil {
		t.Fatalf("LoadCollection of missing collection failed: %v", err)
	}
	if len(habits) != 0 {
		t.Errorf("expected empty default, got %d items", len(habits))
	}
}

func TestMemoryStore_TransactionFieldsSurvive(t *testing.T) {
	t.Parallel()

	s := NewMemory()
	ctx := context.Background()
	userID := uuid.New()

	txs := []models.Transaction{
		{
			ID:          uuid.New(),
			Description: "laptop",
			Amount:      1200.50,
			Type:        models.TransactionExpense,
			Category:    models.CategoryOther,
			Date:        time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC),
			Installment: &models.Installment{Current: 2, Total: 12},
		},
	}
	if err := s.SaveCollection(ctx, userID, models.CollectionTransactions, txs); err != nil {
		t.Fatalf("SaveCollection failed: %v", err)
	}

	var got []models.Transaction
	if err := s.LoadCollection(ctx, userID, models.CollectionTransactions, &got); err != nil {
		t.Fatalf("LoadCollection failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d transactions, want 1", len(got))
	}
	if got[0].Amount != 1200.50 || got[0].Type != models.TransactionExpense {
		t.Errorf("transaction mismatch: %+v", got[0])
	}
	if got[0].Installment == nil || got[0].Installment.Current != 2 || got[0].Installment.Total != 12 {
		t.Errorf("installment pair mismatch: %+v", got[0].Installment)
	}
}
