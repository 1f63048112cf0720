package session

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/dayplanhq/dayplan/internal/models"
	"github.com/dayplanhq/dayplan/internal/planner"
)

func TestSession_MutateFiresChangeHook(t *testing.T) {
	t.Parallel()

	sess := New(uuid.New())
	fired := 0
	sess.OnChange(func() { fired++ })

	sess.Mutate(func(s *State) {
		s.Collections.Notes = planner.UpsertNote(s.Collections.Notes, models.Note{ID: uuid.New(), Title: "n"}, time.Now())
	})
	sess.Mutate(func(s *State) {})

	if fired != 2 {
		t.Errorf("change hook fired %d times, want 2 (once per mutation)", fired)
	}
}

func TestSession_SnapshotIsolation(t *testing.T) {
	t.Parallel()

	sess := New(uuid.New())
	id := uuid.New()
	sess.ApplyLoaded(&models.Profile{ID: sess.UserID(), Level: 1}, models.Collections{
		Tasks: []models.Task{{ID: id, Title: "original"}},
	})

	_, snap := sess.Snapshot()
	snap.Tasks[0].Title = "tampered"

	_, fresh := sess.Snapshot()
	if fresh.Tasks[0].Title != "original" {
		t.Error("snapshot mutation leaked into session state")
	}
}

func TestSession_ApplyLoadedRetainsOptimisticProfile(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	sess := New(userID)
	sess.SetOptimisticProfile(&models.Profile{ID: userID, Name: "Cached"})

	// Remote profile read failed or found nothing: nil comes back.
	sess.ApplyLoaded(nil, models.Collections{})

	if got := sess.Profile(); got == nil || got.Name != "Cached" {
		t.Errorf("optimistic profile was cleared: %+v", got)
	}
	if !sess.Ready() {
		t.Error("session must be ready after ApplyLoaded")
	}
}

func TestSession_MutateComposesTaskToggleWithXP(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	taskID := uuid.New()
	sess := New(userID)
	sess.ApplyLoaded(&models.Profile{ID: userID, XP: 90, Level: 1}, models.Collections{
		Tasks: []models.Task{{ID: taskID, Title: "t"}},
	})

	// One mutation, one change event: toggle plus XP award together.
	events := 0
	sess.OnChange(func() { events++ })
	sess.Mutate(func(s *State) {
		tasks, award := planner.ToggleTask(s.Collections.Tasks, taskID)
		s.Collections.Tasks = tasks
		if award > 0 && s.Profile != nil {
			p := planner.AddXP(*s.Profile, award)
			s.Profile = &p
		}
	})

	if events != 1 {
		t.Errorf("compound mutation fired %d change events, want 1", events)
	}
	profile, cols := sess.Snapshot()
	if !cols.Tasks[0].Completed {
		t.Error("task not completed")
	}
	if profile.XP != 110 || profile.Level != 2 {
		t.Errorf("xp=%d level=%d, want xp=110 level=2", profile.XP, profile.Level)
	}
}
