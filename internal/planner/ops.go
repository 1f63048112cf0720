// Package planner holds the pure state-transition functions applied to the
// in-memory working set. Every operator returns a new collection; callers
// replace the previous collection wholesale, which is what triggers the
// autosave pipeline.
package planner

import (
	"time"

	"github.com/google/uuid"
	"github.com/dayplanhq/dayplan/internal/models"
)

const (
	// XPPerLevel is the amount of XP needed to advance one level
	XPPerLevel = 100
	// TaskCompletionXP is awarded each time a task transitions to completed
	TaskCompletionXP = 20
)

// LevelForXP derives the level for a given XP total. The recomputation is
// idempotent: the same XP always yields the same level.
func LevelForXP(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return xp/XPPerLevel + 1
}

// AddXP returns the profile with amount added to XP (floored at zero) and
// the level recomputed.
func AddXP(p models.Profile, amount int) models.Profile {
	p.XP += amount
	if p.XP < 0 {
		p.XP = 0
	}
	p.Level = LevelForXP(p.XP)
	return p
}

// AddTask appends a task to the collection.
func AddTask(tasks []models.Task, task models.Task) []models.Task {
	next := append([]models.Task(nil), tasks...)
	return append(next, task)
}

// ToggleTask flips the completion flag of the task with the given id and
// returns the XP to award: TaskCompletionXP on the incomplete-to-complete
// transition, zero otherwise. Re-completing after an uncompletion awards
// again; there is no memory of prior completions.
func ToggleTask(tasks []models.Task, id uuid.UUID) ([]models.Task, int) {
	next := append([]models.Task(nil), tasks...)
	award := 0
	for i := range next {
		if next[i].ID == id {
			next[i].Completed = !next[i].Completed
			if next[i].Completed {
				award = TaskCompletionXP
			}
		}
	}
	return next, award
}

// DeleteTask removes the task with the given id.
func DeleteTask(tasks []models.Task, id uuid.UUID) []models.Task {
	next := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ID != id {
			next = append(next, t)
		}
	}
	return next
}

// ScheduleTask assigns an hour (0-23, or nil to unschedule) to a task.
// Last assignment wins per task; no collision check is made against other
// tasks holding the same hour.
func ScheduleTask(tasks []models.Task, id uuid.UUID, hour *int) []models.Task {
	next := append([]models.Task(nil), tasks...)
	for i := range next {
		if next[i].ID == id {
			next[i].ScheduledHour = hour
		}
	}
	return next
}

// SetTaskReminder sets or clears a task's reminder time and resets the
// notified flag so a rescheduled reminder fires again.
func SetTaskReminder(tasks []models.Task, id uuid.UUID, at *time.Time) []models.Task {
	next := append([]models.Task(nil), tasks...)
	for i := range next {
		if next[i].ID == id {
			next[i].ReminderAt = at
			next[i].Notified = false
		}
	}
	return next
}

// MarkTaskNotified flags a task's reminder as delivered.
func MarkTaskNotified(tasks []models.Task, id uuid.UUID) []models.Task {
	next := append([]models.Task(nil), tasks...)
	for i := range next {
		if next[i].ID == id {
			next[i].Notified = true
		}
	}
	return next
}

// AddHabit appends a habit to the collection.
func AddHabit(habits []models.Habit, habit models.Habit) []models.Habit {
	next := append([]models.Habit(nil), habits...)
	return append(next, habit)
}

// ToggleHabit marks a habit complete for today. A toggle on a day already
// marked complete is a no-op, so repeated taps cannot double-increment the
// streak. Streaks never reset on missed days.
func ToggleHabit(habits []models.Habit, id uuid.UUID, today string) []models.Habit {
	next := append([]models.Habit(nil), habits...)
	for i := range next {
		if next[i].ID == id && next[i].LastCompleted != today {
			next[i].Streak++
			next[i].LastCompleted = today
		}
	}
	return next
}

// DeleteHabit removes the habit with the given id.
func DeleteHabit(habits []models.Habit, id uuid.UUID) []models.Habit {
	next := make([]models.Habit, 0, len(habits))
	for _, h := range habits {
		if h.ID != id {
			next = append(next, h)
		}
	}
	return next
}

// AddGoal appends a goal with its progress clamped to [0,100].
func AddGoal(goals []models.Goal, goal models.Goal) []models.Goal {
	goal.Progress = clampProgress(goal.Progress)
	next := append([]models.Goal(nil), goals...)
	return append(next, goal)
}

// AdjustGoalProgress applies a delta to a goal's progress, clamped to
// [0,100]. Completion is derived from progress, never set directly.
func AdjustGoalProgress(goals []models.Goal, id uuid.UUID, delta int) []models.Goal {
	next := append([]models.Goal(nil), goals...)
	for i := range next {
		if next[i].ID == id {
			next[i].Progress = clampProgress(next[i].Progress + delta)
		}
	}
	return next
}

// DeleteGoal removes the goal with the given id.
func DeleteGoal(goals []models.Goal, id uuid.UUID) []models.Goal {
	next := make([]models.Goal, 0, len(goals))
	for _, g := range goals {
		if g.ID != id {
			next = append(next, g)
		}
	}
	return next
}

// UpsertNote inserts or replaces a note, stamping LastEdited with now.
func UpsertNote(notes []models.Note, note models.Note, now time.Time) []models.Note {
	note.LastEdited = now
	next := append([]models.Note(nil), notes...)
	for i := range next {
		if next[i].ID == note.ID {
			next[i] = note
			return next
		}
	}
	return append(next, note)
}

// DeleteNote removes the note with the given id.
func DeleteNote(notes []models.Note, id uuid.UUID) []models.Note {
	next := make([]models.Note, 0, len(notes))
	for _, n := range notes {
		if n.ID != id {
			next = append(next, n)
		}
	}
	return next
}

// AddTransaction appends a transaction to the ledger.
func AddTransaction(txs []models.Transaction, tx models.Transaction) []models.Transaction {
	next := append([]models.Transaction(nil), txs...)
	return append(next, tx)
}

// DeleteTransaction removes the transaction with the given id.
func DeleteTransaction(txs []models.Transaction, id uuid.UUID) []models.Transaction {
	next := make([]models.Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx.ID != id {
			next = append(next, tx)
		}
	}
	return next
}

// SetEnergy records the energy level for a calendar day on the profile.
func SetEnergy(p models.Profile, date string, level models.EnergyLevel) models.Profile {
	p = p.Clone()
	if p.Energy == nil {
		p.Energy = make(map[string]models.EnergyLevel, 1)
	}
	p.Energy[date] = level
	return p
}

// SetCategories replaces the profile's category list, dropping duplicates
// while preserving order.
func SetCategories(p models.Profile, categories []string) models.Profile {
	p = p.Clone()
	seen := make(map[string]struct{}, len(categories))
	next := make([]string, 0, len(categories))
	for _, c := range categories {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		next = append(next, c)
	}
	p.Categories = next
	return p
}

func clampProgress(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
