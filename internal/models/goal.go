package models

import (
	"time"

	"github.com/google/uuid"
)

// GoalType represents the planning horizon of a goal
type GoalType string

const (
	GoalTypeMonthly GoalType = "monthly"
	GoalTypeAnnual  GoalType = "annual"
)

// Goal represents a progress-tracked goal. Progress is clamped to [0,100];
// completion is derived, never stored.
type Goal struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	TargetDate time.Time `json:"target_date"`
	Progress   int       `json:"progress"`
	Type       GoalType  `json:"type"`
}

// Completed reports whether the goal has reached full progress.
func (g Goal) Completed() bool {
	return g.Progress >= 100
}
