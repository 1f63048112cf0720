// Package ai provides the plan generation service: free-text goal
// descriptions in, structured task suggestions plus a narrative insight
// out. Failures surface as a generic GenerationError; there is no retry
// and no partial-result handling.
package ai

import (
	"context"
	"errors"

	"github.com/dayplanhq/dayplan/internal/models"
)

// ErrGeneration is returned for any plan generation failure. Callers show
// a generic "could not process" message; the underlying cause is logged,
// never surfaced.
var ErrGeneration = errors.New("plan generation failed")

// SuggestedTask is one task proposed by the plan generator. The user
// decides which suggestions become real tasks.
type SuggestedTask struct {
	Title           string          `json:"title"`
	Description     string          `json:"description,omitempty"`
	Priority        models.Priority `json:"priority"`
	Category        string          `json:"category,omitempty"`
	DurationMinutes int             `json:"duration_minutes,omitempty"`
}

// Plan is the structured result of a generation call.
type Plan struct {
	Tasks   []SuggestedTask `json:"tasks"`
	Insight string          `json:"insight,omitempty"`
}

// PlanGenerator is the interface for AI plan providers.
type PlanGenerator interface {
	// GeneratePlan turns a free-text goal description into suggested
	// tasks and a narrative insight. categories hints the user's existing
	// task categories so suggestions land in familiar buckets.
	GeneratePlan(ctx context.Context, goal string, categories []string) (*Plan, error)
}
