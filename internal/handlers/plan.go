package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/dayplanhq/dayplan/internal/models"
	"github.com/dayplanhq/dayplan/internal/planner"
	"github.com/dayplanhq/dayplan/internal/services/ai"
	"github.com/dayplanhq/dayplan/internal/session"
	"github.com/dayplanhq/dayplan/internal/validation"
)

// PlanHandler handles AI plan generation and import
type PlanHandler struct {
	sessions  *session.Manager
	generator ai.PlanGenerator
	log       *zap.Logger
}

// NewPlanHandler creates a new plan handler
func NewPlanHandler(sessions *session.Manager, generator ai.PlanGenerator, log *zap.Logger) *PlanHandler {
	return &PlanHandler{sessions: sessions, generator: generator, log: log}
}

// RegisterRoutes registers plan routes on the given router
func (h *PlanHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/generate", h.Generate).Methods("POST")
	r.HandleFunc("/import", h.Import).Methods("POST")
}

// GeneratePlanRequest represents a plan generation request
type GeneratePlanRequest struct {
	Goal string `json:"goal" validate:"required,min=1,max=2000"`
}

// Generate asks the plan generator for task suggestions. Suggestions are
// returned to the caller; nothing is added to the working set until the
// user imports them.
func (h *PlanHandler) Generate(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(w, r, h.sessions)
	if sess == nil {
		return
	}
	if h.generator == nil {
		respondJSONError(w, http.StatusServiceUnavailable, "Service Unavailable", "Plan generation is not configured")
		return
	}

	var req GeneratePlanRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Goal = validation.SanitizeText(req.Goal)
	if err := validation.Validate.Struct(req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	var categories []string
	if profile, _ := sess.Snapshot(); profile != nil {
		categories = profile.Categories
	}

	plan, err := h.generator.GeneratePlan(r.Context(), req.Goal, categories)
	if err != nil {
		h.log.Error("plan_generation_failed", zap.Error(err))
		respondJSONError(w, http.StatusBadGateway, "Bad Gateway", "Could not process the goal, try rephrasing it")
		return
	}

	respondJSON(w, http.StatusOK, plan)
}

// ImportPlanRequest carries the suggestions the user accepted
type ImportPlanRequest struct {
	Tasks []ai.SuggestedTask `json:"tasks" validate:"required,min=1,max=20,dive"`
}

// Import turns accepted suggestions into real tasks
func (h *PlanHandler) Import(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(w, r, h.sessions)
	if sess == nil {
		return
	}

	var req ImportPlanRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validation.Validate.Struct(req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	created := make([]models.Task, 0, len(req.Tasks))
	for _, s := range req.Tasks {
		title := validation.SanitizeText(s.Title)
		if title == "" {
			continue
		}
		priority := s.Priority
		if err := validation.ValidatePriority(string(priority)); err != nil {
			priority = models.PriorityMedium
		}
		created = append(created, models.Task{
			ID:       uuid.New(),
			Title:    title,
			Priority: priority,
			Category: validation.SanitizeText(s.Category),
		})
	}
	if len(created) == 0 {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "No usable tasks in the import")
		return
	}

	sess.Mutate(func(st *session.State) {
		for _, task := range created {
			st.Collections.Tasks = planner.AddTask(st.Collections.Tasks, task)
		}
	})

	respondJSON(w, http.StatusCreated, created)
}
