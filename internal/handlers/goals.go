package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/dayplanhq/dayplan/internal/models"
	"github.com/dayplanhq/dayplan/internal/planner"
	"github.com/dayplanhq/dayplan/internal/session"
	"github.com/dayplanhq/dayplan/internal/validation"
)

// GoalHandler handles goal requests
type GoalHandler struct {
	sessions *session.Manager
}

// NewGoalHandler creates a new goal handler
func NewGoalHandler(sessions *session.Manager) *GoalHandler {
	return &GoalHandler{sessions: sessions}
}

// RegisterRoutes registers goal routes on the given router
func (h *GoalHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.List).Methods("GET")
	r.HandleFunc("", h.Create).Methods("POST")
	r.HandleFunc("/{id}", h.Delete).Methods("DELETE")
	r.HandleFunc("/{id}/progress", h.AdjustProgress).Methods("PATCH")
}

// CreateGoalRequest represents a create goal request
type CreateGoalRequest struct {
	Title      string    `json:"title" validate:"required,min=1,max=500"`
	Type       string    `json:"type" validate:"required,goal_type"`
	TargetDate time.Time `json:"target_date"`
}

// goalView augments the stored goal with its derived completion state
type goalView struct {
	models.Goal
	Completed bool `json:"completed"`
}

func goalViews(goals []models.Goal) []goalView {
	views := make([]goalView, len(goals))
	for i, g := range goals {
		views[i] = goalView{Goal: g, Completed: g.Completed()}
	}
	return views
}

// List returns all goals in the caller's working set
func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(w, r, h.sessions)
	if sess == nil {
		return
	}
	_, collections := sess.Snapshot()
	respondJSON(w, http.StatusOK, goalViews(collections.Goals))
}

// Create adds a goal to the working set
func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(w, r, h.sessions)
	if sess == nil {
		return
	}

	var req CreateGoalRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Title = validation.SanitizeText(req.Title)
	if err := validation.Validate.Struct(req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	goal := models.Goal{
		ID:         uuid.New(),
		Title:      req.Title,
		Type:       models.GoalType(req.Type),
		TargetDate: req.TargetDate,
	}

	sess.Mutate(func(st *session.State) {
		st.Collections.Goals = planner.AddGoal(st.Collections.Goals, goal)
	})

	respondJSON(w, http.StatusCreated, goalView{Goal: goal})
}

// AdjustProgressRequest carries a signed progress delta
type AdjustProgressRequest struct {
	Delta int `json:"delta" validate:"required,min=-100,max=100"`
}

// AdjustProgress moves a goal's progress by the given delta, clamped to
// the 0..100 range
func (h *GoalHandler) AdjustProgress(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(w, r, h.sessions)
	if sess == nil {
		return
	}
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req AdjustProgressRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validation.Validate.Struct(req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	var updated *models.Goal
	sess.Mutate(func(st *session.State) {
		goals := planner.AdjustGoalProgress(st.Collections.Goals, id, req.Delta)
		st.Collections.Goals = goals
		for i := range goals {
			if goals[i].ID == id {
				updated = &goals[i]
				break
			}
		}
	})

	if updated == nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Goal not found")
		return
	}
	respondJSON(w, http.StatusOK, goalView{Goal: *updated, Completed: updated.Completed()})
}

// Delete removes a goal from the working set
func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(w, r, h.sessions)
	if sess == nil {
		return
	}
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	sess.Mutate(func(st *session.State) {
		st.Collections.Goals = planner.DeleteGoal(st.Collections.Goals, id)
	})

	respondJSON(w, http.StatusOK, map[string]any{"deleted": id})
}
