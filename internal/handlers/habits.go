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

// HabitHandler handles habit requests
type HabitHandler struct {
	sessions *session.Manager
}

// NewHabitHandler creates a new habit handler
func NewHabitHandler(sessions *session.Manager) *HabitHandler {
	return &HabitHandler{sessions: sessions}
}

// RegisterRoutes registers habit routes on the given router
func (h *HabitHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.List).Methods("GET")
	r.HandleFunc("", h.Create).Methods("POST")
	r.HandleFunc("/{id}", h.Delete).Methods("DELETE")
	r.HandleFunc("/{id}/toggle", h.Toggle).Methods("POST")
}

// CreateHabitRequest represents a create habit request
type CreateHabitRequest struct {
	Title string `json:"title" validate:"required,min=1,max=500"`
	Color string `json:"color,omitempty" validate:"max=50"`
}

// List returns all habits in the caller's working set
func (h *HabitHandler) List(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(w, r, h.sessions)
	if sess == nil {
		return
	}
	_, collections := sess.Snapshot()
	respondJSON(w, http.StatusOK, collections.Habits)
}

// Create adds a habit to the working set
func (h *HabitHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(w, r, h.sessions)
	if sess == nil {
		return
	}

	var req CreateHabitRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Title = validation.SanitizeText(req.Title)
	if err := validation.Validate.Struct(req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	habit := models.Habit{
		ID:    uuid.New(),
		Title: req.Title,
		Color: req.Color,
	}

	sess.Mutate(func(st *session.State) {
		st.Collections.Habits = planner.AddHabit(st.Collections.Habits, habit)
	})

	respondJSON(w, http.StatusCreated, habit)
}

// Toggle marks a habit complete for today. A second toggle on the same
// calendar day is a no-op; the streak never decreases.
func (h *HabitHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(w, r, h.sessions)
	if sess == nil {
		return
	}
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	today := time.Now().Format(models.DateLayout)

	var updated *models.Habit
	sess.Mutate(func(st *session.State) {
		habits := planner.ToggleHabit(st.Collections.Habits, id, today)
		st.Collections.Habits = habits
		for i := range habits {
			if habits[i].ID == id {
				updated = &habits[i]
				break
			}
		}
	})

	if updated == nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Habit not found")
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// Delete removes a habit from the working set
func (h *HabitHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(w, r, h.sessions)
	if sess == nil {
		return
	}
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	sess.Mutate(func(st *session.State) {
		st.Collections.Habits = planner.DeleteHabit(st.Collections.Habits, id)
	})

	respondJSON(w, http.StatusOK, map[string]any{"deleted": id})
}
