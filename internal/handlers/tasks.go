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

// MaxTitleLength is the maximum length for task, habit, and goal titles
const MaxTitleLength = 500

// TaskHandler handles task requests
type TaskHandler struct {
	sessions *session.Manager
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(sessions *session.Manager) *TaskHandler {
	return &TaskHandler{sessions: sessions}
}

// RegisterRoutes registers task routes on the given router. The router
// should already carry the /tasks prefix.
func (h *TaskHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.List).Methods("GET")
	r.HandleFunc("", h.Create).Methods("POST")
	r.HandleFunc("/{id}", h.Delete).Methods("DELETE")
	r.HandleFunc("/{id}/toggle", h.Toggle).Methods("POST")
	r.HandleFunc("/{id}/schedule", h.Schedule).Methods("PATCH")
	r.HandleFunc("/{id}/reminder", h.Reminder).Methods("PATCH")
}

// parseID extracts and parses the {id} route variable. On failure it
// writes the error response and returns false.
func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid id")
		return uuid.Nil, false
	}
	return id, true
}

// CreateTaskRequest represents a create task request
type CreateTaskRequest struct {
	Title         string     `json:"title" validate:"required,min=1,max=500"`
	Priority      string     `json:"priority" validate:"required,priority"`
	Category      string     `json:"category,omitempty" validate:"max=100"`
	DueDate       time.Time  `json:"due_date"`
	ScheduledHour *int       `json:"scheduled_hour,omitempty" validate:"omitempty,min=0,max=23"`
	ReminderAt    *time.Time `json:"reminder_at,omitempty"`
}

// List returns all tasks in the caller's working set
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(w, r, h.sessions)
	if sess == nil {
		return
	}
	_, collections := sess.Snapshot()
	respondJSON(w, http.StatusOK, collections.Tasks)
}

// Create adds a task to the working set
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(w, r, h.sessions)
	if sess == nil {
		return
	}

	var req CreateTaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Title = validation.SanitizeText(req.Title)
	if err := validation.Validate.Struct(req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	task := models.Task{
		ID:            uuid.New(),
		Title:         req.Title,
		Priority:      models.Priority(req.Priority),
		Category:      req.Category,
		DueDate:       req.DueDate,
		ScheduledHour: req.ScheduledHour,
		ReminderAt:    req.ReminderAt,
	}

	sess.Mutate(func(st *session.State) {
		st.Collections.Tasks = planner.AddTask(st.Collections.Tasks, task)
	})

	respondJSON(w, http.StatusCreated, task)
}

// Toggle flips a task's completion state. Completing a task awards
// experience; un-completing it does not take any back.
func (h *TaskHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(w, r, h.sessions)
	if sess == nil {
		return
	}
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var toggled *models.Task
	sess.Mutate(func(st *session.State) {
		tasks, xp := planner.ToggleTask(st.Collections.Tasks, id)
		st.Collections.Tasks = tasks
		if xp > 0 && st.Profile != nil {
			updated := planner.AddXP(*st.Profile, xp)
			st.Profile = &updated
		}
		for i := range tasks {
			if tasks[i].ID == id {
				toggled = &tasks[i]
				break
			}
		}
	})

	if toggled == nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Task not found")
		return
	}
	respondJSON(w, http.StatusOK, toggled)
}

// ScheduleTaskRequest represents a schedule change. A nil hour clears the
// schedule slot.
type ScheduleTaskRequest struct {
	Hour *int `json:"hour" validate:"omitempty,min=0,max=23"`
}

// Schedule sets or clears a task's scheduled hour
func (h *TaskHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(w, r, h.sessions)
	if sess == nil {
		return
	}
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req ScheduleTaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validation.Validate.Struct(req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	sess.Mutate(func(st *session.State) {
		st.Collections.Tasks = planner.ScheduleTask(st.Collections.Tasks, id, req.Hour)
	})

	respondJSON(w, http.StatusOK, map[string]any{"id": id, "scheduled_hour": req.Hour})
}

// ReminderRequest represents a reminder change. A nil remind_at clears the
// reminder.
type ReminderRequest struct {
	RemindAt *time.Time `json:"remind_at"`
}

// Reminder sets or clears a task's reminder time
func (h *TaskHandler) Reminder(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(w, r, h.sessions)
	if sess == nil {
		return
	}
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req ReminderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	sess.Mutate(func(st *session.State) {
		st.Collections.Tasks = planner.SetTaskReminder(st.Collections.Tasks, id, req.RemindAt)
	})

	respondJSON(w, http.StatusOK, map[string]any{"id": id, "reminder_at": req.RemindAt})
}

// Delete removes a task from the working set
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(w, r, h.sessions)
	if sess == nil {
		return
	}
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	sess.Mutate(func(st *session.State) {
		st.Collections.Tasks = planner.DeleteTask(st.Collections.Tasks, id)
	})

	respondJSON(w, http.StatusOK, map[string]any{"deleted": id})
}
