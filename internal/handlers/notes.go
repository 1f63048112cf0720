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

// NoteHandler handles note requests
type NoteHandler struct {
	sessions *session.Manager
}

// NewNoteHandler creates a new note handler
func NewNoteHandler(sessions *session.Manager) *NoteHandler {
	return &NoteHandler{sessions: sessions}
}

// RegisterRoutes registers note routes on the given router
func (h *NoteHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.List).Methods("GET")
	r.HandleFunc("", h.Upsert).Methods("PUT")
	r.HandleFunc("/{id}", h.Delete).Methods("DELETE")
}

// UpsertNoteRequest represents a note create-or-replace request. Omitting
// the id creates a new note.
type UpsertNoteRequest struct {
	ID      *uuid.UUID `json:"id,omitempty"`
	Title   string     `json:"title" validate:"max=500"`
	Content string     `json:"content" validate:"max=100000"`
	Color   string     `json:"color" validate:"max=50"`
}

// List returns all notes in the caller's working set
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(w, r, h.sessions)
	if sess == nil {
		return
	}
	_, collections := sess.Snapshot()
	respondJSON(w, http.StatusOK, collections.Notes)
}

// Upsert creates a note or replaces an existing one, stamping LastEdited
func (h *NoteHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(w, r, h.sessions)
	if sess == nil {
		return
	}

	var req UpsertNoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Title = validation.SanitizeText(req.Title)
	if err := validation.Validate.Struct(req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	note := models.Note{
		Title:   req.Title,
		Content: req.Content,
		Color:   req.Color,
	}
	created := req.ID == nil
	if created {
		note.ID = uuid.New()
	} else {
		note.ID = *req.ID
	}

	now := time.Now()
	var saved *models.Note
	sess.Mutate(func(st *session.State) {
		notes := planner.UpsertNote(st.Collections.Notes, note, now)
		st.Collections.Notes = notes
		for i := range notes {
			if notes[i].ID == note.ID {
				saved = &notes[i]
				break
			}
		}
	})

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	respondJSON(w, status, saved)
}

// Delete removes a note from the working set
func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(w, r, h.sessions)
	if sess == nil {
		return
	}
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	sess.Mutate(func(st *session.State) {
		st.Collections.Notes = planner.DeleteNote(st.Collections.Notes, id)
	})

	respondJSON(w, http.StatusOK, map[string]any{"deleted": id})
}
