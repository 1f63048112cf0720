package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/dayplanhq/dayplan/internal/cache"
	"github.com/dayplanhq/dayplan/internal/models"
	"github.com/dayplanhq/dayplan/internal/planner"
	"github.com/dayplanhq/dayplan/internal/session"
	"github.com/dayplanhq/dayplan/internal/validation"
)

// ProfileHandler handles profile and theme requests. The theme read is
// public so the UI can paint before authentication completes.
type ProfileHandler struct {
	sessions *session.Manager
	cache    cache.SessionCache
	boot     *session.Bootstrapper
	log      *zap.Logger
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(sessions *session.Manager, c cache.SessionCache, boot *session.Bootstrapper, log *zap.Logger) *ProfileHandler {
	return &ProfileHandler{sessions: sessions, cache: c, boot: boot, log: log}
}

// RegisterPublicRoutes registers routes that do not require authentication
func (h *ProfileHandler) RegisterPublicRoutes(r *mux.Router) {
	r.HandleFunc("/theme", h.GetTheme).Methods("GET")
}

// RegisterRoutes registers authenticated profile routes
func (h *ProfileHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.Get).Methods("GET")
	r.HandleFunc("", h.Update).Methods("PATCH")
	r.HandleFunc("/theme", h.SetTheme).Methods("PUT")
	r.HandleFunc("/energy", h.SetEnergy).Methods("PUT")
	r.HandleFunc("/categories", h.SetCategories).Methods("PUT")
}

// Get returns the caller's profile and session readiness
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(w, r, h.sessions)
	if sess == nil {
		return
	}
	profile, _ := sess.Snapshot()
	respondJSON(w, http.StatusOK, map[string]any{
		"profile": profile,
		"ready":   sess.Ready(),
	})
}

// UpdateProfileRequest carries the mutable profile fields. Pointer fields
// distinguish "leave unchanged" from "set to empty".
type UpdateProfileRequest struct {
	Name      *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Avatar    *string `json:"avatar,omitempty" validate:"omitempty,max=500"`
	FocusGoal *string `json:"focus_goal,omitempty" validate:"omitempty,max=500"`
}

// Update patches the caller's profile fields
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(w, r, h.sessions)
	if sess == nil {
		return
	}

	var req UpdateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name != nil {
		trimmed := validation.SanitizeText(*req.Name)
		req.Name = &trimmed
	}
	if err := validation.Validate.Struct(req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	var updated *models.Profile
	sess.Mutate(func(st *session.State) {
		if st.Profile == nil {
			return
		}
		p := st.Profile.Clone()
		if req.Name != nil {
			p.Name = *req.Name
		}
		if req.Avatar != nil {
			p.Avatar = *req.Avatar
		}
		if req.FocusGoal != nil {
			p.FocusGoal = *req.FocusGoal
		}
		st.Profile = &p
		updated = &p
	})

	if updated == nil {
		respondJSONError(w, http.StatusConflict, "Conflict", "Profile not loaded yet")
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// ThemeRequest represents a theme change request
type ThemeRequest struct {
	Theme string `json:"theme" validate:"required,theme"`
}

// GetTheme returns the last theme stored for the requesting device. It
// reads the local cache only, so it works before login and before the
// remote load resolves.
func (h *ProfileHandler) GetTheme(w http.ResponseWriter, r *http.Request) {
	theme := h.boot.Theme(r.Context(), deviceID(r))
	respondJSON(w, http.StatusOK, map[string]any{"theme": theme})
}

// deviceID identifies the requesting device for per-device preferences.
// Clients that do not send the header share the default slot.
func deviceID(r *http.Request) string {
	if d := r.Header.Get("X-Device-ID"); d != "" {
		return d
	}
	return cache.DefaultDevice
}

// SetTheme updates the caller's theme preference and mirrors it to the
// global theme slot so the next bootstrap paints correctly.
func (h *ProfileHandler) SetTheme(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(w, r, h.sessions)
	if sess == nil {
		return
	}

	var req ThemeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validation.Validate.Struct(req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	theme := models.Theme(req.Theme)

	sess.Mutate(func(st *session.State) {
		if st.Profile == nil {
			return
		}
		p := st.Profile.Clone()
		p.Theme = theme
		st.Profile = &p
	})

	if err := h.cache.SetTheme(r.Context(), deviceID(r), theme); err != nil {
		h.log.Warn("theme_cache_write_failed", zap.Error(err))
	}
	respondJSON(w, http.StatusOK, map[string]any{"theme": theme})
}

// EnergyRequest records a self-reported energy level for one day
type EnergyRequest struct {
	Date  string `json:"date" validate:"required,datetime=2006-01-02"`
	Level string `json:"level" validate:"required,energy_level"`
}

// SetEnergy records the energy level for the given day
func (h *ProfileHandler) SetEnergy(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(w, r, h.sessions)
	if sess == nil {
		return
	}

	var req EnergyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validation.Validate.Struct(req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	var updated *models.Profile
	sess.Mutate(func(st *session.State) {
		if st.Profile == nil {
			return
		}
		p := planner.SetEnergy(*st.Profile, req.Date, models.EnergyLevel(req.Level))
		st.Profile = &p
		updated = &p
	})

	if updated == nil {
		respondJSONError(w, http.StatusConflict, "Conflict", "Profile not loaded yet")
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// CategoriesRequest replaces the caller's task category list
type CategoriesRequest struct {
	Categories []string `json:"categories" validate:"required,max=50,dive,min=1,max=100"`
}

// SetCategories replaces the caller's category list
func (h *ProfileHandler) SetCategories(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(w, r, h.sessions)
	if sess == nil {
		return
	}

	var req CategoriesRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	for i, c := range req.Categories {
		req.Categories[i] = validation.SanitizeText(c)
	}
	if err := validation.Validate.Struct(req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	var updated *models.Profile
	sess.Mutate(func(st *session.State) {
		if st.Profile == nil {
			return
		}
		p := planner.SetCategories(*st.Profile, req.Categories)
		st.Profile = &p
		updated = &p
	})

	if updated == nil {
		respondJSONError(w, http.StatusConflict, "Conflict", "Profile not loaded yet")
		return
	}
	respondJSON(w, http.StatusOK, updated)
}
