package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/dayplanhq/dayplan/internal/notify"
	"github.com/dayplanhq/dayplan/internal/session"
	"github.com/dayplanhq/dayplan/internal/validation"
)

// SubscriptionHandler manages reminder delivery channels
type SubscriptionHandler struct {
	sessions *session.Manager
	registry notify.SubscriptionRegistry
	log      *zap.Logger
}

// NewSubscriptionHandler creates a new subscription handler
func NewSubscriptionHandler(sessions *session.Manager, registry notify.SubscriptionRegistry, log *zap.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{sessions: sessions, registry: registry, log: log}
}

// RegisterRoutes registers subscription routes on the given router
func (h *SubscriptionHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.List).Methods("GET")
	r.HandleFunc("", h.Create).Methods("POST")
	r.HandleFunc("/{id}", h.Delete).Methods("DELETE")
}

// CreateSubscriptionRequest registers a delivery endpoint for reminders
type CreateSubscriptionRequest struct {
	Kind     string `json:"kind" validate:"required,oneof=webpush webhook"`
	Endpoint string `json:"endpoint" validate:"required,url,max=2000"`
}

// List returns the caller's registered delivery channels
func (h *SubscriptionHandler) List(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(w, r, h.sessions)
	if sess == nil {
		return
	}

	subs, err := h.registry.List(r.Context(), sess.UserID())
	if err != nil {
		h.log.Error("subscription_list_failed", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to list subscriptions")
		return
	}
	respondJSON(w, http.StatusOK, subs)
}

// Create registers a new delivery channel
func (h *SubscriptionHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(w, r, h.sessions)
	if sess == nil {
		return
	}

	var req CreateSubscriptionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validation.Validate.Struct(req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	sub := notify.Subscription{
		ID:        uuid.NewString(),
		Kind:      req.Kind,
		Endpoint:  req.Endpoint,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.registry.Register(r.Context(), sess.UserID(), sub); err != nil {
		h.log.Error("subscription_register_failed", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to register subscription")
		return
	}

	respondJSON(w, http.StatusCreated, sub)
}

// Delete removes a delivery channel
func (h *SubscriptionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(w, r, h.sessions)
	if sess == nil {
		return
	}
	subID := mux.Vars(r)["id"]
	if subID == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Missing subscription id")
		return
	}

	if err := h.registry.Unregister(r.Context(), sess.UserID(), subID); err != nil {
		h.log.Error("subscription_unregister_failed", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to remove subscription")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"deleted": subID})
}
