package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/dayplanhq/dayplan/internal/models"
	"github.com/dayplanhq/dayplan/internal/request"
	"github.com/dayplanhq/dayplan/internal/session"
	"github.com/dayplanhq/dayplan/internal/store"
	"github.com/dayplanhq/dayplan/internal/token"
	"github.com/dayplanhq/dayplan/internal/validation"
)

// AuthHandler handles registration, login, and logout
type AuthHandler struct {
	store    store.RemoteStore
	tokens   *token.Manager
	sessions *session.Manager
	log      *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(st store.RemoteStore, tokens *token.Manager, sessions *session.Manager, log *zap.Logger) *AuthHandler {
	return &AuthHandler{store: st, tokens: tokens, sessions: sessions, log: log}
}

// RegisterPublicRoutes registers the unauthenticated auth routes
func (h *AuthHandler) RegisterPublicRoutes(r *mux.Router) {
	r.HandleFunc("/register", h.Register).Methods("POST")
	r.HandleFunc("/login", h.Login).Methods("POST")
}

// RegisterProtectedRoutes registers the auth routes that require a token
func (h *AuthHandler) RegisterProtectedRoutes(r *mux.Router) {
	r.HandleFunc("/logout", h.Logout).Methods("POST")
	r.HandleFunc("/me", h.Me).Methods("GET")
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Name     string `json:"name" validate:"required,min=1,max=200"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse carries the session token plus the profile the client
// should render immediately
type AuthResponse struct {
	Token   string          `json:"token"`
	Profile *models.Profile `json:"profile,omitempty"`
}

// Register creates a new identity and starts a session for it
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Name = validation.SanitizeText(req.Name)
	if err := validation.Validate.Struct(req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	ctx := r.Context()
	userID, err := h.store.RegisterIdentity(ctx, req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			respondJSONError(w, http.StatusConflict, "Conflict", "Email is already registered")
			return
		}
		h.log.Error("registration_failed", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to register")
		return
	}

	signed, err := h.tokens.Issue(userID, req.Email)
	if err != nil {
		h.log.Error("token_issue_failed", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to issue token")
		return
	}

	fallback := &models.Profile{
		ID:    userID,
		Name:  req.Name,
		Email: req.Email,
		Level: 1,
		Theme: models.DefaultTheme,
	}
	sess := h.sessions.Start(ctx, userID, fallback)

	respondJSON(w, http.StatusCreated, AuthResponse{Token: signed, Profile: sess.Profile()})
}

// Login authenticates an identity and starts a session for it
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validation.Validate.Struct(req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	ctx := r.Context()
	userID, err := h.store.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, store.ErrInvalidCredentials) {
			respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "Invalid email or password")
			return
		}
		h.log.Error("login_failed", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to sign in")
		return
	}

	signed, err := h.tokens.Issue(userID, req.Email)
	if err != nil {
		h.log.Error("token_issue_failed", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to issue token")
		return
	}

	sess := h.sessions.Start(ctx, userID, nil)

	respondJSON(w, http.StatusOK, AuthResponse{Token: signed, Profile: sess.Profile()})
}

// Logout ends the caller's session
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := request.ClaimsFromContext(r)
	if claims == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "No verified session token")
		return
	}

	if err := h.sessions.End(r.Context(), claims.UserID); err != nil {
		h.log.Error("logout_failed", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to sign out")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"signed_out": true})
}

// Me returns the caller's profile and session readiness
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(w, r, h.sessions)
	if sess == nil {
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"profile": sess.Profile(),
		"ready":   sess.Ready(),
	})
}
