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

// FinanceHandler handles finance ledger requests
type FinanceHandler struct {
	sessions *session.Manager
}

// NewFinanceHandler creates a new finance handler
func NewFinanceHandler(sessions *session.Manager) *FinanceHandler {
	return &FinanceHandler{sessions: sessions}
}

// RegisterRoutes registers finance routes on the given router
func (h *FinanceHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.List).Methods("GET")
	r.HandleFunc("", h.Create).Methods("POST")
	r.HandleFunc("/{id}", h.Delete).Methods("DELETE")
}

// CreateTransactionRequest represents a create transaction request.
// Amount is always positive; direction comes from Type.
type CreateTransactionRequest struct {
	Description string              `json:"description" validate:"required,min=1,max=500"`
	Amount      float64             `json:"amount" validate:"required,gt=0"`
	Type        string              `json:"type" validate:"required,transaction_type"`
	Category    string              `json:"category" validate:"required,transaction_category"`
	Date        time.Time           `json:"date"`
	Installment *models.Installment `json:"installment,omitempty"`
}

// List returns all ledger entries in the caller's working set
func (h *FinanceHandler) List(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(w, r, h.sessions)
	if sess == nil {
		return
	}
	_, collections := sess.Snapshot()
	respondJSON(w, http.StatusOK, collections.Transactions)
}

// Create adds a transaction to the ledger
func (h *FinanceHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(w, r, h.sessions)
	if sess == nil {
		return
	}

	var req CreateTransactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Description = validation.SanitizeText(req.Description)
	if err := validation.Validate.Struct(req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	if req.Installment != nil && (req.Installment.Total < 1 || req.Installment.Current < 1 || req.Installment.Current > req.Installment.Total) {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid installment range")
		return
	}

	tx := models.Transaction{
		ID:          uuid.New(),
		Description: req.Description,
		Amount:      req.Amount,
		Type:        models.TransactionType(req.Type),
		Category:    models.TransactionCategory(req.Category),
		Date:        req.Date,
		Installment: req.Installment,
	}
	if tx.Date.IsZero() {
		tx.Date = time.Now()
	}

	sess.Mutate(func(st *session.State) {
		st.Collections.Transactions = planner.AddTransaction(st.Collections.Transactions, tx)
	})

	respondJSON(w, http.StatusCreated, tx)
}

// Delete removes a transaction from the ledger
func (h *FinanceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(w, r, h.sessions)
	if sess == nil {
		return
	}
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	sess.Mutate(func(st *session.State) {
		st.Collections.Transactions = planner.DeleteTransaction(st.Collections.Transactions, id)
	})

	respondJSON(w, http.StatusOK, map[string]any{"deleted": id})
}
