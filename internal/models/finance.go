package models

import (
	"time"

	"github.com/google/uuid"
)

// TransactionType represents the direction of a finance transaction
type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

// TransactionCategory is the closed set of ledger categories
type TransactionCategory string

const (
	CategoryHousing   TransactionCategory = "housing"
	CategoryFood      TransactionCategory = "food"
	CategoryTransport TransactionCategory = "transport"
	CategoryHealth    TransactionCategory = "health"
	CategoryLeisure   TransactionCategory = "leisure"
	CategorySalary    TransactionCategory = "salary"
	CategoryOther     TransactionCategory = "other"
)

// Installment marks a transaction as one payment of a series.
type Installment struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// Transaction represents a single ledger entry. Amount is always positive;
// direction comes from Type.
type Transaction struct {
	ID          uuid.UUID           `json:"id"`
	Description string              `json:"description"`
	Amount      float64             `json:"amount"`
	Type        TransactionType     `json:"type"`
	Category    TransactionCategory `json:"category"`
	Date        time.Time           `json:"date"`
	Installment *Installment        `json:"installment,omitempty"`
}
