package models

import (
	"time"

	"github.com/google/uuid"
)

// Note represents a free-form note. Display order (lastEdited descending)
// is a view concern, not a stored invariant.
type Note struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	LastEdited time.Time `json:"last_edited"`
	Color      string    `json:"color,omitempty"`
}
