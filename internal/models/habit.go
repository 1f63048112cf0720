package models

import "github.com/google/uuid"

// DateLayout is the calendar-day format used for habit completion tracking
// and energy entries.
const DateLayout = "2006-01-02"

// Habit represents a recurring habit with a completion streak.
// LastCompleted holds the calendar day (YYYY-MM-DD) the habit was last
// marked complete, or empty if never completed. Streaks only ever grow or
// hold flat; there is no reset on a missed day.
type Habit struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Streak        int       `json:"streak"`
	LastCompleted string    `json:"last_completed,omitempty"`
	Color         string    `json:"color,omitempty"`
}
