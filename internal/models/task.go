package models

import (
	"time"

	"github.com/google/uuid"
)

// Priority represents task priority
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Task represents a scheduled todo item
type Task struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Completed     bool       `json:"completed"`
	Priority      Priority   `json:"priority"`
	Category      string     `json:"category,omitempty"`
	DueDate       time.Time  `json:"due_date"`
	ScheduledHour *int       `json:"scheduled_hour,omitempty"` // 0-23, nil when unscheduled
	ReminderAt    *time.Time `json:"reminder_at,omitempty"`
	Notified      bool       `json:"notified"`
}
