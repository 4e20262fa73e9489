package domain

import (
	"errors"
	"time"
)

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	StatusPending   TaskStatus = "pending"
	StatusCompleted TaskStatus = "completed"
)

// Valid reports whether s is a recognized status value.
func (s TaskStatus) Valid() bool {
	return s == StatusPending || s == StatusCompleted
}

var ErrTaskNotFound = errors.New("task not found")
var ErrTitleRequired = errors.New("title is required")
var ErrInvalidStatus = errors.New("status must be one of: pending completed")

// Task belongs to exactly one user. UserID is fixed at creation and no
// code path reassigns it.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      TaskStatus `json:"status"`
	UserID      string     `json:"user_id"`
	CategoryID  string     `json:"category_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
