package ports

import (
	"context"

	"github.com/taskhive/task-system/internal/core/domain"
)

// TaskFilter carries the query parameters for listing tasks.
// UserID is always set by the service layer; every query is scoped to it.
type TaskFilter struct {
	UserID       string
	CategoryName string            // optional: exact match on category name
	Status       domain.TaskStatus // optional: exact match on status
}

// TaskChanges holds the fields of a partial update. Nil means "leave
// unchanged". Owner and id are not representable here on purpose.
type TaskChanges struct {
	Title       *string
	Description *string
	Status      *domain.TaskStatus
	CategoryID  *string
}

// TaskRepository defines persistence operations for tasks. Every method
// that touches an existing task filters on (taskID, userID) jointly; a
// match on taskID alone never authorizes anything.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	// List returns the user's tasks matching filter, newest first.
	List(ctx context.Context, filter TaskFilter) ([]*domain.Task, error)
	// FindOwned returns domain.ErrTaskNotFound both when no task has the
	// given id and when the task belongs to another user.
	FindOwned(ctx context.Context, userID, taskID string) (*domain.Task, error)
	Update(ctx context.Context, userID, taskID string, changes TaskChanges) (*domain.Task, error)
	Delete(ctx context.Context, userID, taskID string) error
}
