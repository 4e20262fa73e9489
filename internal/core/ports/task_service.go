package ports

import (
	"context"

	"github.com/taskhive/task-system/internal/core/domain"
)

// CreateTaskInput carries the fields a caller may supply when creating a
// task. The owner comes from the authenticated identity, never from here.
type CreateTaskInput struct {
	Title       string
	Description string
	Status      string // empty defaults to "pending"
	CategoryID  string
}

// UpdateTaskInput carries a partial update; nil fields are left untouched.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *string
	CategoryID  *string
}

// ListTasksInput holds the optional narrowing filters for a task listing.
type ListTasksInput struct {
	CategoryName string
	Status       string
}

// TaskService exposes ownership-scoped task operations. Every method takes
// the authenticated user's id as its first argument.
type TaskService interface {
	List(ctx context.Context, userID string, input ListTasksInput) ([]*domain.Task, error)
	Create(ctx context.Context, userID string, input CreateTaskInput) (*domain.Task, error)
	GetOwned(ctx context.Context, userID, taskID string) (*domain.Task, error)
	Update(ctx context.Context, userID, taskID string, input UpdateTaskInput) (*domain.Task, error)
	Delete(ctx context.Context, userID, taskID string) error
}
