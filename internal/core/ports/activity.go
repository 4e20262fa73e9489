package ports

import (
	"context"
	"time"

	"github.com/taskhive/task-system/internal/core/domain"
)

// ActivityInput is one task event queued for asynchronous recording.
type ActivityInput struct {
	UserID     string
	TaskID     string
	TaskTitle  string
	Action     domain.ActivityAction
	OccurredAt time.Time
}

// ActivityDispatcher enqueues activity entries for background processing.
// Enqueueing must never fail the request that produced the entry.
type ActivityDispatcher interface {
	Enqueue(input ActivityInput)
}

// ActivityService processes queued entries and serves a user's history.
type ActivityService interface {
	Process(ctx context.Context, input ActivityInput) error
	ListByUser(ctx context.Context, userID string, limit int) ([]*domain.Activity, error)
}

// ActivityRepository defines persistence for the activity log.
type ActivityRepository interface {
	Insert(ctx context.Context, entry *domain.Activity) error
	// ListByUser returns the user's most recent entries, newest first.
	ListByUser(ctx context.Context, userID string, limit int) ([]*domain.Activity, error)
}
