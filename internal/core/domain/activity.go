package domain

import "time"

// ActivityAction labels what happened to a task.
type ActivityAction string

const (
	ActivityCreated   ActivityAction = "created"
	ActivityUpdated   ActivityAction = "updated"
	ActivityCompleted ActivityAction = "completed"
	ActivityDeleted   ActivityAction = "deleted"
)

// Activity is one entry in a user's task history. Entries are written
// asynchronously and are strictly ordered per user.
type Activity struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	TaskID    string         `json:"task_id"`
	TaskTitle string         `json:"task_title"`
	Action    ActivityAction `json:"action"`
	CreatedAt time.Time      `json:"created_at"`
}
