package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskhive/task-system/internal/core/domain"
	"github.com/taskhive/task-system/internal/core/ports"
)

// TaskService implements the ownership-scoped task operations. Every
// method takes the authenticated user's id; the repository enforces the
// same scoping again so there is no unscoped path to a task.
type TaskService struct {
	repo       ports.TaskRepository
	dispatcher ports.ActivityDispatcher
	logger     zerolog.Logger
}

func NewTaskService(repo ports.TaskRepository, dispatcher ports.ActivityDispatcher, logger zerolog.Logger) *TaskService {
	return &TaskService{repo: repo, dispatcher: dispatcher, logger: logger}
}

func (s *TaskService) List(ctx context.Context, userID string, input ports.ListTasksInput) ([]*domain.Task, error) {
	filter := ports.TaskFilter{
		UserID:       userID,
		CategoryName: input.CategoryName,
	}
	if input.Status != "" {
		status := domain.TaskStatus(input.Status)
		if !status.Valid() {
			return nil, domain.ErrInvalidStatus
		}
		filter.Status = status
	}

	return s.repo.List(ctx, filter)
}

func (s *TaskService) Create(ctx context.Context, userID string, input ports.CreateTaskInput) (*domain.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, domain.ErrTitleRequired
	}

	status := domain.StatusPending
	if input.Status != "" {
		status = domain.TaskStatus(input.Status)
		if !status.Valid() {
			return nil, domain.ErrInvalidStatus
		}
	}

	now := time.Now().UTC()
	task := &domain.Task{
		Title:       title,
		Description: input.Description,
		Status:      status,
		UserID:      userID,
		CategoryID:  input.CategoryID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repo.Create(ctx, task)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to create task")
		return nil, err
	}

	s.record(created, domain.ActivityCreated)

	return created, nil
}

func (s *TaskService) GetOwned(ctx context.Context, userID, taskID string) (*domain.Task, error) {
	return s.repo.FindOwned(ctx, userID, taskID)
}

// Update applies a partial update after confirming ownership. Owner and
// id are not reachable through the change set.
func (s *TaskService) Update(ctx context.Context, userID, taskID string, input ports.UpdateTaskInput) (*domain.Task, error) {
	changes := ports.TaskChanges{
		Description: input.Description,
		CategoryID:  input.CategoryID,
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, domain.ErrTitleRequired
		}
		changes.Title = &title
	}

	var completed bool
	if input.Status != nil {
		status := domain.TaskStatus(*input.Status)
		if !status.Valid() {
			return nil, domain.ErrInvalidStatus
		}
		changes.Status = &status
		completed = status == domain.StatusCompleted
	}

	// Check-then-act: resolve the task under the caller's identity before
	// mutating anything. A miss here covers both absence and foreign
	// ownership.
	current, err := s.repo.FindOwned(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, userID, taskID, changes)
	if err != nil {
		return nil, err
	}

	action := domain.ActivityUpdated
	if completed && current.Status != domain.StatusCompleted {
		action = domain.ActivityCompleted
	}
	s.record(updated, action)

	return updated, nil
}

func (s *TaskService) Delete(ctx context.Context, userID, taskID string) error {
	task, err := s.repo.FindOwned(ctx, userID, taskID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, userID, taskID); err != nil {
		return err
	}

	s.record(task, domain.ActivityDeleted)
	return nil
}

func (s *TaskService) record(task *domain.Task, action domain.ActivityAction) {
	s.dispatcher.Enqueue(ports.ActivityInput{
		UserID:     task.UserID,
		TaskID:     task.ID,
		TaskTitle:  task.Title,
		Action:     action,
		OccurredAt: time.Now().UTC(),
	})
}
