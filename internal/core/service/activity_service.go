package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/taskhive/task-system/internal/core/domain"
	"github.com/taskhive/task-system/internal/core/ports"
)

const maxActivityLimit = 100

// ActivityService persists queued task events and serves a user's
// history. Process is called from dispatcher workers, one entry at a time
// per user.
type ActivityService struct {
	repo   ports.ActivityRepository
	logger zerolog.Logger
}

func NewActivityService(repo ports.ActivityRepository, logger zerolog.Logger) *ActivityService {
	return &ActivityService{repo: repo, logger: logger}
}

func (s *ActivityService) Process(ctx context.Context, input ports.ActivityInput) error {
	entry := &domain.Activity{
		UserID:    input.UserID,
		TaskID:    input.TaskID,
		TaskTitle: input.TaskTitle,
		Action:    input.Action,
		CreatedAt: input.OccurredAt,
	}

	if err := s.repo.Insert(ctx, entry); err != nil {
		s.logger.Error().Err(err).
			Str("user_id", input.UserID).
			Str("action", string(input.Action)).
			Msg("failed to record activity")
		return err
	}

	return nil
}

func (s *ActivityService) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.Activity, error) {
	if limit <= 0 || limit > maxActivityLimit {
		limit = maxActivityLimit
	}
	return s.repo.ListByUser(ctx, userID, limit)
}
