package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskhive/task-system/internal/core/domain"
	"github.com/taskhive/task-system/internal/core/ports"
)

// CategoryCache is the read-through cache in front of the category list.
// Implementations must treat their own failures as misses.
type CategoryCache interface {
	Get(ctx context.Context) ([]*domain.Category, error)
	Set(ctx context.Context, categories []*domain.Category) error
	Invalidate(ctx context.Context) error
}

// CategoryService manages the shared category taxonomy. Categories have
// no owner: any authenticated user may create one and everyone sees all
// of them.
type CategoryService struct {
	repo   ports.CategoryRepository
	cache  CategoryCache
	logger zerolog.Logger
}

func NewCategoryService(repo ports.CategoryRepository, cache CategoryCache, logger zerolog.Logger) *CategoryService {
	return &CategoryService{repo: repo, cache: cache, logger: logger}
}

// List returns all categories, serving from cache when possible. Cache
// failures degrade to a store read, never to a request failure.
func (s *CategoryService) List(ctx context.Context) ([]*domain.Category, error) {
	if cached, err := s.cache.Get(ctx); err == nil {
		return cached, nil
	}

	categories, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, categories); err != nil {
		s.logger.Warn().Err(err).Msg("failed to populate category cache")
	}

	return categories, nil
}

func (s *CategoryService) Create(ctx context.Context, name string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrCategoryNameRequired
	}

	category, err := s.repo.Create(ctx, &domain.Category{
		Name:      name,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate category cache")
	}

	return category, nil
}
