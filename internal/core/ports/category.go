package ports

import (
	"context"

	"github.com/taskhive/task-system/internal/core/domain"
)

// CategoryRepository defines persistence operations for the shared
// category taxonomy.
type CategoryRepository interface {
	List(ctx context.Context) ([]*domain.Category, error)
	Create(ctx context.Context, category *domain.Category) (*domain.Category, error)
}

type CategoryService interface {
	List(ctx context.Context) ([]*domain.Category, error)
	Create(ctx context.Context, name string) (*domain.Category, error)
}
