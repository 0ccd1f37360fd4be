package ports

import (
	"context"

	"github.com/taskboard/taskboard-api/internal/core/domain"
)

// UserUpdate is a partial profile merge. Nil fields are left untouched.
type UserUpdate struct {
	Name  *string
	Email *string
}

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindAll(ctx context.Context) ([]*domain.User, error)
	UpdateByID(ctx context.Context, id string, update UserUpdate) (*domain.User, error)
}
