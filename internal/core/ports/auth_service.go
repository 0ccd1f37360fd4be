package ports

import (
	"context"

	"github.com/taskboard/taskboard-api/internal/core/domain"
)

// AuthResult bundles the sanitized user with a freshly issued bearer token.
type AuthResult struct {
	User  *domain.User
	Token string
}

// AuthService implements registration and login.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
}

// UserService exposes the user directory and profile updates.
type UserService interface {
	ListUsers(ctx context.Context) ([]*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, update UserUpdate) (*domain.User, error)
}
