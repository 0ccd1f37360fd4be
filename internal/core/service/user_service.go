package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/taskboard/taskboard-api/internal/core/domain"
	"github.com/taskboard/taskboard-api/internal/core/ports"
)

// UserService exposes the user directory used for task assignment, plus
// profile updates.
type UserService struct {
	users  ports.UserRepository
	logger zerolog.Logger
}

func NewUserService(users ports.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

func (s *UserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.users.FindAll(ctx)
}

// UpdateProfile changes the caller's own name and/or email. Other accounts
// are unreachable: the user ID always comes from the verified token.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, update ports.UserUpdate) (*domain.User, error) {
	updated, err := s.users.UpdateByID(ctx, userID, update)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", userID).Msg("profile updated")
	return updated, nil
}
