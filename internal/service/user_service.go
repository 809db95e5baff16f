package service

import (
	"context"

	"github.com/gestor-labs/be-case-tracking/internal/logger"
	"github.com/gestor-labs/be-case-tracking/internal/repository"
)

// UserService lists operators for display-only attribution.
type UserService struct {
	users UserStore
	log   *logger.Logger
}

// NewUserService creates a new user service.
func NewUserService(users UserStore, log *logger.Logger) *UserService {
	return &UserService{users: users, log: log}
}

// ListUsers returns all known operators.
func (s *UserService) ListUsers(ctx context.Context) ([]*repository.User, error) {
	return s.users.List(ctx)
}
