package service

import (
	"context"
	"fmt"
	"time"

	"wkmetrics/internal/auth"
	"wkmetrics/internal/types"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserWithRoles pairs a user with its role assignments
type UserWithRoles struct {
	*types.User
	Roles []string `json:"roles"`
}

// CreateUser registers a new user account
func (s *Service) CreateUser(ctx context.Context, user *types.User) (*types.User, error) {
	if err := s.validate.Struct(user); err != nil {
		return nil, fmt.Errorf("%w: %s", types.ErrValidation, err.Error())
	}

	now := time.Now()
	user.ID = uuid.NewString()
	user.CreatedAt = now
	user.UpdatedAt = now

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// GetUser returns one user with its roles
func (s *Service) GetUser(ctx context.Context, id string) (*UserWithRoles, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	roles, err := s.users.ListRoles(ctx, id)
	if err != nil {
		return nil, err
	}

	return &UserWithRoles{User: user, Roles: roles}, nil
}

// ListUsers returns all users with their roles
func (s *Service) ListUsers(ctx context.Context) ([]*UserWithRoles, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]*UserWithRoles, 0, len(users))
	for _, user := range users {
		roles, err := s.users.ListRoles(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, &UserWithRoles{User: user, Roles: roles})
	}

	return result, nil
}

// DeleteUser removes a user and its role assignments
func (s *Service) DeleteUser(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateRole(ctx, id)
	return nil
}

// AssignRole grants a role to a user
func (s *Service) AssignRole(ctx context.Context, userID, role string) error {
	if !auth.Role(role).Valid() {
		return fmt.Errorf("%w: unknown role %q", types.ErrValidation, role)
	}

	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return err
	}

	if err := s.users.AssignRole(ctx, userID, role); err != nil {
		return err
	}

	s.invalidateRole(ctx, userID)
	s.logger.Info("Role assigned",
		zap.String("user_id", userID),
		zap.String("role", role))

	return nil
}

// RemoveRole revokes a role from a user
func (s *Service) RemoveRole(ctx context.Context, userID, role string) error {
	if err := s.users.RemoveRole(ctx, userID, role); err != nil {
		return err
	}

	s.invalidateRole(ctx, userID)
	s.logger.Info("Role removed",
		zap.String("user_id", userID),
		zap.String("role", role))

	return nil
}

// invalidateRole drops the cached role after an assignment change
func (s *Service) invalidateRole(ctx context.Context, userID string) {
	if s.roleInvalidator != nil {
		s.roleInvalidator(ctx, userID)
	}
}
