package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/content_backend/internal/events"
	"github.com/Skotchmaster/content_backend/internal/hash"
	"github.com/Skotchmaster/content_backend/internal/logging"
	"github.com/Skotchmaster/content_backend/internal/models"
)

// GetUser returns the account with id. Callers may only read themselves.
func (s *AuthService) GetUser(ctx context.Context, caller *models.User, id uint) (*models.User, error) {
	if caller.ID != id {
		return nil, fmt.Errorf("user %d reading user %d: %w", caller.ID, id, ErrForbidden)
	}
	user, err := s.Repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) DeleteUser(ctx context.Context, caller *models.User, id uint) error {
	l := logging.FromContext(ctx).With("svc", "auth.delete_user", "user_id", id)

	if caller.ID != id {
		return fmt.Errorf("user %d deleting user %d: %w", caller.ID, id, ErrForbidden)
	}
	if err := s.Repo.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user %d: %w", id, ErrNotFound)
		}
		l.Error("delete_user_failed", "status", 500, "error", err)
		return err
	}

	s.publish(ctx, events.TopicUsers, caller.Username, events.NewEvent(events.TypeUserDeleted, map[string]any{
		"id":       id,
		"username": caller.Username,
	}))
	l.Info("delete_user_successful")
	return nil
}

func (s *AuthService) ChangePassword(ctx context.Context, caller *models.User, current, next string) error {
	l := logging.FromContext(ctx).With("svc", "auth.change_password", "user_id", caller.ID)

	ok, err := s.Hasher.Verify(current, caller.HashedPassword)
	if err != nil {
		l.Error("change_password_failed", "status", 500, "reason", "stored digest unreadable", "error", err)
		return err
	}
	if !ok {
		l.Warn("change_password_failed", "status", 401, "reason", "current password mismatch")
		return ErrInvalidCredentials
	}

	digest, err := s.Hasher.Hash(next)
	if errors.Is(err, hash.ErrPasswordTooLong) {
		return fmt.Errorf("%v: %w", err, ErrValidation)
	}
	if err != nil {
		return err
	}
	if err := s.Repo.UpdatePassword(ctx, caller.ID, digest); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user %d: %w", caller.ID, ErrNotFound)
		}
		return err
	}
	caller.HashedPassword = digest

	l.Info("change_password_successful")
	return nil
}
