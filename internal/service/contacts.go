package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"

	"github.com/Skotchmaster/content_backend/internal/events"
	"github.com/Skotchmaster/content_backend/internal/logging"
	"github.com/Skotchmaster/content_backend/internal/models"
	"github.com/Skotchmaster/content_backend/internal/repo"
)

type ContactService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

func (s *ContactService) Submit(ctx context.Context, msg *models.ContactMessage) error {
	l := logging.FromContext(ctx).With("svc", "contact.submit")

	if msg.Status == "" {
		msg.Status = models.ContactNew
	}
	if err := s.Repo.CreateContact(ctx, msg); err != nil {
		l.Error("contact_create_failed", "status", 500, "error", err)
		return err
	}

	if s.Events != nil {
		ev := events.NewEvent(events.TypeContactReceived, map[string]any{
			"id":             msg.ID,
			"name":           msg.Name,
			"email":          msg.Email,
			"service":        msg.Service,
			"preferred_time": msg.PreferredTime,
		})
		if err := s.Events.PublishEvent(ctx, events.TopicContacts, strconv.FormatUint(uint64(msg.ID), 10), ev); err != nil {
			l.Warn("event_publish_failed", "topic", events.TopicContacts, "error", err)
		}
	}

	l.Info("contact_created", "contact_id", msg.ID)
	return nil
}

func (s *ContactService) List(ctx context.Context, f repo.ContactFilter) (int64, []models.ContactMessage, error) {
	if f.Status != "" && !f.Status.Valid() {
		return 0, nil, fmt.Errorf("unknown status %q: %w", f.Status, ErrValidation)
	}
	return s.Repo.ListContacts(ctx, f)
}

func (s *ContactService) Get(ctx context.Context, id uint) (*models.ContactMessage, error) {
	msg, err := s.Repo.GetContact(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("contact %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return msg, nil
}

func (s *ContactService) Delete(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteContact(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("contact %d: %w", id, ErrNotFound)
		}
		return err
	}
	return nil
}
