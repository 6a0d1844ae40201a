package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/content_backend/internal/models"
	"github.com/Skotchmaster/content_backend/internal/repo"
)

type FAQService struct {
	Repo *repo.GormRepo
}

func (s *FAQService) List(ctx context.Context) ([]models.FAQ, error) {
	return s.Repo.ListFAQs(ctx)
}

func (s *FAQService) Get(ctx context.Context, id uint) (*models.FAQ, error) {
	faq, err := s.Repo.GetFAQ(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("faq %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return faq, nil
}

func (s *FAQService) Create(ctx context.Context, question, answer string) (*models.FAQ, error) {
	if question == "" || answer == "" {
		return nil, fmt.Errorf("question and answer are required: %w", ErrValidation)
	}
	faq := &models.FAQ{Question: question, Answer: answer}
	if err := s.Repo.CreateFAQ(ctx, faq); err != nil {
		return nil, err
	}
	return faq, nil
}

func (s *FAQService) Update(ctx context.Context, id uint, question, answer *string) (*models.FAQ, error) {
	faq, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if question != nil {
		faq.Question = *question
	}
	if answer != nil {
		faq.Answer = *answer
	}
	if err := s.Repo.SaveFAQ(ctx, faq); err != nil {
		return nil, err
	}
	return faq, nil
}

func (s *FAQService) Delete(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteFAQ(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("faq %d: %w", id, ErrNotFound)
		}
		return err
	}
	return nil
}
