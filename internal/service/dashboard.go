package service

import (
	"context"

	"github.com/Skotchmaster/content_backend/internal/models"
	"github.com/Skotchmaster/content_backend/internal/repo"
)

const RecentLimit = 5

type DashboardService struct {
	Repo *repo.GormRepo
}

type Stats struct {
	NewMessages int64
	Users       int64
	Blogs       int64
	Messages    int64
}

func (s *DashboardService) Stats(ctx context.Context) (*Stats, error) {
	var (
		st  Stats
		err error
	)
	if st.NewMessages, err = s.Repo.CountContacts(ctx, models.ContactNew); err != nil {
		return nil, err
	}
	if st.Users, err = s.Repo.CountUsers(ctx); err != nil {
		return nil, err
	}
	if st.Blogs, err = s.Repo.CountBlogs(ctx); err != nil {
		return nil, err
	}
	if st.Messages, err = s.Repo.CountContacts(ctx, ""); err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *DashboardService) RecentMessages(ctx context.Context) ([]models.ContactMessage, error) {
	return s.Repo.RecentContacts(ctx, RecentLimit)
}

func (s *DashboardService) RecentBlogs(ctx context.Context) ([]models.Blog, error) {
	return s.Repo.RecentBlogs(ctx, RecentLimit)
}
