package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/content_backend/internal/models"
)

type ContactFilter struct {
	Query  string
	Status models.ContactStatus
	Offset int
	Limit  int
}

func (r *GormRepo) CreateContact(ctx context.Context, msg *models.ContactMessage) error {
	return r.DB.WithContext(ctx).Create(msg).Error
}

// ListContacts returns the total match count and one page, newest first.
func (r *GormRepo) ListContacts(ctx context.Context, f ContactFilter) (int64, []models.ContactMessage, error) {
	q := r.DB.WithContext(ctx).Model(&models.ContactMessage{})
	if strings.TrimSpace(f.Query) != "" {
		like := likePattern(f.Query)
		q = q.Where(
			`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\' OR `+
				`LOWER(phone) LIKE ? ESCAPE '\' OR LOWER(COALESCE(service, '')) LIKE ? ESCAPE '\'`,
			like, like, like, like,
		)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := []models.ContactMessage{}
	if err := q.Order("created_at DESC").Order("id DESC").Offset(f.Offset).Limit(f.Limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) GetContact(ctx context.Context, id uint) (*models.ContactMessage, error) {
	var msg models.ContactMessage
	if err := r.DB.WithContext(ctx).First(&msg, id).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *GormRepo) DeleteContact(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.ContactMessage{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) RecentContacts(ctx context.Context, n int) ([]models.ContactMessage, error) {
	items := []models.ContactMessage{}
	err := r.DB.WithContext(ctx).Order("created_at DESC").Order("id DESC").Limit(n).Find(&items).Error
	return items, err
}

// CountContacts counts all messages, or only those in status when it is set.
func (r *GormRepo) CountContacts(ctx context.Context, status models.ContactStatus) (int64, error) {
	q := r.DB.WithContext(ctx).Model(&models.ContactMessage{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}
