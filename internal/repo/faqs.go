package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/content_backend/internal/models"
)

func (r *GormRepo) ListFAQs(ctx context.Context) ([]models.FAQ, error) {
	items := []models.FAQ{}
	err := r.DB.WithContext(ctx).Order("id ASC").Find(&items).Error
	return items, err
}

func (r *GormRepo) GetFAQ(ctx context.Context, id uint) (*models.FAQ, error) {
	var faq models.FAQ
	if err := r.DB.WithContext(ctx).First(&faq, id).Error; err != nil {
		return nil, err
	}
	return &faq, nil
}

func (r *GormRepo) CreateFAQ(ctx context.Context, faq *models.FAQ) error {
	return r.DB.WithContext(ctx).Create(faq).Error
}

func (r *GormRepo) SaveFAQ(ctx context.Context, faq *models.FAQ) error {
	return r.DB.WithContext(ctx).Save(faq).Error
}

func (r *GormRepo) DeleteFAQ(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.FAQ{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
