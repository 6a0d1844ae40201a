package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/content_backend/internal/models"
)

func (r *GormRepo) CreateBlog(ctx context.Context, blog *models.Blog) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(blog).Error; err != nil {
			return translate(err)
		}
		return tx.Preload("Owner").First(blog, blog.ID).Error
	})
}

// BlogTitleTaken reports whether another blog already uses title.
func (r *GormRepo) BlogTitleTaken(ctx context.Context, title string, exceptID uint) (bool, error) {
	var count int64
	q := r.DB.WithContext(ctx).Model(&models.Blog{}).Where("title = ?", title)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormRepo) ListBlogs(ctx context.Context) ([]models.Blog, error) {
	var items []models.Blog
	err := r.DB.WithContext(ctx).Preload("Owner").Order("id ASC").Find(&items).Error
	return items, err
}

func (r *GormRepo) GetBlog(ctx context.Context, id uint) (*models.Blog, error) {
	var blog models.Blog
	if err := r.DB.WithContext(ctx).Preload("Owner").First(&blog, id).Error; err != nil {
		return nil, err
	}
	return &blog, nil
}

func (r *GormRepo) UpdateBlog(ctx context.Context, blog *models.Blog) error {
	err := r.DB.WithContext(ctx).Model(&models.Blog{}).
		Where("id = ?", blog.ID).
		Updates(map[string]any{"title": blog.Title, "content": blog.Content}).Error
	return translate(err)
}

func (r *GormRepo) DeleteBlog(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Blog{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) SearchBlogs(ctx context.Context, query string, offset, limit int) (int64, []models.Blog, error) {
	like := likePattern(query)
	q := r.DB.WithContext(ctx).Model(&models.Blog{}).
		Where(`LOWER(title) LIKE ? ESCAPE '\' OR LOWER(content) LIKE ? ESCAPE '\'`, like, like).
		Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.Blog
	if err := q.Preload("Owner").Order("id DESC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) GetBlogsByIDs(ctx context.Context, ids []uint) ([]models.Blog, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var items []models.Blog
	err := r.DB.WithContext(ctx).Preload("Owner").Where("id IN ?", ids).Find(&items).Error
	return items, err
}

func (r *GormRepo) RecentBlogs(ctx context.Context, n int) ([]models.Blog, error) {
	var items []models.Blog
	err := r.DB.WithContext(ctx).Preload("Owner").Order("id DESC").Limit(n).Find(&items).Error
	return items, err
}

func (r *GormRepo) CountBlogs(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Blog{}).Count(&n).Error
	return n, err
}
