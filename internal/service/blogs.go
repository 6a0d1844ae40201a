package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gorm.io/gorm"

	"github.com/Skotchmaster/content_backend/internal/logging"
	"github.com/Skotchmaster/content_backend/internal/models"
	"github.com/Skotchmaster/content_backend/internal/repo"
	"github.com/Skotchmaster/content_backend/internal/search"
	"github.com/Skotchmaster/content_backend/internal/storage"
)

type BlogService struct {
	Repo          *repo.GormRepo
	Images        storage.ImageStore
	Index         search.Index
	MaxImageBytes int64
}

type ImageUpload struct {
	Filename string
	Body     io.Reader
}

type BlogPatch struct {
	Title   *string
	Content *string
}

func (s *BlogService) readImage(img ImageUpload) ([]byte, error) {
	if img.Body == nil {
		return nil, fmt.Errorf("image is required: %w", ErrValidation)
	}
	limit := s.MaxImageBytes
	if limit <= 0 {
		limit = 5 << 20
	}
	data, err := io.ReadAll(io.LimitReader(img.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("image larger than %d bytes: %w", limit, ErrValidation)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("image is empty: %w", ErrValidation)
	}
	return data, nil
}

func (s *BlogService) Create(ctx context.Context, owner *models.User, title, content string, img ImageUpload) (*models.Blog, error) {
	l := logging.FromContext(ctx).With("svc", "blog.create", "title", title)

	taken, err := s.Repo.BlogTitleTaken(ctx, title, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("a blog with the title %q already exists: %w", title, ErrDuplicateTitle)
	}

	data, err := s.readImage(img)
	if err != nil {
		return nil, err
	}
	key, contentType, err := storage.ImageKey(img.Filename, data)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrValidation)
	}
	url, err := s.Images.Save(ctx, key, contentType, data)
	if err != nil {
		l.Error("blog_create_failed", "status", 500, "reason", "cannot store image", "error", err)
		return nil, err
	}

	blog := &models.Blog{Title: title, Content: content, Image: url, OwnerID: owner.ID}
	if err := s.Repo.CreateBlog(ctx, blog); err != nil {
		if derr := s.Images.Delete(ctx, key); derr != nil {
			l.Warn("orphan_image", "key", key, "error", derr)
		}
		if errors.Is(err, repo.ErrUniqueViolation) {
			return nil, fmt.Errorf("a blog with the title %q already exists: %w", title, ErrDuplicateTitle)
		}
		return nil, err
	}

	s.reindex(ctx, blog)
	l.Info("blog_created", "blog_id", blog.ID)
	return blog, nil
}

func (s *BlogService) List(ctx context.Context) ([]models.Blog, error) {
	return s.Repo.ListBlogs(ctx)
}

func (s *BlogService) Get(ctx context.Context, id uint) (*models.Blog, error) {
	blog, err := s.Repo.GetBlog(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("blog %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return blog, nil
}

// Update applies the non-nil fields. Only the owner may update.
func (s *BlogService) Update(ctx context.Context, caller *models.User, id uint, patch BlogPatch) (*models.Blog, error) {
	blog, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if blog.OwnerID != caller.ID {
		return nil, fmt.Errorf("blog %d is not owned by user %d: %w", id, caller.ID, ErrForbidden)
	}

	if patch.Title != nil && *patch.Title != blog.Title {
		taken, err := s.Repo.BlogTitleTaken(ctx, *patch.Title, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("a blog with the title %q already exists: %w", *patch.Title, ErrDuplicateTitle)
		}
		blog.Title = *patch.Title
	}
	if patch.Content != nil {
		blog.Content = *patch.Content
	}

	if err := s.Repo.UpdateBlog(ctx, blog); err != nil {
		if errors.Is(err, repo.ErrUniqueViolation) {
			return nil, fmt.Errorf("a blog with the title %q already exists: %w", blog.Title, ErrDuplicateTitle)
		}
		return nil, err
	}

	s.reindex(ctx, blog)
	return blog, nil
}

func (s *BlogService) Delete(ctx context.Context, caller *models.User, id uint) error {
	blog, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if blog.OwnerID != caller.ID {
		return fmt.Errorf("blog %d is not owned by user %d: %w", id, caller.ID, ErrForbidden)
	}
	if err := s.Repo.DeleteBlog(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("blog %d: %w", id, ErrNotFound)
		}
		return err
	}

	if s.Index != nil {
		if err := s.Index.DeleteBlog(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("search_unindex_failed", "blog_id", id, "error", err)
		}
	}
	return nil
}

// Search uses the full text index when one is configured and falls back to
// a LIKE query when it is absent or failing.
func (s *BlogService) Search(ctx context.Context, query string, offset, limit int) (int64, []models.Blog, error) {
	if s.Index != nil && query != "" {
		total, ids, err := s.Index.SearchBlogs(ctx, query, offset, limit)
		if err == nil {
			items, err := s.Repo.GetBlogsByIDs(ctx, ids)
			if err != nil {
				return 0, nil, err
			}
			return total, orderByIDs(items, ids), nil
		}
		logging.FromContext(ctx).Warn("search_index_failed", "error", err)
	}
	return s.Repo.SearchBlogs(ctx, query, offset, limit)
}

func (s *BlogService) reindex(ctx context.Context, blog *models.Blog) {
	if s.Index == nil {
		return
	}
	doc := search.BlogDocument{ID: blog.ID, Title: blog.Title, Content: blog.Content}
	if blog.Owner != nil {
		doc.Author = blog.Owner.Username
	}
	if err := s.Index.IndexBlog(ctx, doc); err != nil {
		logging.FromContext(ctx).Warn("search_index_failed", "blog_id", blog.ID, "error", err)
	}
}

func orderByIDs(items []models.Blog, ids []uint) []models.Blog {
	byID := make(map[uint]models.Blog, len(items))
	for _, b := range items {
		byID[b.ID] = b
	}
	out := make([]models.Blog, 0, len(ids))
	for _, id := range ids {
		if b, ok := byID[id]; ok {
			out = append(out, b)
		}
	}
	return out
}
