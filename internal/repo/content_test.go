package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/content_backend/internal/models"
)

func strPtr(s string) *string { return &s }

func TestBlogs_CRUDAndSearch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := newTestRepo(t)
	u := seedUser(t, r, "alice")

	b := &models.Blog{Title: "Winter Care", Content: "Keep skin moisturised", Image: "http://img/1.png", OwnerID: u.ID}
	require.NoError(t, r.CreateBlog(ctx, b))
	require.NotZero(t, b.ID)
	require.NotNil(t, b.Owner)
	assert.Equal(t, "alice", b.Owner.Username)

	err := r.CreateBlog(ctx, &models.Blog{Title: "Winter Care", Content: "dup", OwnerID: u.ID})
	assert.ErrorIs(t, err, ErrUniqueViolation)

	taken, err := r.BlogTitleTaken(ctx, "Winter Care", 0)
	require.NoError(t, err)
	assert.True(t, taken)
	taken, err = r.BlogTitleTaken(ctx, "Winter Care", b.ID)
	require.NoError(t, err)
	assert.False(t, taken)

	require.NoError(t, r.CreateBlog(ctx, &models.Blog{Title: "Summer", Content: "Sunscreen daily", OwnerID: u.ID}))

	total, items, err := r.SearchBlogs(ctx, "SKIN", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "Winter Care", items[0].Title)

	b.Title = "Summer"
	assert.ErrorIs(t, r.UpdateBlog(ctx, b), ErrUniqueViolation)

	recent, err := r.RecentBlogs(ctx, 5)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "Summer", recent[0].Title)

	require.NoError(t, r.DeleteBlog(ctx, b.ID))
	assert.ErrorIs(t, r.DeleteBlog(ctx, b.ID), gorm.ErrRecordNotFound)
}

func TestCreateBlog_ReloadFailureRollsBack(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := newTestRepo(t)
	u := seedUser(t, r, "alice")

	const hook = "test:fail_blog_reload"
	require.NoError(t, r.DB.Callback().Query().Before("gorm:query").Register(hook, func(tx *gorm.DB) {
		if tx.Statement.Schema != nil && tx.Statement.Schema.Table == "blogs" {
			tx.AddError(errors.New("reload failed"))
		}
	}))

	err := r.CreateBlog(ctx, &models.Blog{Title: "Winter Care", Content: "Keep skin moisturised", OwnerID: u.ID})
	require.Error(t, err)

	require.NoError(t, r.DB.Callback().Query().Remove(hook))
	n, err := r.CountBlogs(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSearch_WildcardsAreLiteral(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := newTestRepo(t)
	u := seedUser(t, r, "alice")

	require.NoError(t, r.CreateBlog(ctx, &models.Blog{Title: "Winter Care", Content: "Keep skin moisturised", OwnerID: u.ID}))
	require.NoError(t, r.CreateBlog(ctx, &models.Blog{Title: "Discounts", Content: "Save 20% on peels", OwnerID: u.ID}))
	require.NoError(t, r.CreateContact(ctx, &models.ContactMessage{Name: "Ann Lee", Email: "ann@x.com", Phone: "+16502530000", Status: models.ContactNew}))
	require.NoError(t, r.CreateContact(ctx, &models.ContactMessage{Name: "Bob Ray", Email: "bob_ray@x.com", Phone: "+16502530001", Status: models.ContactNew}))

	tests := []struct {
		q     string
		blogs int64
	}{
		{q: "%", blogs: 1},
		{q: "_", blogs: 0},
		{q: `\`, blogs: 0},
		{q: "20%", blogs: 1},
	}
	for _, tt := range tests {
		total, _, err := r.SearchBlogs(ctx, tt.q, 0, 10)
		require.NoError(t, err)
		assert.Equal(t, tt.blogs, total, tt.q)
	}

	total, items, err := r.ListContacts(ctx, ContactFilter{Query: "_", Limit: 20})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "Bob Ray", items[0].Name)

	total, _, err = r.ListContacts(ctx, ContactFilter{Query: "%", Limit: 20})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestContacts_ListFilters(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := newTestRepo(t)

	base := time.Now().UTC().Add(-time.Hour)
	seed := []models.ContactMessage{
		{Name: "Ann Lee", Email: "ann@x.com", Phone: "+16502530000", Status: models.ContactNew, Service: strPtr("Dental"), CreatedAt: base},
		{Name: "Bob Ray", Email: "bob@x.com", Phone: "+16502530001", Status: models.ContactRead, CreatedAt: base.Add(time.Minute)},
		{Name: "Cid Moe", Email: "cid@y.org", Phone: "+16502530002", Status: models.ContactNew, CreatedAt: base.Add(2 * time.Minute)},
	}
	for i := range seed {
		require.NoError(t, r.CreateContact(ctx, &seed[i]))
	}

	total, items, err := r.ListContacts(ctx, ContactFilter{Limit: 20})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, items, 3)
	assert.Equal(t, "Cid Moe", items[0].Name, "newest first")

	total, items, err = r.ListContacts(ctx, ContactFilter{Query: "dental", Limit: 20})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "Ann Lee", items[0].Name)

	total, _, err = r.ListContacts(ctx, ContactFilter{Status: models.ContactNew, Limit: 20})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	total, items, err = r.ListContacts(ctx, ContactFilter{Offset: 1, Limit: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, items, 1)
	assert.Equal(t, "Bob Ray", items[0].Name)

	n, err := r.CountContacts(ctx, models.ContactNew)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	require.NoError(t, r.DeleteContact(ctx, seed[0].ID))
	_, err = r.GetContact(ctx, seed[0].ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestFAQs_CRUD(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := newTestRepo(t)

	f := &models.FAQ{Question: "Do you take walk-ins?", Answer: "Yes, on weekday mornings."}
	require.NoError(t, r.CreateFAQ(ctx, f))

	f.Answer = "Only on Mondays and Fridays."
	require.NoError(t, r.SaveFAQ(ctx, f))

	got, err := r.GetFAQ(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, "Only on Mondays and Fridays.", got.Answer)

	all, err := r.ListFAQs(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, r.DeleteFAQ(ctx, f.ID))
	assert.ErrorIs(t, r.DeleteFAQ(ctx, f.ID), gorm.ErrRecordNotFound)
}
