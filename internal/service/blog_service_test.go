package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/homecare-api/internal/domain"
	"github.com/spec-kit/homecare-api/internal/repository"
	apperrors "github.com/spec-kit/homecare-api/pkg/util/errorutil"
)

type memBlogRepo struct {
	posts          map[string]*domain.BlogPost
	categories     []domain.BlogCategory
	categoryReads  int
	lastPostFilter repository.PostFilter
	total          int
}

func newMemBlogRepo() *memBlogRepo {
	return &memBlogRepo{posts: map[string]*domain.BlogPost{}}
}

func (r *memBlogRepo) CreatePost(_ context.Context, post *domain.BlogPost) error {
	post.ID = "post-" + post.Slug
	copied := *post
	r.posts[post.ID] = &copied
	return nil
}

func (r *memBlogRepo) UpdatePost(_ context.Context, post *domain.BlogPost) error {
	copied := *post
	r.posts[post.ID] = &copied
	return nil
}

func (r *memBlogRepo) DeletePost(_ context.Context, id string) error {
	if _, ok := r.posts[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.posts, id)
	return nil
}

func (r *memBlogRepo) GetPostByID(_ context.Context, id string) (*domain.BlogPost, error) {
	post, ok := r.posts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *post
	return &copied, nil
}

func (r *memBlogRepo) GetPostBySlug(_ context.Context, slug string, publishedOnly bool) (*domain.BlogPost, error) {
	for _, post := range r.posts {
		if post.Slug == slug && (!publishedOnly || post.Status == domain.PostStatusPublished) {
			copied := *post
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memBlogRepo) ListPosts(_ context.Context, filter repository.PostFilter) ([]domain.BlogPost, int, error) {
	r.lastPostFilter = filter
	return nil, r.total, nil
}

func (r *memBlogRepo) ListCategories(context.Context) ([]domain.BlogCategory, error) {
	r.categoryReads++
	return append([]domain.BlogCategory(nil), r.categories...), nil
}

func (r *memBlogRepo) CreateCategory(_ context.Context, category *domain.BlogCategory) error {
	category.ID = "cat-" + category.Slug
	r.categories = append(r.categories, *category)
	return nil
}

type memCategoryCache struct {
	entries     []domain.BlogCategory
	cached      bool
	invalidated int
}

func (c *memCategoryCache) Get(context.Context) ([]domain.BlogCategory, bool, error) {
	return c.entries, c.cached, nil
}

func (c *memCategoryCache) Set(_ context.Context, categories []domain.BlogCategory) error {
	c.entries, c.cached = categories, true
	return nil
}

func (c *memCategoryCache) Invalidate(context.Context) error {
	c.entries, c.cached = nil, false
	c.invalidated++
	return nil
}

func TestPublishStampsPublishedAtOnce(t *testing.T) {
	repo := newMemBlogRepo()
	svc := NewBlogService(repo, nil, nil)
	first := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return first }

	post, err := svc.CreatePost(context.Background(), "author-1", PostInput{Title: "Caring for Parents at Home!", Content: "..."})
	require.NoError(t, err)
	assert.Equal(t, "caring-for-parents-at-home", post.Slug)
	assert.Equal(t, domain.PostStatusDraft, post.Status)
	assert.Nil(t, post.PublishedAt)

	published, err := svc.UpdatePost(context.Background(), post.ID, PostInput{Title: post.Title, Status: domain.PostStatusPublished})
	require.NoError(t, err)
	require.NotNil(t, published.PublishedAt)
	assert.Equal(t, first, *published.PublishedAt)

	svc.now = func() time.Time { return first.Add(48 * time.Hour) }
	edited, err := svc.UpdatePost(context.Background(), post.ID, PostInput{Title: "New title", Status: domain.PostStatusPublished})
	require.NoError(t, err)
	assert.Equal(t, first, *edited.PublishedAt)
	assert.Equal(t, "new-title", edited.Slug)
}

func TestCreatePostValidation(t *testing.T) {
	svc := NewBlogService(newMemBlogRepo(), nil, nil)

	_, err := svc.CreatePost(context.Background(), "a", PostInput{Title: "   "})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	_, err = svc.CreatePost(context.Background(), "a", PostInput{Title: "ok", Status: "live"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
}

func TestListPublishedPagination(t *testing.T) {
	repo := newMemBlogRepo()
	repo.total = 21
	svc := NewBlogService(repo, nil, nil)

	page, err := svc.ListPublished(context.Background(), 3, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, 10, page.Limit)
	assert.Equal(t, 3, page.TotalPages)
	assert.NotNil(t, page.Posts)
	assert.Equal(t, 20, repo.lastPostFilter.Offset)
	require.NotNil(t, repo.lastPostFilter.Status)
	assert.Equal(t, domain.PostStatusPublished, *repo.lastPostFilter.Status)
}

func TestListPublishedClampsOversizedLimit(t *testing.T) {
	repo := newMemBlogRepo()
	repo.total = 1200
	svc := NewBlogService(repo, nil, nil)

	page, err := svc.ListPublished(context.Background(), 2, 1000, nil)
	require.NoError(t, err)
	assert.Equal(t, repository.MaxPageSize, page.Limit)
	assert.Equal(t, repository.MaxPageSize, repo.lastPostFilter.Limit)
	assert.Equal(t, repository.MaxPageSize, repo.lastPostFilter.Offset)
	assert.Equal(t, 3, page.TotalPages)
}

func TestGetPublishedHidesDrafts(t *testing.T) {
	repo := newMemBlogRepo()
	svc := NewBlogService(repo, nil, nil)
	_, err := svc.CreatePost(context.Background(), "a", PostInput{Title: "Draft post"})
	require.NoError(t, err)

	_, err = svc.GetPublished(context.Background(), "draft-post")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestCategoriesAreCachedAndInvalidated(t *testing.T) {
	repo := newMemBlogRepo()
	cache := &memCategoryCache{}
	svc := NewBlogService(repo, cache, nil)
	ctx := context.Background()

	_, err := svc.CreateCategory(ctx, "Senior Care", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.invalidated)

	first, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	second, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.categoryReads)
	assert.Equal(t, "senior-care", first[0].Slug)

	_, err = svc.CreateCategory(ctx, "Respite", nil)
	require.NoError(t, err)
	third, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, third, 2)
	assert.Equal(t, 2, repo.categoryReads)
}
