package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/homecare-api/internal/domain"
	"github.com/spec-kit/homecare-api/internal/repository"
	apperrors "github.com/spec-kit/homecare-api/pkg/util/errorutil"
)

const defaultPostsPerPage = 10

// CategoryCache holds the category list between requests.
type CategoryCache interface {
	Get(ctx context.Context) ([]domain.BlogCategory, bool, error)
	Set(ctx context.Context, categories []domain.BlogCategory) error
	Invalidate(ctx context.Context) error
}

// BlogService manages posts and categories.
type BlogService struct {
	blog   repository.BlogRepository
	cache  CategoryCache
	logger *zap.Logger
	now    func() time.Time
}

// PostInput is the editable part of a post. An empty Slug is derived from
// the title.
type PostInput struct {
	Title           string
	Slug            string
	Content         string
	Excerpt         *string
	Status          domain.PostStatus
	Category        *string
	Tags            []string
	MetaDescription *string
	FeaturedImage   *string
}

// PostPage is one page of posts with totals.
type PostPage struct {
	Posts      []domain.BlogPost
	Total      int
	Page       int
	Limit      int
	TotalPages int
}

// NewBlogService constructs the service. cache may be nil.
func NewBlogService(blog repository.BlogRepository, cache CategoryCache, logger *zap.Logger) *BlogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BlogService{blog: blog, cache: cache, logger: logger, now: time.Now}
}

// ListPublished pages through published posts.
func (s *BlogService) ListPublished(ctx context.Context, page, limit int, category *string) (*PostPage, error) {
	published := domain.PostStatusPublished
	return s.listPosts(ctx, &published, category, page, limit)
}

// ListAll pages through posts in any status, optionally filtered.
func (s *BlogService) ListAll(ctx context.Context, status *domain.PostStatus, page, limit int) (*PostPage, error) {
	if status != nil && !status.Valid() {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": *status})
	}
	return s.listPosts(ctx, status, nil, page, limit)
}

func (s *BlogService) listPosts(ctx context.Context, status *domain.PostStatus, category *string, page, limit int) (*PostPage, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPostsPerPage
	}
	limit = min(limit, repository.MaxPageSize)
	posts, total, err := s.blog.ListPosts(ctx, repository.PostFilter{
		Status:   status,
		Category: category,
		Limit:    limit,
		Offset:   (page - 1) * limit,
	})
	if err != nil {
		return nil, apperrors.NewStoreError(err)
	}
	if posts == nil {
		posts = []domain.BlogPost{}
	}
	return &PostPage{
		Posts:      posts,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: (total + limit - 1) / limit,
	}, nil
}

// GetPublished returns a published post by slug.
func (s *BlogService) GetPublished(ctx context.Context, slug string) (*domain.BlogPost, error) {
	post, err := s.blog.GetPostBySlug(ctx, slug, true)
	if err != nil {
		return nil, storeErr("post", map[string]any{"slug": slug}, err)
	}
	return post, nil
}

// CreatePost stores a post written by authorID.
func (s *BlogService) CreatePost(ctx context.Context, authorID string, input PostInput) (*domain.BlogPost, error) {
	post := &domain.BlogPost{AuthorID: authorID}
	if err := s.apply(post, input); err != nil {
		return nil, err
	}
	if err := s.blog.CreatePost(ctx, post); err != nil {
		return nil, storeErr("post", nil, err)
	}
	return post, nil
}

// UpdatePost replaces a post's editable fields.
func (s *BlogService) UpdatePost(ctx context.Context, id string, input PostInput) (*domain.BlogPost, error) {
	post, err := s.blog.GetPostByID(ctx, id)
	if err != nil {
		return nil, storeErr("post", map[string]any{"id": id}, err)
	}
	if err := s.apply(post, input); err != nil {
		return nil, err
	}
	if err := s.blog.UpdatePost(ctx, post); err != nil {
		return nil, storeErr("post", map[string]any{"id": id}, err)
	}
	return post, nil
}

// apply copies input onto post. PublishedAt is stamped the first time the
// post is published and kept afterwards.
func (s *BlogService) apply(post *domain.BlogPost, input PostInput) error {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return apperrors.NewValidationError("title is required", map[string]any{"field": "title"})
	}
	slug := domain.Slugify(input.Slug)
	if slug == "" {
		slug = domain.Slugify(title)
	}
	if slug == "" {
		return apperrors.NewValidationError("title must contain letters or digits", map[string]any{"field": "title"})
	}
	status := input.Status
	if status == "" {
		status = domain.PostStatusDraft
	}
	if !status.Valid() {
		return apperrors.NewValidationError("invalid status", map[string]any{"status": status})
	}

	post.Title = title
	post.Slug = slug
	post.Content = input.Content
	post.Excerpt = input.Excerpt
	post.Status = status
	post.Category = input.Category
	post.Tags = input.Tags
	post.MetaDescription = input.MetaDescription
	post.FeaturedImage = input.FeaturedImage
	if status == domain.PostStatusPublished && post.PublishedAt == nil {
		now := s.now().UTC()
		post.PublishedAt = &now
	}
	return nil
}

// DeletePost removes a post.
func (s *BlogService) DeletePost(ctx context.Context, id string) error {
	return storeErr("post", map[string]any{"id": id}, s.blog.DeletePost(ctx, id))
}

// ListCategories serves from the cache when possible. Cache failures fall
// back to the database.
func (s *BlogService) ListCategories(ctx context.Context) ([]domain.BlogCategory, error) {
	if s.cache != nil {
		categories, ok, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warn("category cache read failed", zap.Error(err))
		} else if ok {
			return categories, nil
		}
	}

	categories, err := s.blog.ListCategories(ctx)
	if err != nil {
		return nil, apperrors.NewStoreError(err)
	}
	if categories == nil {
		categories = []domain.BlogCategory{}
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, categories); err != nil {
			s.logger.Warn("category cache write failed", zap.Error(err))
		}
	}
	return categories, nil
}

// CreateCategory adds a category and drops the cached list.
func (s *BlogService) CreateCategory(ctx context.Context, name string, description *string) (*domain.BlogCategory, error) {
	name = strings.TrimSpace(name)
	slug := domain.Slugify(name)
	if slug == "" {
		return nil, apperrors.NewValidationError("name is required", map[string]any{"field": "name"})
	}
	category := &domain.BlogCategory{Name: name, Slug: slug, Description: description}
	if err := s.blog.CreateCategory(ctx, category); err != nil {
		return nil, storeErr("category", nil, err)
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.Warn("category cache invalidation failed", zap.Error(err))
		}
	}
	return category, nil
}
