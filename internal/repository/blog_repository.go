package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/homecare-api/internal/domain"
)

// BlogRepository handles blog posts and categories.
type BlogRepository interface {
	CreatePost(ctx context.Context, post *domain.BlogPost) error
	UpdatePost(ctx context.Context, post *domain.BlogPost) error
	DeletePost(ctx context.Context, id string) error
	GetPostByID(ctx context.Context, id string) (*domain.BlogPost, error)
	GetPostBySlug(ctx context.Context, slug string, publishedOnly bool) (*domain.BlogPost, error)
	ListPosts(ctx context.Context, filter PostFilter) ([]domain.BlogPost, int, error)
	ListCategories(ctx context.Context) ([]domain.BlogCategory, error)
	CreateCategory(ctx context.Context, category *domain.BlogCategory) error
}

// PostFilter defines query params for post listing.
type PostFilter struct {
	Status   *domain.PostStatus
	Category *string
	Limit    int
	Offset   int
}

type blogRepository struct {
	pool *pgxpool.Pool
}

// NewBlogRepository instantiates the repository.
func NewBlogRepository(pool *pgxpool.Pool) BlogRepository {
	return &blogRepository{pool: pool}
}

var postColumns = []string{
	"p.id", "p.title", "p.slug", "p.content", "p.excerpt", "p.author_id",
	"COALESCE(u.first_name || ' ' || u.last_name, '')", "p.status", "p.category", "p.tags",
	"p.meta_description", "p.featured_image", "p.published_at", "p.created_at", "p.updated_at",
}

func (r *blogRepository) CreatePost(ctx context.Context, post *domain.BlogPost) error {
	const query = `
        INSERT INTO blog_posts (title, slug, content, excerpt, author_id, status, category, tags,
            meta_description, featured_image, published_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING id, created_at, updated_at`

	return conn(ctx, r.pool).QueryRow(ctx, query,
		post.Title,
		post.Slug,
		post.Content,
		post.Excerpt,
		post.AuthorID,
		post.Status,
		post.Category,
		nonNilStrings(post.Tags),
		post.MetaDescription,
		post.FeaturedImage,
		post.PublishedAt,
	).Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)
}

func (r *blogRepository) UpdatePost(ctx context.Context, post *domain.BlogPost) error {
	const query = `
        UPDATE blog_posts
        SET title=$1, slug=$2, content=$3, excerpt=$4, status=$5, category=$6, tags=$7,
            meta_description=$8, featured_image=$9, published_at=$10, updated_at=NOW()
        WHERE id=$11
        RETURNING updated_at`

	return conn(ctx, r.pool).QueryRow(ctx, query,
		post.Title,
		post.Slug,
		post.Content,
		post.Excerpt,
		post.Status,
		post.Category,
		nonNilStrings(post.Tags),
		post.MetaDescription,
		post.FeaturedImage,
		post.PublishedAt,
		post.ID,
	).Scan(&post.UpdatedAt)
}

func (r *blogRepository) DeletePost(ctx context.Context, id string) error {
	cmd, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM blog_posts WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *blogRepository) GetPostByID(ctx context.Context, id string) (*domain.BlogPost, error) {
	return r.getPost(ctx, sq.Eq{"p.id": id})
}

func (r *blogRepository) GetPostBySlug(ctx context.Context, slug string, publishedOnly bool) (*domain.BlogPost, error) {
	where := sq.Eq{"p.slug": slug}
	if publishedOnly {
		where["p.status"] = domain.PostStatusPublished
	}
	return r.getPost(ctx, where)
}

func (r *blogRepository) getPost(ctx context.Context, where sq.Eq) (*domain.BlogPost, error) {
	query, args, err := psql.Select(postColumns...).
		From("blog_posts p").
		LeftJoin("users u ON u.id = p.author_id").
		Where(where).
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanPost(conn(ctx, r.pool).QueryRow(ctx, query, args...))
}

func (r *blogRepository) ListPosts(ctx context.Context, filter PostFilter) ([]domain.BlogPost, int, error) {
	limit, offset := pageBounds(filter.Limit, filter.Offset, 10)
	where := sq.And{}
	if filter.Status != nil {
		where = append(where, sq.Eq{"p.status": *filter.Status})
	}
	if filter.Category != nil {
		where = append(where, sq.Eq{"p.category": *filter.Category})
	}

	countQuery, countArgs, err := psql.Select("COUNT(*)").From("blog_posts p").Where(where).ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total int
	if err := conn(ctx, r.pool).QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query, args, err := psql.Select(postColumns...).
		From("blog_posts p").
		LeftJoin("users u ON u.id = p.author_id").
		Where(where).
		OrderBy("COALESCE(p.published_at, p.created_at) DESC").
		Limit(limit).
		Offset(offset).
		ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []domain.BlogPost
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *post)
	}
	return result, total, rows.Err()
}

func (r *blogRepository) ListCategories(ctx context.Context) ([]domain.BlogCategory, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `SELECT id, name, slug, description FROM blog_categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.BlogCategory
	for rows.Next() {
		var category domain.BlogCategory
		if err := rows.Scan(&category.ID, &category.Name, &category.Slug, &category.Description); err != nil {
			return nil, err
		}
		result = append(result, category)
	}
	return result, rows.Err()
}

func (r *blogRepository) CreateCategory(ctx context.Context, category *domain.BlogCategory) error {
	const query = `
        INSERT INTO blog_categories (name, slug, description)
        VALUES ($1,$2,$3)
        RETURNING id`
	return conn(ctx, r.pool).QueryRow(ctx, query, category.Name, category.Slug, category.Description).Scan(&category.ID)
}

func scanPost(row pgx.Row) (*domain.BlogPost, error) {
	var post domain.BlogPost
	if err := row.Scan(
		&post.ID,
		&post.Title,
		&post.Slug,
		&post.Content,
		&post.Excerpt,
		&post.AuthorID,
		&post.AuthorName,
		&post.Status,
		&post.Category,
		&post.Tags,
		&post.MetaDescription,
		&post.FeaturedImage,
		&post.PublishedAt,
		&post.CreatedAt,
		&post.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &post, nil
}
