package dto

import (
	"time"

	"github.com/spec-kit/homecare-api/internal/domain"
	"github.com/spec-kit/homecare-api/internal/service"
)

// CareRequestRequest is the public intake form.
type CareRequestRequest struct {
	FirstName          string  `json:"first_name" validate:"required,max=100"`
	LastName           string  `json:"last_name" validate:"required,max=100"`
	Email              string  `json:"email" validate:"required,email"`
	Phone              string  `json:"phone" validate:"required,max=40"`
	CareType           string  `json:"care_type" validate:"required,max=100"`
	PreferredStartDate *string `json:"preferred_start_date" validate:"omitempty,date"`
	Frequency          *string `json:"frequency" validate:"omitempty,max=100"`
	Message            *string `json:"message" validate:"omitempty,max=5000"`
}

// CareRequest response.
type CareRequest struct {
	ID                 string                   `json:"id"`
	FirstName          string                   `json:"first_name"`
	LastName           string                   `json:"last_name"`
	Email              string                   `json:"email"`
	Phone              string                   `json:"phone"`
	CareType           string                   `json:"care_type"`
	PreferredStartDate *string                  `json:"preferred_start_date"`
	Frequency          *string                  `json:"frequency"`
	Message            *string                  `json:"message"`
	Status             domain.CareRequestStatus `json:"status"`
	CreatedAt          time.Time                `json:"created_at"`
	UpdatedAt          time.Time                `json:"updated_at"`
}

// NewCareRequest maps a domain request.
func NewCareRequest(r *domain.CareRequest) CareRequest {
	return CareRequest{
		ID:                 r.ID,
		FirstName:          r.FirstName,
		LastName:           r.LastName,
		Email:              r.Email,
		Phone:              r.Phone,
		CareType:           r.CareType,
		PreferredStartDate: formatDate(r.PreferredStartDate),
		Frequency:          r.Frequency,
		Message:            r.Message,
		Status:             r.Status,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

// NewCareRequests maps a slice, never returning nil.
func NewCareRequests(requests []domain.CareRequest) []CareRequest {
	out := make([]CareRequest, 0, len(requests))
	for i := range requests {
		out = append(out, NewCareRequest(&requests[i]))
	}
	return out
}

// PositionRequest payload.
type PositionRequest struct {
	Title          string   `json:"title" validate:"required,max=200"`
	Department     *string  `json:"department" validate:"omitempty,max=100"`
	EmploymentType string   `json:"employment_type" validate:"required,max=50"`
	Location       *string  `json:"location" validate:"omitempty,max=200"`
	Salary         *string  `json:"salary" validate:"omitempty,max=100"`
	Description    string   `json:"description" validate:"required"`
	Requirements   []string `json:"requirements"`
	Benefits       []string `json:"benefits"`
	IsActive       *bool    `json:"is_active"`
}

// Position response.
type Position struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Department     *string   `json:"department"`
	EmploymentType string    `json:"employment_type"`
	Location       *string   `json:"location"`
	Salary         *string   `json:"salary"`
	Description    string    `json:"description"`
	Requirements   []string  `json:"requirements"`
	Benefits       []string  `json:"benefits"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewPosition maps a domain position.
func NewPosition(p *domain.JobPosition) Position {
	return Position{
		ID:             p.ID,
		Title:          p.Title,
		Department:     p.Department,
		EmploymentType: p.EmploymentType,
		Location:       p.Location,
		Salary:         p.Salary,
		Description:    p.Description,
		Requirements:   nonNil(p.Requirements),
		Benefits:       nonNil(p.Benefits),
		IsActive:       p.IsActive,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// NewPositions maps a slice, never returning nil.
func NewPositions(positions []domain.JobPosition) []Position {
	out := make([]Position, 0, len(positions))
	for i := range positions {
		out = append(out, NewPosition(&positions[i]))
	}
	return out
}

// ApplicationForm holds the text fields of a multipart application.
type ApplicationForm struct {
	PositionID  string  `form:"position_id" validate:"required,uuid"`
	FirstName   string  `form:"first_name" validate:"required,max=100"`
	LastName    string  `form:"last_name" validate:"required,max=100"`
	Email       string  `form:"email" validate:"required,email"`
	Phone       *string `form:"phone" validate:"omitempty,max=40"`
	CoverLetter *string `form:"cover_letter" validate:"omitempty,max=10000"`
}

// Application response.
type Application struct {
	ID            string                   `json:"id"`
	PositionID    string                   `json:"position_id"`
	PositionTitle string                   `json:"position_title,omitempty"`
	FirstName     string                   `json:"first_name"`
	LastName      string                   `json:"last_name"`
	Email         string                   `json:"email"`
	Phone         *string                  `json:"phone"`
	CoverLetter   *string                  `json:"cover_letter"`
	ResumeURL     *string                  `json:"resume_url,omitempty"`
	Status        domain.ApplicationStatus `json:"status"`
	CreatedAt     time.Time                `json:"created_at"`
}

// NewApplication maps an application without a resume link.
func NewApplication(a *domain.JobApplication) Application {
	return Application{
		ID:            a.ID,
		PositionID:    a.PositionID,
		PositionTitle: a.PositionTitle,
		FirstName:     a.FirstName,
		LastName:      a.LastName,
		Email:         a.Email,
		Phone:         a.Phone,
		CoverLetter:   a.CoverLetter,
		Status:        a.Status,
		CreatedAt:     a.CreatedAt,
	}
}

// NewApplicationViews maps presigned views, never returning nil.
func NewApplicationViews(views []service.ApplicationView) []Application {
	out := make([]Application, 0, len(views))
	for i := range views {
		app := NewApplication(&views[i].JobApplication)
		app.ResumeURL = views[i].ResumeURL
		out = append(out, app)
	}
	return out
}

// PostRequest payload.
type PostRequest struct {
	Title           string   `json:"title" validate:"required,max=300"`
	Slug            string   `json:"slug" validate:"omitempty,max=300"`
	Content         string   `json:"content"`
	Excerpt         *string  `json:"excerpt" validate:"omitempty,max=1000"`
	Status          string   `json:"status" validate:"omitempty,oneof=draft published archived"`
	Category        *string  `json:"category" validate:"omitempty,max=100"`
	Tags            []string `json:"tags"`
	MetaDescription *string  `json:"meta_description" validate:"omitempty,max=300"`
	FeaturedImage   *string  `json:"featured_image" validate:"omitempty,url"`
}

// CategoryRequest payload.
type CategoryRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

// Post response.
type Post struct {
	ID              string            `json:"id"`
	Title           string            `json:"title"`
	Slug            string            `json:"slug"`
	Content         string            `json:"content"`
	Excerpt         *string           `json:"excerpt"`
	AuthorID        string            `json:"author_id"`
	AuthorName      string            `json:"author_name,omitempty"`
	Status          domain.PostStatus `json:"status"`
	Category        *string           `json:"category"`
	Tags            []string          `json:"tags"`
	MetaDescription *string           `json:"meta_description"`
	FeaturedImage   *string           `json:"featured_image"`
	PublishedAt     *time.Time        `json:"published_at"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// NewPost maps a domain post.
func NewPost(p *domain.BlogPost) Post {
	return Post{
		ID:              p.ID,
		Title:           p.Title,
		Slug:            p.Slug,
		Content:         p.Content,
		Excerpt:         p.Excerpt,
		AuthorID:        p.AuthorID,
		AuthorName:      p.AuthorName,
		Status:          p.Status,
		Category:        p.Category,
		Tags:            nonNil(p.Tags),
		MetaDescription: p.MetaDescription,
		FeaturedImage:   p.FeaturedImage,
		PublishedAt:     p.PublishedAt,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

// PostPage is a paginated post listing.
type PostPage struct {
	Posts      []Post `json:"posts"`
	Total      int    `json:"total"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	TotalPages int    `json:"total_pages"`
}

// NewPostPage maps a service page.
func NewPostPage(page *service.PostPage) PostPage {
	posts := make([]Post, 0, len(page.Posts))
	for i := range page.Posts {
		posts = append(posts, NewPost(&page.Posts[i]))
	}
	return PostPage{Posts: posts, Total: page.Total, Page: page.Page, Limit: page.Limit, TotalPages: page.TotalPages}
}

// Category response.
type Category struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description *string `json:"description"`
}

// NewCategories maps categories, never returning nil.
func NewCategories(categories []domain.BlogCategory) []Category {
	out := make([]Category, 0, len(categories))
	for _, c := range categories {
		out = append(out, Category{ID: c.ID, Name: c.Name, Slug: c.Slug, Description: c.Description})
	}
	return out
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(domain.DateLayout)
	return &s
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
