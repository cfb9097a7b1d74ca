package domain

import (
	"regexp"
	"strings"
	"time"
)

// PostStatus is the publication state of a blog post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
	PostStatusArchived  PostStatus = "archived"
)

// Valid reports whether s is a known status.
func (s PostStatus) Valid() bool {
	switch s {
	case PostStatusDraft, PostStatusPublished, PostStatusArchived:
		return true
	}
	return false
}

// BlogPost is an article on the public site.
type BlogPost struct {
	ID              string
	Title           string
	Slug            string
	Content         string
	Excerpt         *string
	AuthorID        string
	AuthorName      string
	Status          PostStatus
	Category        *string
	Tags            []string
	MetaDescription *string
	FeaturedImage   *string
	PublishedAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// BlogCategory groups posts.
type BlogCategory struct {
	ID          string
	Name        string
	Slug        string
	Description *string
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases title and collapses anything outside [a-z0-9] to single dashes.
func Slugify(title string) string {
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}
