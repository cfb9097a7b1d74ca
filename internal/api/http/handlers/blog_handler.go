package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/homecare-api/internal/api/dto"
	"github.com/spec-kit/homecare-api/internal/domain"
	"github.com/spec-kit/homecare-api/internal/service"
)

// BlogHandler serves the public blog and its admin editor.
type BlogHandler struct {
	service *service.BlogService
}

// NewBlogHandler constructs handler.
func NewBlogHandler(blogService *service.BlogService) *BlogHandler {
	return &BlogHandler{service: blogService}
}

// ListPublished GET /api/blog/posts.
func (h *BlogHandler) ListPublished(c *fiber.Ctx) error {
	page, err := h.service.ListPublished(c.UserContext(),
		parseIntQuery(c, "page", 1), parseIntQuery(c, "limit", 0), optionalQuery(c, "category"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewPostPage(page))
}

// GetPublished GET /api/blog/posts/:slug.
func (h *BlogHandler) GetPublished(c *fiber.Ctx) error {
	post, err := h.service.GetPublished(c.UserContext(), c.Params("slug"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewPost(post))
}

// ListCategories GET /api/blog/categories.
func (h *BlogHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.service.ListCategories(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewCategories(categories))
}

// ListAll GET /api/admin/blog/posts.
func (h *BlogHandler) ListAll(c *fiber.Ctx) error {
	var status *domain.PostStatus
	if v := optionalQuery(c, "status"); v != nil {
		s := domain.PostStatus(*v)
		status = &s
	}
	page, err := h.service.ListAll(c.UserContext(), status, parseIntQuery(c, "page", 1), parseIntQuery(c, "limit", 0))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewPostPage(page))
}

// Create POST /api/admin/blog/posts.
func (h *BlogHandler) Create(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	input, err := postInput(c)
	if err != nil {
		return err
	}
	post, err := h.service.CreatePost(c.UserContext(), identity.SubjectID, input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewPost(post))
}

// Update PUT /api/admin/blog/posts/:id.
func (h *BlogHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	input, err := postInput(c)
	if err != nil {
		return err
	}
	post, err := h.service.UpdatePost(c.UserContext(), id, input)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewPost(post))
}

// Delete DELETE /api/admin/blog/posts/:id.
func (h *BlogHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeletePost(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateCategory POST /api/admin/blog/categories.
func (h *BlogHandler) CreateCategory(c *fiber.Ctx) error {
	var req dto.CategoryRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	category, err := h.service.CreateCategory(c.UserContext(), req.Name, req.Description)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewCategories([]domain.BlogCategory{*category})[0])
}

func postInput(c *fiber.Ctx) (service.PostInput, error) {
	var req dto.PostRequest
	if err := bindJSON(c, &req); err != nil {
		return service.PostInput{}, err
	}
	return service.PostInput{
		Title:           req.Title,
		Slug:            req.Slug,
		Content:         req.Content,
		Excerpt:         req.Excerpt,
		Status:          domain.PostStatus(req.Status),
		Category:        req.Category,
		Tags:            req.Tags,
		MetaDescription: req.MetaDescription,
		FeaturedImage:   req.FeaturedImage,
	}, nil
}
