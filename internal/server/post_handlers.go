package server

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/sunil-gumatimath/wave-length/internal/blog"
	"github.com/sunil-gumatimath/wave-length/internal/models"
	"github.com/sunil-gumatimath/wave-length/internal/repository"
)

// GetPosts handles GET /api/posts
func (s *Server) GetPosts(c *fiber.Ctx) error {
	posts, err := s.postService.ListPosts(c.UserContext())
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(posts)
}

// SearchPosts handles GET /api/posts/search?q=...
func (s *Server) SearchPosts(c *fiber.Ctx) error {
	posts, err := s.postService.SearchPosts(c.UserContext(), c.Query("q"))
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(posts)
}

// GetPostBySlug handles GET /api/posts/slug/:slug
func (s *Server) GetPostBySlug(c *fiber.Ctx) error {
	post, err := s.postService.GetPostBySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(post)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	post, err := s.postService.GetPost(c.UserContext(), id)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(post)
}

// GetRelatedPosts handles GET /api/posts/:id/related?limit=3
func (s *Server) GetRelatedPosts(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	limit := c.QueryInt("limit", blog.DefaultRelatedLimit)
	if limit > 20 {
		limit = 20
	}
	posts, err := s.postService.RelatedPosts(c.UserContext(), id, limit)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(posts)
}

// AdminGetPosts handles GET /api/admin/posts, drafts included.
func (s *Server) AdminGetPosts(c *fiber.Ctx) error {
	posts, err := s.postService.AdminListPosts(c.UserContext())
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(posts)
}

type createPostRequest struct {
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Excerpt     *string    `json:"excerpt"`
	Content     string     `json:"content"`
	CoverImage  *string    `json:"coverImage"`
	AuthorID    uint       `json:"authorId"`
	PublishedAt *time.Time `json:"publishedAt"`
	CategoryIDs []uint     `json:"categoryIds"`
}

// CreatePost handles POST /api/admin/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req createPostRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	post, err := s.postService.CreatePost(c.UserContext(), repository.CreatePostInput{
		Title:       req.Title,
		Slug:        req.Slug,
		Excerpt:     req.Excerpt,
		Content:     req.Content,
		CoverImage:  req.CoverImage,
		AuthorID:    req.AuthorID,
		PublishedAt: req.PublishedAt,
		CategoryIDs: req.CategoryIDs,
	})
	if err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

type updatePostRequest struct {
	Title       *string    `json:"title"`
	Slug        *string    `json:"slug"`
	Excerpt     *string    `json:"excerpt"`
	Content     *string    `json:"content"`
	CoverImage  *string    `json:"coverImage"`
	AuthorID    *uint      `json:"authorId"`
	PublishedAt *time.Time `json:"publishedAt"`
	Unpublish   bool       `json:"unpublish"`
	CategoryIDs *[]uint    `json:"categoryIds"`
}

// UpdatePost handles PUT /api/admin/posts/:id. Absent fields are left unchanged.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req updatePostRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	post, err := s.postService.UpdatePost(c.UserContext(), id, repository.PostPatch{
		Title:       req.Title,
		Slug:        req.Slug,
		Excerpt:     req.Excerpt,
		Content:     req.Content,
		CoverImage:  req.CoverImage,
		AuthorID:    req.AuthorID,
		PublishedAt: req.PublishedAt,
		Unpublish:   req.Unpublish,
		CategoryIDs: req.CategoryIDs,
	})
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/admin/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.postService.DeletePost(c.UserContext(), id); err != nil {
		return respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SuggestSlug handles GET /api/admin/slug?title=...
func (s *Server) SuggestSlug(c *fiber.Ctx) error {
	title := c.Query("title")
	if title == "" {
		return respond(c, models.NewValidationError("title", "title is required"))
	}
	return c.JSON(fiber.Map{"slug": s.postService.SuggestSlug(title)})
}
