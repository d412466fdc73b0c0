package server

import (
	"log/slog"

	"quill/internal/middleware"
	"quill/internal/models"
	"quill/internal/service"

	"github.com/gofiber/fiber/v2"
)

type postRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// GetPosts handles GET /posts. An optional q parameter switches the listing
// to a case-insensitive search over title, content and author name.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)

	posts, err := s.postService.ListPosts(c.UserContext(), service.ListPostsInput{
		Query:  c.Query("q"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(posts)
}

// GetPost handles GET /posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseUUID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(post)
}

// CreatePost handles POST /posts. Only admins reach this handler; the author
// snapshot is taken from the requester's own record.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	claims := s.claims(c)
	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		AuthorID: claims.UserID,
		Title:    req.Title,
		Content:  req.Content,
	})
	if err != nil {
		return fail(c, err)
	}

	middleware.Logger.InfoContext(c.UserContext(), "post created",
		slog.String("post_id", post.ID.String()))

	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost handles PUT /posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := s.parseUUID(c, "id")
	if err != nil {
		return nil
	}

	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.UpdatePost(c.UserContext(), service.UpdatePostInput{
		PostID:  id,
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /posts/:id. The post's comments go with it.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseUUID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.UserContext(), id); err != nil {
		return fail(c, err)
	}

	middleware.Logger.InfoContext(c.UserContext(), "post deleted",
		slog.String("post_id", id.String()))

	return c.JSON(fiber.Map{"success": true})
}
