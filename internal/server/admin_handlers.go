package server

import (
	"log/slog"

	"quill/internal/middleware"
	"quill/internal/models"
	"quill/internal/service"

	"github.com/gofiber/fiber/v2"
)

// AdminListPosts handles GET /admin/posts
func (s *Server) AdminListPosts(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)

	posts, err := s.postService.ListPosts(c.UserContext(), service.ListPostsInput{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(posts)
}

// AdminDeletePost handles DELETE /admin/posts/:id
func (s *Server) AdminDeletePost(c *fiber.Ctx) error {
	id, err := s.parseUUID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.UserContext(), id); err != nil {
		return fail(c, err)
	}

	middleware.Logger.InfoContext(c.UserContext(), "post deleted by admin",
		slog.String("post_id", id.String()))

	return c.JSON(fiber.Map{"success": true})
}

// AdminListUsers handles GET /admin/users. The password hash is excluded at
// the query level.
func (s *Server) AdminListUsers(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)

	users, err := s.userService.ListUsers(c.UserContext(), limit, offset)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(users)
}

// PromoteAdmin handles POST /admin/users/:id/promote. At most one admin can
// exist; promoting while another admin holds the role is a conflict.
func (s *Server) PromoteAdmin(c *fiber.Ctx) error {
	id, err := s.parseUUID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userService.SetRole(c.UserContext(), id, models.RoleAdmin)
	if err != nil {
		return fail(c, err)
	}

	middleware.Logger.InfoContext(c.UserContext(), "user promoted to admin",
		slog.String("user_id", id.String()))

	return c.JSON(user)
}

// DemoteAdmin handles POST /admin/users/:id/demote
func (s *Server) DemoteAdmin(c *fiber.Ctx) error {
	id, err := s.parseUUID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userService.SetRole(c.UserContext(), id, models.RoleUser)
	if err != nil {
		return fail(c, err)
	}

	middleware.Logger.InfoContext(c.UserContext(), "admin demoted",
		slog.String("user_id", id.String()))

	return c.JSON(user)
}
