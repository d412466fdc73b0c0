package server

import (
	"quill/internal/models"
	"quill/internal/service"

	"github.com/gofiber/fiber/v2"
)

type commentRequest struct {
	Content string `json:"content"`
}

// CreateComment handles POST /posts/:id/comments. Any authenticated user may
// comment; the author snapshot (id, name) is captured from the live record.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	postID, err := s.parseUUID(c, "id")
	if err != nil {
		return nil
	}

	var req commentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	claims := s.claims(c)
	comment, err := s.commentService.AddComment(c.UserContext(), service.AddCommentInput{
		RequesterID: claims.UserID,
		PostID:      postID,
		Content:     req.Content,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// DeleteComment handles DELETE /posts/:id/comments/:commentId. Authorization
// is decided in the service: comment author, post author or admin.
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	postID, err := s.parseUUID(c, "id")
	if err != nil {
		return nil
	}
	commentID, err := s.parseUUID(c, "commentId")
	if err != nil {
		return nil
	}

	claims := s.claims(c)
	if err := s.commentService.DeleteComment(c.UserContext(), service.DeleteCommentInput{
		RequesterID:   claims.UserID,
		RequesterRole: claims.Role,
		PostID:        postID,
		CommentID:     commentID,
	}); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}
