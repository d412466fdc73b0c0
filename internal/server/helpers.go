package server

import (
	"errors"
	"strconv"

	"quill/internal/middleware"
	"quill/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// errResponseWritten signals that a handler already wrote the error response
// and the caller should stop without writing again.
var errResponseWritten = errors.New("response written")

// claims returns the verified token claims stored by AuthRequired, or nil on
// an unauthenticated route.
func (s *Server) claims(c *fiber.Ctx) *middleware.Claims {
	claims, _ := c.Locals("claims").(*middleware.Claims)
	return claims
}

// parseUUID reads a path parameter as a UUID. On failure it writes a 400
// response and returns errResponseWritten; the handler should return nil.
func (s *Server) parseUUID(c *fiber.Ctx, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(param))
	if err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid id"))
		return uuid.Nil, errResponseWritten
	}
	return id, nil
}

// statusForError maps the error taxonomy onto HTTP status codes. Anything
// outside the taxonomy is a 500.
func statusForError(err error) int {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case models.CodeValidation, models.CodeConflict:
			return fiber.StatusBadRequest
		case models.CodeUnauthenticated:
			return fiber.StatusUnauthorized
		case models.CodeForbidden:
			return fiber.StatusForbidden
		case models.CodeNotFound:
			return fiber.StatusNotFound
		}
	}
	return fiber.StatusInternalServerError
}

// fail writes the error response with the status derived from the error.
func fail(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, statusForError(err), err)
}

// parsePagination reads limit/offset query parameters with sane bounds.
func parsePagination(c *fiber.Ctx) (limit, offset int) {
	limit = 50
	offset = 0
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	if v, err := strconv.Atoi(c.Query("offset")); err == nil && v >= 0 {
		offset = v
	}
	return limit, offset
}
