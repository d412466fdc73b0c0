package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /users/me. The identity comes from the verified
// token; the record itself is fetched live so a deleted account gets a 404
// even while its token is still valid.
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	claims := s.claims(c)

	user, err := s.userService.GetUserByID(c.UserContext(), claims.UserID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(user)
}
