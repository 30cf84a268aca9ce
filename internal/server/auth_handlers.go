package server

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/sunil-gumatimath/wave-length/internal/middleware"
)

// Login handles POST /api/admin/login
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	token, err := s.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		middleware.Logger.WarnContext(c.UserContext(), "admin login rejected", slog.String("ip", c.IP()))
		return respond(c, err)
	}
	return c.JSON(fiber.Map{"token": token})
}

// GetFeatureFlags handles GET /api/admin/feature-flags
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"flags": s.flags.Snapshot(c.IP()),
	})
}
