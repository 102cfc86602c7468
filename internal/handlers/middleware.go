package handlers

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
	"github.com/uipafrica/evaluation-backend/internal/config"
	"github.com/uipafrica/evaluation-backend/utils"
	"golang.org/x/crypto/bcrypt"
)

// AdminAuth gates the admin routes behind the shared password, supplied in
// the X-Admin-Password header. With ADMIN_PASSWORD_HASH configured the check
// is a bcrypt compare; otherwise a constant-time compare against the plain
// configured password.
func AdminAuth(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		password := c.Get("X-Admin-Password")
		if password == "" {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Admin password required")
		}

		if cfg.AdminPasswordHash != "" {
			if err := bcrypt.CompareHashAndPassword([]byte(cfg.AdminPasswordHash), []byte(password)); err != nil {
				return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid admin password")
			}
			return c.Next()
		}

		if subtle.ConstantTimeCompare([]byte(password), []byte(cfg.AdminPassword)) != 1 {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid admin password")
		}
		return c.Next()
	}
}
