package middleware

import (
	"learnhub/apperror"
	"learnhub/services/auth"

	"github.com/gofiber/fiber/v2"
)

// AdminOnly must run after JWTMiddleware. It lets only the configured admin through.
func AdminOnly(c *fiber.Ctx) error {
	switch Principal(c).(type) {
	case auth.Admin:
		return c.Next()
	case nil:
		return apperror.Auth("Please login to continue")
	default:
		return apperror.Forbidden("Access denied! Admin only.")
	}
}
