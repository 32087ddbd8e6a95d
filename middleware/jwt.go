package middleware

import (
	"strings"

	"learnhub/apperror"
	"learnhub/services/auth"

	"github.com/gofiber/fiber/v2"
)

const principalKey = "principal"

// JWTMiddleware rejects requests without a valid bearer token and stores the
// caller's principal in the request context.
func JWTMiddleware(tokens *auth.TokenManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return apperror.Auth("Please login to continue")
		}

		// The token should be prefixed with "Bearer "
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return apperror.Auth("Invalid Authorization header format")
		}

		p, err := tokens.Parse(strings.TrimSpace(authHeader[len("Bearer "):]))
		if err != nil {
			return err
		}

		setPrincipal(c, p)
		return c.Next()
	}
}

// OptionalJWTMiddleware attaches the principal when a valid token is present
// and lets anonymous or badly authenticated requests through unchanged.
func OptionalJWTMiddleware(tokens *auth.TokenManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			if p, err := tokens.Parse(strings.TrimSpace(authHeader[len("Bearer "):])); err == nil {
				setPrincipal(c, p)
			}
		}
		return c.Next()
	}
}

func setPrincipal(c *fiber.Ctx, p auth.Principal) {
	c.Locals(principalKey, p)
	if id, ok := auth.LearnerID(p); ok {
		c.Locals("userId", id)
	}
}

// Principal returns the authenticated caller, or nil for anonymous requests.
func Principal(c *fiber.Ctx) auth.Principal {
	p, _ := c.Locals(principalKey).(auth.Principal)
	return p
}

// LearnerID returns the learner id of the caller. Admin and anonymous
// callers get an AuthorizationError.
func LearnerID(c *fiber.Ctx) (uint, error) {
	switch p := Principal(c).(type) {
	case auth.Learner:
		return p.UserID, nil
	case auth.Admin:
		return 0, apperror.Forbidden("This action is only available to learners")
	default:
		return 0, apperror.Auth("Please login to continue")
	}
}
