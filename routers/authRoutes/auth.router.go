package authRoutes

import (
	authControllers "learnhub/controllers/auth"
	"learnhub/middleware"
	"learnhub/services/auth"
	authValidators "learnhub/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(router fiber.Router, ctrl *authControllers.AuthController, tokens *auth.TokenManager) {
	authGroup := router.Group("/auth")
	jwt := middleware.JWTMiddleware(tokens)

	authGroup.Post("/register", authValidators.Register(), ctrl.Register)
	authGroup.Post("/login", authValidators.Login(), ctrl.Login)
	authGroup.Get("/profile", jwt, ctrl.Profile)
	authGroup.Put("/change-password", jwt, authValidators.ChangePassword(), ctrl.ChangePassword)
}
