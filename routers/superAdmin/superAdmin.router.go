package superAdminRoutes

import (
	superAdminController "learnhub/controllers/superAdmin"
	"learnhub/middleware"
	"learnhub/services/auth"
	superAdminValidator "learnhub/validators/superAdmin"

	"github.com/gofiber/fiber/v2"
)

func SetupSuperAdminRoutes(router fiber.Router, ctrl *superAdminController.UserController, tokens *auth.TokenManager) {
	superAdminGroup := router.Group("/admin/users")

	superAdminGroup.Get("/", middleware.JWTMiddleware(tokens), middleware.AdminOnly, superAdminValidator.List(), ctrl.UserList)
}
