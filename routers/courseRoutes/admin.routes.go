package courseRoutes

import (
	controllers "learnhub/controllers/course"
	"learnhub/middleware"
	"learnhub/services/auth"
	validators "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminRoutes sets up the admin dashboard routes
func SetupAdminRoutes(router fiber.Router, ctrl *controllers.AdminController, tokens *auth.TokenManager) {
	adminGroup := router.Group("/admin")
	jwt := middleware.JWTMiddleware(tokens)

	adminGroup.Get("/dashboard/stats", jwt, middleware.AdminOnly, ctrl.AdminDashboardStats)
	adminGroup.Get("/courses/:id/enrollments", jwt, middleware.AdminOnly, validators.GetCourseEnrollments(), ctrl.AdminGetCourseEnrollments)
	adminGroup.Post("/progress/reconcile", jwt, middleware.AdminOnly, ctrl.AdminReconcileProgress)
}
