package courseRoutes

import (
	controllers "learnhub/controllers/course"
	"learnhub/middleware"
	"learnhub/services/auth"
	validators "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all user-facing course routes
func SetupCourseRoutes(router fiber.Router, ctrl *controllers.CourseController, tokens *auth.TokenManager) {
	courseGroup := router.Group("/courses")
	jwt := middleware.JWTMiddleware(tokens)

	// Catalog (public)
	courseGroup.Get("/", validators.CourseList(), ctrl.GetAllCourses)
	courseGroup.Get("/categories", ctrl.GetCategories)

	// Registered before /:id so "my" is not read as a course id
	courseGroup.Get("/my/courses", jwt, ctrl.GetMyCourses)
	courseGroup.Post("/enroll", jwt, validators.EnrollCourse(), ctrl.EnrollInCourse)
	courseGroup.Post("/rate", jwt, validators.Rate(), ctrl.Rate)

	courseGroup.Get("/:id", validators.CourseID(), ctrl.GetCourseDetails)
	courseGroup.Get("/:id/reviews", validators.CourseID(), ctrl.GetReviews)
	courseGroup.Post("/:id/reviews", jwt, validators.SubmitReview(), ctrl.SubmitReview)
}
