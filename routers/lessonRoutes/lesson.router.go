package lessonRoutes

import (
	controllers "learnhub/controllers/course"
	"learnhub/middleware"
	"learnhub/services/auth"
	validators "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
)

func SetupLessonRoutes(router fiber.Router, ctrl *controllers.LessonController, tokens *auth.TokenManager) {
	lessonGroup := router.Group("/lessons")
	jwt := middleware.JWTMiddleware(tokens)
	optionalJWT := middleware.OptionalJWTMiddleware(tokens)

	lessonGroup.Get("/course/:courseId", optionalJWT, validators.LessonCourseID(), ctrl.GetCourseLessons)
	lessonGroup.Get("/:id", optionalJWT, validators.LessonID(), ctrl.GetLesson)

	lessonGroup.Post("/:id/start", jwt, validators.LessonID(), ctrl.StartLesson)
	lessonGroup.Post("/:id/complete", jwt, validators.MarkLessonComplete(), ctrl.MarkLessonComplete)
	lessonGroup.Post("/:id/notes", jwt, validators.SaveLessonNotes(), ctrl.SaveNotes)

	// Legacy forms with the lesson id in the body
	lessonGroup.Post("/start", jwt, validators.LessonFromBody(), ctrl.StartLesson)
	lessonGroup.Post("/complete", jwt, validators.LessonFromBody(), ctrl.MarkLessonComplete)
}
