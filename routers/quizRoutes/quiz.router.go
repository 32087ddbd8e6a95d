package quizRoutes

import (
	quizControllers "learnhub/controllers/quiz"
	"learnhub/middleware"
	"learnhub/services/auth"
	quizValidators "learnhub/validators/quiz"

	"github.com/gofiber/fiber/v2"
)

func SetupQuizRoutes(router fiber.Router, ctrl *quizControllers.QuizController, tokens *auth.TokenManager) {
	quizGroup := router.Group("/quiz")
	jwt := middleware.JWTMiddleware(tokens)

	quizGroup.Get("/course/:courseId", jwt, quizValidators.CourseID(), ctrl.GetCourseQuizzes)
	quizGroup.Post("/submit", jwt, quizValidators.SubmitQuiz(), ctrl.SubmitQuiz)
	quizGroup.Get("/result/:id", jwt, quizValidators.AttemptID(), ctrl.GetResult)

	quizGroup.Get("/:id/info", jwt, quizValidators.QuizID(), ctrl.GetQuizInfo)
	quizGroup.Get("/:id/start", jwt, quizValidators.QuizID(), ctrl.StartQuiz)
	quizGroup.Get("/:id/answers", jwt, quizValidators.QuizID(), ctrl.GetAnswers)
}
