package quizValidator

import (
	"fmt"

	"learnhub/middleware"
	"learnhub/validators"

	"github.com/gofiber/fiber/v2"
)

type SubmittedAnswer struct {
	QuestionID uint `json:"questionId" validate:"required"`
	AnswerID   uint `json:"answerId" validate:"required"`
}

type SubmitQuizRequest struct {
	QuizID    uint              `json:"quizId" validate:"required"`
	Answers   []SubmittedAnswer `json:"answers" validate:"dive"`
	TimeSpent int               `json:"timeSpent" validate:"min=0"`
}

// AnswerMap returns question id -> chosen answer id.
func (r *SubmitQuizRequest) AnswerMap() map[uint]uint {
	out := make(map[uint]uint, len(r.Answers))
	for _, a := range r.Answers {
		out[a.QuestionID] = a.AnswerID
	}
	return out
}

// QuizID validates the :id route parameter of quiz routes.
func QuizID() fiber.Handler {
	return validators.IDParam("id", "Quiz ID", "quizID")
}

func CourseID() fiber.Handler {
	return validators.IDParam("courseId", "Course ID", "courseID")
}

// AttemptID validates GET /quiz/result/:id.
func AttemptID() fiber.Handler {
	return validators.IDParam("id", "Attempt ID", "attemptID")
}

func SubmitQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(SubmitQuizRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := validators.Struct(reqData)
		if errors == nil {
			errors = make(map[string]string)
		}
		seen := make(map[uint]bool, len(reqData.Answers))
		for i, a := range reqData.Answers {
			if a.QuestionID != 0 && seen[a.QuestionID] {
				errors[fmt.Sprintf("answers[%d]", i)] = "Question answered more than once!"
			}
			seen[a.QuestionID] = true
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedQuizSubmit", reqData)
		return c.Next()
	}
}
