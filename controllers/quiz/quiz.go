package quizController

import (
	"learnhub/middleware"
	"learnhub/services/quiz"
	quizValidator "learnhub/validators/quiz"

	"github.com/gofiber/fiber/v2"
)

type QuizController struct {
	engine *quiz.Engine
}

func NewQuizController(engine *quiz.Engine) *QuizController {
	return &QuizController{engine: engine}
}

func (h *QuizController) GetCourseQuizzes(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)

	quizzes, err := h.engine.ByCourse(c.UserContext(), middleware.Principal(c), courseID)
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quizzes fetched successfully!", quizzes)
}

func (h *QuizController) GetQuizInfo(c *fiber.Ctx) error {
	quizID := c.Locals("quizID").(uint)

	info, err := h.engine.Info(c.UserContext(), middleware.Principal(c), quizID)
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz info fetched successfully!", info)
}

// StartQuiz returns the question paper without the correct answers.
func (h *QuizController) StartQuiz(c *fiber.Ctx) error {
	quizID := c.Locals("quizID").(uint)

	paper, err := h.engine.Start(c.UserContext(), middleware.Principal(c), quizID)
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz started!", paper)
}

func (h *QuizController) SubmitQuiz(c *fiber.Ctx) error {
	reqData := c.Locals("validatedQuizSubmit").(*quizValidator.SubmitQuizRequest)

	result, err := h.engine.Submit(c.UserContext(), middleware.Principal(c), quiz.SubmitInput{
		QuizID:           reqData.QuizID,
		Answers:          reqData.AnswerMap(),
		TimeSpentSeconds: reqData.TimeSpent,
	})
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Quiz submitted successfully!", result)
}

func (h *QuizController) GetResult(c *fiber.Ctx) error {
	attemptID := c.Locals("attemptID").(uint)

	result, err := h.engine.Result(c.UserContext(), middleware.Principal(c), attemptID)
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz result fetched successfully!", result)
}

// GetAnswers reveals the correct answers once the caller has attempted the quiz.
func (h *QuizController) GetAnswers(c *fiber.Ctx) error {
	quizID := c.Locals("quizID").(uint)

	questions, err := h.engine.Answers(c.UserContext(), middleware.Principal(c), quizID)
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz answers fetched successfully!", questions)
}
