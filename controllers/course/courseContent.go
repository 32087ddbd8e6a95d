package controllers

import (
	"learnhub/middleware"
	"learnhub/services/progress"
	courseValidator "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
)

// LessonController serves lesson content and the learner's progress on it.
type LessonController struct {
	tracker *progress.Tracker
}

func NewLessonController(tracker *progress.Tracker) *LessonController {
	return &LessonController{tracker: tracker}
}

func (h *LessonController) GetCourseLessons(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)

	lessons, err := h.tracker.LessonsByCourse(c.UserContext(), middleware.Principal(c), courseID)
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lessons fetched successfully!", lessons)
}

// GetLesson works anonymously; an enrolled learner also gets the lesson
// started and their progress attached.
func (h *LessonController) GetLesson(c *fiber.Ctx) error {
	lessonID := c.Locals("lessonID").(uint)

	lesson, err := h.tracker.Lesson(c.UserContext(), middleware.Principal(c), lessonID)
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson fetched successfully!", lesson)
}

func (h *LessonController) StartLesson(c *fiber.Ctx) error {
	userID, err := middleware.LearnerID(c)
	if err != nil {
		return err
	}
	lessonID := c.Locals("lessonID").(uint)

	row, err := h.tracker.StartLesson(c.UserContext(), userID, lessonID)
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson started!", row)
}

func (h *LessonController) MarkLessonComplete(c *fiber.Ctx) error {
	userID, err := middleware.LearnerID(c)
	if err != nil {
		return err
	}
	lessonID := c.Locals("lessonID").(uint)
	reqData := c.Locals("validatedLessonComplete").(*courseValidator.CompleteLessonRequest)

	completion, err := h.tracker.CompleteLesson(c.UserContext(), userID, lessonID, reqData.TimeSpent)
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson completed!", completion)
}

func (h *LessonController) SaveNotes(c *fiber.Ctx) error {
	userID, err := middleware.LearnerID(c)
	if err != nil {
		return err
	}
	lessonID := c.Locals("lessonID").(uint)
	reqData := c.Locals("validatedLessonNotes").(*courseValidator.LessonNotesRequest)

	if err := h.tracker.SaveNotes(c.UserContext(), userID, lessonID, reqData.Notes); err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Notes saved!", nil)
}
