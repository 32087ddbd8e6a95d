package courseValidator

import (
	"learnhub/middleware"
	"learnhub/validators"

	"github.com/gofiber/fiber/v2"
)

type CompleteLessonRequest struct {
	TimeSpent int `json:"timeSpent" validate:"min=0"`
}

// LessonBodyRequest is the legacy form that carries the lesson id in the body.
type LessonBodyRequest struct {
	LessonID  uint `json:"lessonId" validate:"required"`
	TimeSpent int  `json:"timeSpent" validate:"min=0"`
}

type LessonNotesRequest struct {
	Notes string `json:"notes" validate:"max=10000"`
}

// LessonID validates the :id route parameter of lesson routes.
func LessonID() fiber.Handler {
	return validators.IDParam("id", "Lesson ID", "lessonID")
}

// LessonCourseID validates the :courseId route parameter.
func LessonCourseID() fiber.Handler {
	return validators.IDParam("courseId", "Course ID", "courseID")
}

func MarkLessonComplete() fiber.Handler {
	return func(c *fiber.Ctx) error {
		lessonID, ok, err := validators.ParamID(c, "id", "Lesson ID")
		if !ok {
			return err
		}

		reqData := new(CompleteLessonRequest)
		if len(c.Body()) > 0 {
			if err := c.BodyParser(reqData); err != nil {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
			}
		}

		if errors := validators.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("lessonID", lessonID)
		c.Locals("validatedLessonComplete", reqData)
		return c.Next()
	}
}

func SaveLessonNotes() fiber.Handler {
	return func(c *fiber.Ctx) error {
		lessonID, ok, err := validators.ParamID(c, "id", "Lesson ID")
		if !ok {
			return err
		}

		reqData := new(LessonNotesRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := validators.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("lessonID", lessonID)
		c.Locals("validatedLessonNotes", reqData)
		return c.Next()
	}
}

// LessonFromBody validates POST /lessons/start and POST /lessons/complete.
func LessonFromBody() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(LessonBodyRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := validators.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("lessonID", reqData.LessonID)
		c.Locals("validatedLessonComplete", &CompleteLessonRequest{TimeSpent: reqData.TimeSpent})
		return c.Next()
	}
}
