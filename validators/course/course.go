package courseValidator

import (
	"strings"

	"learnhub/middleware"
	"learnhub/validators"

	"github.com/gofiber/fiber/v2"
)

type CourseListQuery struct {
	Category uint   `query:"category"`
	Level    string `query:"level" validate:"omitempty,oneof=A1 A2 B1 B2 C1 C2"`
	Search   string `query:"search" validate:"max=100"`
}

type ReviewRequest struct {
	CourseID uint   `json:"courseId"`
	Rating   int    `json:"rating" validate:"required,min=1,max=5"`
	Comment  string `json:"comment" validate:"max=2000"`
}

func CourseList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CourseListQuery)
		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		reqData.Level = strings.ToUpper(strings.TrimSpace(reqData.Level))
		reqData.Search = strings.TrimSpace(reqData.Search)

		if errors := validators.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourseList", reqData)
		return c.Next()
	}
}

// CourseID validates the :id route parameter.
func CourseID() fiber.Handler {
	return validators.IDParam("id", "Course ID", "courseID")
}

// SubmitReview validates POST /courses/:id/reviews. The comment is required.
func SubmitReview() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok, err := validators.ParamID(c, "id", "Course ID")
		if !ok {
			return err
		}

		reqData := new(ReviewRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.CourseID = courseID
		reqData.Comment = strings.TrimSpace(reqData.Comment)

		errors := validators.Struct(reqData)
		if errors == nil {
			errors = make(map[string]string)
		}
		if reqData.Comment == "" {
			errors["comment"] = "comment is required!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedReview", reqData)
		return c.Next()
	}
}

// Rate validates POST /courses/rate, which carries the course id in the body
// and makes the comment optional.
func Rate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ReviewRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.Comment = strings.TrimSpace(reqData.Comment)

		errors := validators.Struct(reqData)
		if errors == nil {
			errors = make(map[string]string)
		}
		if reqData.CourseID == 0 {
			errors["courseId"] = "courseId is required!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedReview", reqData)
		return c.Next()
	}
}
