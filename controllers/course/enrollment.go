package controllers

import (
	"context"

	"learnhub/middleware"
	"learnhub/services/catalog"
	courseValidator "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
)

func (h *CourseController) EnrollInCourse(c *fiber.Ctx) error {
	userID, err := middleware.LearnerID(c)
	if err != nil {
		return err
	}
	courseID := c.Locals("courseID").(uint)

	enrollment, err := h.catalog.Enroll(c.UserContext(), userID, courseID)
	if err != nil {
		return err
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Enrolled in course successfully!", enrollment)
}

func (h *CourseController) GetMyCourses(c *fiber.Ctx) error {
	userID, err := middleware.LearnerID(c)
	if err != nil {
		return err
	}

	courses, err := h.catalog.MyCourses(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", courses)
}

func (h *CourseController) SubmitReview(c *fiber.Ctx) error {
	return h.review(c, h.catalog.SubmitReview)
}

// Rate is the legacy rating endpoint; the comment is optional there.
func (h *CourseController) Rate(c *fiber.Ctx) error {
	return h.review(c, h.catalog.Rate)
}

type reviewFunc func(ctx context.Context, userID uint, in catalog.ReviewInput) (*catalog.ReviewResult, error)

func (h *CourseController) review(c *fiber.Ctx, submit reviewFunc) error {
	userID, err := middleware.LearnerID(c)
	if err != nil {
		return err
	}
	reqData := c.Locals("validatedReview").(*courseValidator.ReviewRequest)

	result, err := submit(c.UserContext(), userID, catalog.ReviewInput{
		CourseID: reqData.CourseID,
		Rating:   reqData.Rating,
		Comment:  reqData.Comment,
	})
	if err != nil {
		return err
	}

	if result.Updated {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Review updated successfully!", result)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Review submitted successfully!", result)
}
