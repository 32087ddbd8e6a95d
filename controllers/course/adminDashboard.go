package controllers

import (
	"learnhub/middleware"
	"learnhub/services/catalog"
	courseValidator "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
)

// AdminDashboardStats gets dashboard statistics
func (h *AdminController) AdminDashboardStats(c *fiber.Ctx) error {
	stats, err := h.catalog.DashboardStats(c.UserContext())
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard stats fetched successfully!", stats)
}

// AdminGetCourseEnrollments gets all enrolled students for a course
func (h *AdminController) AdminGetCourseEnrollments(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)
	reqData, _ := c.Locals("validatedEnrollmentQuery").(*courseValidator.EnrollmentListQuery)

	q := catalog.EnrollmentQuery{}
	if reqData != nil {
		if reqData.Page != nil {
			q.Page = *reqData.Page
		}
		if reqData.Limit != nil {
			q.Limit = *reqData.Limit
		}
		q.Status = reqData.Status
	}

	page, err := h.catalog.CourseEnrollments(c.UserContext(), courseID, q)
	if err != nil {
		return err
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course enrollments fetched successfully!", fiber.Map{
		"enrollments": page.Enrollments,
		"pagination": fiber.Map{
			"total": page.Total,
			"page":  page.Page,
			"limit": page.Limit,
		},
	})
}

// AdminReconcileProgress recomputes every enrollment's progress on demand.
func (h *AdminController) AdminReconcileProgress(c *fiber.Ctx) error {
	processed, err := h.tracker.ReconcileAll(c.UserContext())
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress reconciled!", fiber.Map{"processed": processed})
}
