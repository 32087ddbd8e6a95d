package controllers

import (
	"learnhub/middleware"
	"learnhub/services/catalog"
	"learnhub/services/progress"
	courseValidator "learnhub/validators/course"

	"github.com/gofiber/fiber/v2"
)

// CourseController serves the course catalog, enrollments and reviews.
type CourseController struct {
	catalog *catalog.Service
}

func NewCourseController(svc *catalog.Service) *CourseController {
	return &CourseController{catalog: svc}
}

func (h *CourseController) GetAllCourses(c *fiber.Ctx) error {
	reqData := c.Locals("validatedCourseList").(*courseValidator.CourseListQuery)

	courses, err := h.catalog.ListCourses(c.UserContext(), catalog.CourseFilter{
		CategoryID: reqData.Category,
		Level:      reqData.Level,
		Search:     reqData.Search,
	})
	if err != nil {
		return err
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", courses)
}

func (h *CourseController) GetCategories(c *fiber.Ctx) error {
	categories, err := h.catalog.Categories(c.UserContext())
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Categories fetched successfully!", categories)
}

func (h *CourseController) GetCourseDetails(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)

	course, err := h.catalog.Course(c.UserContext(), courseID)
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", course)
}

func (h *CourseController) GetReviews(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)

	reviews, err := h.catalog.Reviews(c.UserContext(), courseID)
	if err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Reviews fetched successfully!", reviews)
}

// AdminController serves the admin dashboard.
type AdminController struct {
	catalog *catalog.Service
	tracker *progress.Tracker
}

func NewAdminController(svc *catalog.Service, tracker *progress.Tracker) *AdminController {
	return &AdminController{catalog: svc, tracker: tracker}
}
