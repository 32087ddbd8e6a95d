package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"learnhub/apperror"
	courseModels "learnhub/models/course"

	"gorm.io/gorm"
)

// EnrollmentNotifier is told about new enrollments after they commit.
type EnrollmentNotifier interface {
	Enrolled(ctx context.Context, userID, courseID uint)
}

// Service owns courses, categories, enrollments and reviews.
type Service struct {
	db       *gorm.DB
	notifier EnrollmentNotifier
	now      func() time.Time
}

func NewService(db *gorm.DB, notifier EnrollmentNotifier) *Service {
	return &Service{db: db, notifier: notifier, now: time.Now}
}

type CourseFilter struct {
	CategoryID uint
	Level      string
	Search     string
}

// ListCourses returns published courses, newest first.
func (s *Service) ListCourses(ctx context.Context, f CourseFilter) ([]courseModels.Course, error) {
	db := s.db.WithContext(ctx).
		Preload("Category").
		Where("courses.status = ?", courseModels.StatusPublished)

	if f.CategoryID != 0 {
		db = db.Where("courses.category_id = ?", f.CategoryID)
	}
	if f.Level != "" {
		db = db.Where("courses.level = ?", f.Level)
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		like := "%" + search + "%"
		db = db.Where("(courses.title LIKE ? OR courses.description LIKE ?)", like, like)
	}

	courses := []courseModels.Course{}
	if err := db.Order("courses.created_at DESC, courses.id DESC").Find(&courses).Error; err != nil {
		return nil, apperror.Storage("Failed to load courses", err)
	}
	return courses, nil
}

type CourseDetail struct {
	courseModels.Course
	CategoryName    string                `json:"category_name"`
	InstructorName  string                `json:"instructor_name,omitempty"`
	InstructorEmail string                `json:"instructor_email,omitempty"`
	Lessons         []courseModels.Lesson `json:"lessons"`
	ReviewCount     int64                 `json:"review_count"`
}

// Course returns one published course with its lessons in sequence.
func (s *Service) Course(ctx context.Context, courseID uint) (*CourseDetail, error) {
	db := s.db.WithContext(ctx)

	var course courseModels.Course
	err := db.Preload("Category").Preload("Instructor").
		Where("status = ?", courseModels.StatusPublished).
		First(&course, courseID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("Course not found")
	}
	if err != nil {
		return nil, apperror.Storage("Failed to load course", err)
	}

	detail := &CourseDetail{Course: course, CategoryName: course.Category.Name, Lessons: []courseModels.Lesson{}}
	if course.Instructor != nil {
		detail.InstructorName = course.Instructor.FullName
		detail.InstructorEmail = course.Instructor.Email
	}

	if err := db.Where("course_id = ?", courseID).Order("sequence_index ASC, id ASC").Find(&detail.Lessons).Error; err != nil {
		return nil, apperror.Storage("Failed to load course", err)
	}
	detail.TotalLessons = len(detail.Lessons)

	if err := db.Model(&courseModels.Review{}).Where("course_id = ?", courseID).Count(&detail.ReviewCount).Error; err != nil {
		return nil, apperror.Storage("Failed to load course", err)
	}
	return detail, nil
}

type CategorySummary struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	SortOrder   int    `json:"sort_order"`
	CourseCount int64  `json:"course_count"`
}

// Categories lists every category with its number of published courses.
func (s *Service) Categories(ctx context.Context) ([]CategorySummary, error) {
	out := []CategorySummary{}
	err := s.db.WithContext(ctx).
		Model(&courseModels.Category{}).
		Select("categories.id, categories.name, categories.description, categories.icon, categories.sort_order, COUNT(courses.id) AS course_count").
		Joins("LEFT JOIN courses ON courses.category_id = categories.id AND courses.status = ? AND courses.deleted_at IS NULL", courseModels.StatusPublished).
		Group("categories.id, categories.name, categories.description, categories.icon, categories.sort_order").
		Order("categories.sort_order ASC, categories.id ASC").
		Scan(&out).Error
	if err != nil {
		return nil, apperror.Storage("Failed to load categories", err)
	}
	return out, nil
}

type MyCourse struct {
	EnrollmentID   uint       `json:"enrollment_id"`
	CourseID       uint       `json:"course_id"`
	Title          string     `json:"title"`
	ThumbnailURL   string     `json:"thumbnail_url"`
	Level          string     `json:"level"`
	CategoryName   string     `json:"category_name"`
	TotalLessons   int64      `json:"total_lessons"`
	Progress       float64    `json:"progress"`
	Status         string     `json:"status"`
	EnrolledAt     time.Time  `json:"enrolled_at"`
	LastAccessedAt time.Time  `json:"last_accessed_at"`
	CompletedAt    *time.Time `json:"completed_at"`
}

// MyCourses lists a learner's enrollments, most recently accessed first.
func (s *Service) MyCourses(ctx context.Context, userID uint) ([]MyCourse, error) {
	db := s.db.WithContext(ctx)

	var enrollments []courseModels.Enrollment
	err := db.Preload("Course.Category").
		Where("user_id = ?", userID).
		Order("last_accessed_at DESC, id DESC").
		Find(&enrollments).Error
	if err != nil {
		return nil, apperror.Storage("Failed to load your courses", err)
	}

	out := make([]MyCourse, 0, len(enrollments))
	if len(enrollments) == 0 {
		return out, nil
	}

	courseIDs := make([]uint, 0, len(enrollments))
	for _, e := range enrollments {
		courseIDs = append(courseIDs, e.CourseID)
	}
	var counts []struct {
		CourseID uint
		Total    int64
	}
	err = db.Model(&courseModels.Lesson{}).
		Select("course_id, COUNT(*) AS total").
		Where("course_id IN ?", courseIDs).
		Group("course_id").
		Scan(&counts).Error
	if err != nil {
		return nil, apperror.Storage("Failed to load your courses", err)
	}
	lessons := make(map[uint]int64, len(counts))
	for _, c := range counts {
		lessons[c.CourseID] = c.Total
	}

	for _, e := range enrollments {
		out = append(out, MyCourse{
			EnrollmentID:   e.ID,
			CourseID:       e.CourseID,
			Title:          e.Course.Title,
			ThumbnailURL:   e.Course.ThumbnailURL,
			Level:          e.Course.Level,
			CategoryName:   e.Course.Category.Name,
			TotalLessons:   lessons[e.CourseID],
			Progress:       e.Progress,
			Status:         e.Status,
			EnrolledAt:     e.EnrolledAt,
			LastAccessedAt: e.LastAccessedAt,
			CompletedAt:    e.CompletedAt,
		})
	}
	return out, nil
}
