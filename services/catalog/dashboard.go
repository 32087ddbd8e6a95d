package catalog

import (
	"context"
	"database/sql"
	"math"
	"time"

	"learnhub/apperror"
	"learnhub/models"
	courseModels "learnhub/models/course"
	quizModels "learnhub/models/quiz"

	"github.com/jinzhu/now"
)

type DashboardStats struct {
	TotalUsers           int64              `json:"total_users"`
	TotalCourses         int64              `json:"total_courses"`
	PublishedCourses     int64              `json:"published_courses"`
	TotalEnrollments     int64              `json:"total_enrollments"`
	CompletedEnrollments int64              `json:"completed_enrollments"`
	EnrollmentsToday     int64              `json:"enrollments_today"`
	EnrollmentsThisWeek  int64              `json:"enrollments_this_week"`
	EnrollmentsThisMonth int64              `json:"enrollments_this_month"`
	TotalQuizAttempts    int64              `json:"total_quiz_attempts"`
	AverageQuizScore     float64            `json:"average_quiz_score"`
	RecentEnrollments    []RecentEnrollment `json:"recent_enrollments"`
}

type RecentEnrollment struct {
	UserName   string    `json:"user_name"`
	CourseName string    `json:"course_name"`
	EnrolledAt time.Time `json:"enrolled_at"`
}

// DashboardStats gathers the admin dashboard counters.
func (s *Service) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	db := s.db.WithContext(ctx)
	stats := &DashboardStats{RecentEnrollments: []RecentEnrollment{}}

	t := now.With(s.now())
	counts := []struct {
		dest  *int64
		model interface{}
		where []interface{}
	}{
		{&stats.TotalUsers, &models.User{}, nil},
		{&stats.TotalCourses, &courseModels.Course{}, nil},
		{&stats.PublishedCourses, &courseModels.Course{}, []interface{}{"status = ?", courseModels.StatusPublished}},
		{&stats.TotalEnrollments, &courseModels.Enrollment{}, nil},
		{&stats.CompletedEnrollments, &courseModels.Enrollment{}, []interface{}{"status = ?", courseModels.EnrollmentCompleted}},
		{&stats.EnrollmentsToday, &courseModels.Enrollment{}, []interface{}{"enrolled_at >= ?", t.BeginningOfDay()}},
		{&stats.EnrollmentsThisWeek, &courseModels.Enrollment{}, []interface{}{"enrolled_at >= ?", t.BeginningOfWeek()}},
		{&stats.EnrollmentsThisMonth, &courseModels.Enrollment{}, []interface{}{"enrolled_at >= ?", t.BeginningOfMonth()}},
		{&stats.TotalQuizAttempts, &quizModels.QuizAttempt{}, nil},
	}
	for _, c := range counts {
		q := db.Model(c.model)
		if len(c.where) > 0 {
			q = q.Where(c.where[0], c.where[1:]...)
		}
		if err := q.Count(c.dest).Error; err != nil {
			return nil, apperror.Storage("Failed to fetch dashboard stats", err)
		}
	}

	var avg sql.NullFloat64
	if err := db.Model(&quizModels.QuizAttempt{}).Select("AVG(score)").Row().Scan(&avg); err != nil {
		return nil, apperror.Storage("Failed to fetch dashboard stats", err)
	}
	stats.AverageQuizScore = math.Round(avg.Float64*100) / 100

	err := db.Model(&courseModels.Enrollment{}).
		Select("users.full_name AS user_name, courses.title AS course_name, enrollments.enrolled_at").
		Joins("LEFT JOIN users ON users.id = enrollments.user_id").
		Joins("LEFT JOIN courses ON courses.id = enrollments.course_id").
		Order("enrollments.enrolled_at DESC, enrollments.id DESC").
		Limit(5).
		Scan(&stats.RecentEnrollments).Error
	if err != nil {
		return nil, apperror.Storage("Failed to fetch dashboard stats", err)
	}
	return stats, nil
}
