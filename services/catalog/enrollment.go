package catalog

import (
	"context"
	"errors"

	"learnhub/apperror"
	courseModels "learnhub/models/course"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Enroll registers a learner in a published course. The unique (user, course)
// index decides between concurrent duplicates; the loser gets a validation error.
func (s *Service) Enroll(ctx context.Context, userID, courseID uint) (*courseModels.Enrollment, error) {
	now := s.now()
	enrollment := courseModels.Enrollment{
		UserID:         userID,
		CourseID:       courseID,
		Status:         courseModels.EnrollmentLearning,
		EnrolledAt:     now,
		LastAccessedAt: now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var course courseModels.Course
		err := tx.Select("id").Where("status = ?", courseModels.StatusPublished).First(&course, courseID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("Course not found")
		}
		if err != nil {
			return err
		}

		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
			DoNothing: true,
		}).Create(&enrollment)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperror.Validation("You are already enrolled in this course")
		}

		return tx.Model(&courseModels.Course{}).
			Where("id = ?", courseID).
			UpdateColumn("enrollment_count", gorm.Expr("enrollment_count + ?", 1)).Error
	})
	if err != nil {
		if _, ok := apperror.As(err); ok {
			return nil, err
		}
		return nil, apperror.Storage("Failed to enroll in course", err)
	}

	if s.notifier != nil {
		s.notifier.Enrolled(ctx, userID, courseID)
	}
	return &enrollment, nil
}

type EnrollmentQuery struct {
	Page   int
	Limit  int
	Status string
}

type EnrollmentRow struct {
	courseModels.Enrollment
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
}

type EnrollmentPage struct {
	Enrollments []EnrollmentRow `json:"enrollments"`
	Total       int64           `json:"total"`
	Page        int             `json:"page"`
	Limit       int             `json:"limit"`
}

// CourseEnrollments pages through a course's enrollments for the admin.
func (s *Service) CourseEnrollments(ctx context.Context, courseID uint, q EnrollmentQuery) (*EnrollmentPage, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = 10
	}
	offset := (q.Page - 1) * q.Limit

	db := s.db.WithContext(ctx)

	var course courseModels.Course
	err := db.Select("id").First(&course, courseID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("Course not found")
	}
	if err != nil {
		return nil, apperror.Storage("Failed to fetch enrollments", err)
	}

	query := db.Model(&courseModels.Enrollment{}).Where("enrollments.course_id = ?", courseID)
	if q.Status != "" {
		query = query.Where("enrollments.status = ?", q.Status)
	}
	query = query.Session(&gorm.Session{})

	page := &EnrollmentPage{Enrollments: []EnrollmentRow{}, Page: q.Page, Limit: q.Limit}
	if err := query.Count(&page.Total).Error; err != nil {
		return nil, apperror.Storage("Failed to fetch enrollments", err)
	}

	err = query.
		Select("enrollments.*, users.full_name AS user_name, users.email AS user_email").
		Joins("LEFT JOIN users ON users.id = enrollments.user_id").
		Order("enrollments.created_at DESC, enrollments.id DESC").
		Offset(offset).Limit(q.Limit).
		Scan(&page.Enrollments).Error
	if err != nil {
		return nil, apperror.Storage("Failed to fetch enrollments", err)
	}
	return page, nil
}
