package catalog

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"learnhub/apperror"
	courseModels "learnhub/models/course"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReviewView struct {
	ID         uint      `json:"id"`
	UserID     uint      `json:"user_id"`
	FullName   string    `json:"full_name"`
	AvatarURL  string    `json:"avatar_url"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	ReviewedAt time.Time `json:"reviewed_at"`
}

// Reviews lists a course's reviews, newest first.
func (s *Service) Reviews(ctx context.Context, courseID uint) ([]ReviewView, error) {
	out := []ReviewView{}
	err := s.db.WithContext(ctx).
		Model(&courseModels.Review{}).
		Select("reviews.id, reviews.user_id, users.full_name, users.avatar_url, reviews.rating, reviews.comment, reviews.reviewed_at").
		Joins("LEFT JOIN users ON users.id = reviews.user_id").
		Where("reviews.course_id = ?", courseID).
		Order("reviews.reviewed_at DESC, reviews.id DESC").
		Scan(&out).Error
	if err != nil {
		return nil, apperror.Storage("Failed to load reviews", err)
	}
	return out, nil
}

type ReviewInput struct {
	CourseID uint
	Rating   int
	Comment  string
}

type ReviewResult struct {
	Review        courseModels.Review `json:"review"`
	Updated       bool                `json:"updated"`
	AverageRating float64             `json:"average_rating"`
}

// SubmitReview creates or replaces the learner's review of a course.
func (s *Service) SubmitReview(ctx context.Context, userID uint, in ReviewInput) (*ReviewResult, error) {
	if strings.TrimSpace(in.Comment) == "" {
		return nil, apperror.Validation("Please write a comment")
	}
	return s.Rate(ctx, userID, in)
}

// Rate is SubmitReview without the comment requirement.
func (s *Service) Rate(ctx context.Context, userID uint, in ReviewInput) (*ReviewResult, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, apperror.Validation("Rating must be between 1 and 5")
	}
	in.Comment = strings.TrimSpace(in.Comment)

	result := &ReviewResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var enrolled int64
		if err := tx.Model(&courseModels.Enrollment{}).
			Where("user_id = ? AND course_id = ?", userID, in.CourseID).
			Count(&enrolled).Error; err != nil {
			return err
		}
		if enrolled == 0 {
			return apperror.Forbidden("You must enroll in the course before reviewing it")
		}

		var existing int64
		if err := tx.Model(&courseModels.Review{}).
			Where("user_id = ? AND course_id = ?", userID, in.CourseID).
			Count(&existing).Error; err != nil {
			return err
		}
		result.Updated = existing > 0

		now := s.now()
		review := courseModels.Review{
			UserID:     userID,
			CourseID:   in.CourseID,
			Rating:     in.Rating,
			Comment:    in.Comment,
			ReviewedAt: now,
		}
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"rating":      in.Rating,
				"comment":     in.Comment,
				"reviewed_at": now,
				"updated_at":  now,
			}),
		}).Create(&review).Error
		if err != nil {
			return err
		}
		if err := tx.Where("user_id = ? AND course_id = ?", userID, in.CourseID).First(&result.Review).Error; err != nil {
			return err
		}

		avg, err := averageRating(tx, in.CourseID)
		if err != nil {
			return err
		}
		result.AverageRating = avg
		return tx.Model(&courseModels.Course{}).
			Where("id = ?", in.CourseID).
			UpdateColumn("average_rating", avg).Error
	})
	if err != nil {
		var appErr *apperror.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperror.Storage("Failed to submit review", err)
	}
	return result, nil
}

// averageRating is the plain mean of every current rating, 0 without reviews.
func averageRating(tx *gorm.DB, courseID uint) (float64, error) {
	var avg sql.NullFloat64
	err := tx.Model(&courseModels.Review{}).
		Select("AVG(rating)").
		Where("course_id = ?", courseID).
		Row().Scan(&avg)
	if err != nil {
		return 0, err
	}
	return avg.Float64, nil
}
