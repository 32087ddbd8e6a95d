package progress

import (
	"context"
	"errors"
	"time"

	"learnhub/apperror"
	"learnhub/logger"
	courseModels "learnhub/models/course"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CompletionNotifier is told when an enrollment transitions into COMPLETED.
// It is called after the transaction commits.
type CompletionNotifier interface {
	CourseCompleted(ctx context.Context, userID, courseID uint)
}

// Tracker records per-lesson progress and rolls it up into enrollments.
type Tracker struct {
	db       *gorm.DB
	notifier CompletionNotifier
	now      func() time.Time
}

func NewTracker(db *gorm.DB, notifier CompletionNotifier) *Tracker {
	return &Tracker{db: db, notifier: notifier, now: time.Now}
}

var progressKey = []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}}

// Percent is 100*completed/total, or 0 for a course without lessons.
func Percent(completed, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return 100 * float64(completed) / float64(total)
}

// StatusFor returns COMPLETED only when every lesson of a non-empty course is done.
func StatusFor(completed, total int64) string {
	if total > 0 && completed >= total {
		return courseModels.EnrollmentCompleted
	}
	return courseModels.EnrollmentLearning
}

// StartLesson creates the progress row as IN_PROGRESS on first access and
// only bumps the last access time afterwards.
func (t *Tracker) StartLesson(ctx context.Context, userID, lessonID uint) (*courseModels.LessonProgress, error) {
	var row courseModels.LessonProgress
	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lesson, err := findLesson(tx, lessonID)
		if err != nil {
			return err
		}
		if err := requireEnrollment(tx, userID, lesson.CourseID); err != nil {
			return err
		}

		now := t.now()
		if err := t.startLesson(tx, userID, lesson, now); err != nil {
			return err
		}
		return tx.Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&row).Error
	})
	if err != nil {
		return nil, wrapStorage(err, "Failed to start lesson")
	}
	return &row, nil
}

func (t *Tracker) startLesson(tx *gorm.DB, userID uint, lesson *courseModels.Lesson, now time.Time) error {
	row := courseModels.LessonProgress{
		UserID:         userID,
		LessonID:       lesson.ID,
		Status:         courseModels.ProgressInProgress,
		StartedAt:      now,
		LastAccessedAt: now,
	}
	err := tx.Clauses(clause.OnConflict{
		Columns:   progressKey,
		DoUpdates: clause.Assignments(map[string]interface{}{"last_accessed_at": now, "updated_at": now}),
	}).Create(&row).Error
	if err != nil {
		return err
	}

	// rows created by SaveNotes have not been opened yet
	err = tx.Model(&courseModels.LessonProgress{}).
		Where("user_id = ? AND lesson_id = ? AND status = ?", userID, lesson.ID, courseModels.ProgressNotStarted).
		Updates(map[string]interface{}{"status": courseModels.ProgressInProgress, "started_at": now}).Error
	if err != nil {
		return err
	}

	return tx.Model(&courseModels.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, lesson.CourseID).
		Update("last_accessed_at", now).Error
}

type Completion struct {
	Lesson     courseModels.LessonProgress `json:"lesson_progress"`
	Enrollment courseModels.Enrollment     `json:"enrollment"`
}

// CompleteLesson marks the lesson completed and recomputes the course progress
// in the same transaction.
func (t *Tracker) CompleteLesson(ctx context.Context, userID, lessonID uint, timeSpentSeconds int) (*Completion, error) {
	if timeSpentSeconds < 0 {
		return nil, apperror.Validation("Time spent cannot be negative")
	}

	var result Completion
	var transitioned bool
	var courseID uint

	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lesson, err := findLesson(tx, lessonID)
		if err != nil {
			return err
		}
		courseID = lesson.CourseID
		if err := requireEnrollment(tx, userID, courseID); err != nil {
			return err
		}

		now := t.now()
		row := courseModels.LessonProgress{
			UserID:           userID,
			LessonID:         lessonID,
			Status:           courseModels.ProgressCompleted,
			Percent:          100,
			StartedAt:        now,
			LastAccessedAt:   now,
			CompletedAt:      &now,
			TimeSpentSeconds: timeSpentSeconds,
		}
		err = tx.Clauses(clause.OnConflict{
			Columns: progressKey,
			DoUpdates: clause.Assignments(map[string]interface{}{
				"status":             courseModels.ProgressCompleted,
				"percent":            100,
				"completed_at":       now,
				"last_accessed_at":   now,
				"time_spent_seconds": timeSpentSeconds,
				"updated_at":         now,
			}),
		}).Create(&row).Error
		if err != nil {
			return err
		}
		if err := tx.Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&result.Lesson).Error; err != nil {
			return err
		}

		enrollment, changed, err := t.recompute(tx, userID, courseID)
		if err != nil {
			return err
		}
		result.Enrollment = *enrollment
		transitioned = changed
		return nil
	})
	if err != nil {
		return nil, wrapStorage(err, "Failed to save lesson progress")
	}

	if transitioned && t.notifier != nil {
		t.notifier.CourseCompleted(ctx, userID, courseID)
	}
	return &result, nil
}

// RecomputeCourseProgress rewrites the enrollment from the current lesson
// progress rows. Running it repeatedly without other writes changes nothing.
func (t *Tracker) RecomputeCourseProgress(ctx context.Context, userID, courseID uint) (*courseModels.Enrollment, error) {
	var enrollment *courseModels.Enrollment
	var transitioned bool
	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		enrollment, transitioned, err = t.recompute(tx, userID, courseID)
		return err
	})
	if err != nil {
		return nil, wrapStorage(err, "Failed to update course progress")
	}
	if transitioned && t.notifier != nil {
		t.notifier.CourseCompleted(ctx, userID, courseID)
	}
	return enrollment, nil
}

// recompute reports whether the enrollment moved into COMPLETED.
func (t *Tracker) recompute(tx *gorm.DB, userID, courseID uint) (*courseModels.Enrollment, bool, error) {
	var enrollment courseModels.Enrollment
	err := tx.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, apperror.NotFound("Enrollment not found")
	}
	if err != nil {
		return nil, false, err
	}

	var total int64
	if err := tx.Model(&courseModels.Lesson{}).Where("course_id = ?", courseID).Count(&total).Error; err != nil {
		return nil, false, err
	}

	var completed int64
	err = tx.Model(&courseModels.LessonProgress{}).
		Joins("JOIN lessons ON lessons.id = lesson_progresses.lesson_id AND lessons.deleted_at IS NULL").
		Where("lesson_progresses.user_id = ? AND lessons.course_id = ? AND lesson_progresses.status = ?",
			userID, courseID, courseModels.ProgressCompleted).
		Count(&completed).Error
	if err != nil {
		return nil, false, err
	}

	percent := Percent(completed, total)
	status := StatusFor(completed, total)

	completedAt := enrollment.CompletedAt
	transitioned := false
	switch {
	case status == courseModels.EnrollmentCompleted && enrollment.Status != courseModels.EnrollmentCompleted:
		now := t.now()
		completedAt = &now
		transitioned = true
	case status != courseModels.EnrollmentCompleted:
		completedAt = nil
	}

	err = tx.Model(&enrollment).Updates(map[string]interface{}{
		"progress":     percent,
		"status":       status,
		"completed_at": completedAt,
	}).Error
	if err != nil {
		return nil, false, err
	}

	enrollment.Progress = percent
	enrollment.Status = status
	enrollment.CompletedAt = completedAt
	return &enrollment, transitioned, nil
}

// SaveNotes stores the learner's notes without touching the progress status.
func (t *Tracker) SaveNotes(ctx context.Context, userID, lessonID uint, notes string) error {
	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lesson, err := findLesson(tx, lessonID)
		if err != nil {
			return err
		}
		if err := requireEnrollment(tx, userID, lesson.CourseID); err != nil {
			return err
		}

		now := t.now()
		row := courseModels.LessonProgress{
			UserID:         userID,
			LessonID:       lessonID,
			Status:         courseModels.ProgressNotStarted,
			Notes:          notes,
			StartedAt:      now,
			LastAccessedAt: now,
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   progressKey,
			DoUpdates: clause.Assignments(map[string]interface{}{"notes": notes, "updated_at": now}),
		}).Create(&row).Error
	})
	return wrapStorage(err, "Failed to save notes")
}

// ReconcileAll recomputes every enrollment and returns how many were processed.
func (t *Tracker) ReconcileAll(ctx context.Context) (int, error) {
	var enrollments []courseModels.Enrollment
	processed := 0
	failed := 0

	result := t.db.WithContext(ctx).Select("id", "user_id", "course_id").
		FindInBatches(&enrollments, 200, func(batch *gorm.DB, _ int) error {
			for _, e := range enrollments {
				if _, err := t.RecomputeCourseProgress(ctx, e.UserID, e.CourseID); err != nil {
					failed++
					logger.Log.Error("Failed to reconcile enrollment", "enrollment_id", e.ID, "error", err)
					continue
				}
				processed++
			}
			return nil
		})
	if result.Error != nil {
		return processed, apperror.Storage("Failed to reconcile progress", result.Error)
	}
	if failed > 0 {
		logger.Log.Warn("Progress reconciliation finished with failures", "processed", processed, "failed", failed)
	}
	return processed, nil
}

func findLesson(tx *gorm.DB, lessonID uint) (*courseModels.Lesson, error) {
	var lesson courseModels.Lesson
	err := tx.First(&lesson, lessonID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("Lesson not found")
	}
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

func requireEnrollment(tx *gorm.DB, userID, courseID uint) error {
	var count int64
	err := tx.Model(&courseModels.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return apperror.Forbidden("You are not enrolled in this course")
	}
	return nil
}

// wrapStorage leaves service errors alone and turns anything else into a StorageError.
func wrapStorage(err error, msg string) error {
	if err == nil {
		return nil
	}
	if _, ok := apperror.As(err); ok {
		return err
	}
	return apperror.Storage(msg, err)
}
