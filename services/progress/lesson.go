package progress

import (
	"context"
	"errors"
	"time"

	"learnhub/apperror"
	courseModels "learnhub/models/course"
	"learnhub/services/auth"

	"gorm.io/gorm"
)

// LessonDetail is a lesson plus the caller's own progress on it
type LessonDetail struct {
	courseModels.Lesson
	CourseTitle string     `json:"course_title"`
	Status      string     `json:"progress_status,omitempty"`
	IsCompleted bool       `json:"is_completed"`
	Percent     float64    `json:"progress"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	SavedNotes  string     `json:"saved_notes,omitempty"`
}

// Lesson returns one lesson. An enrolled learner opening it starts the lesson;
// anyone else gets the bare lesson.
func (t *Tracker) Lesson(ctx context.Context, p auth.Principal, lessonID uint) (*LessonDetail, error) {
	db := t.db.WithContext(ctx)

	lesson, err := findLesson(db, lessonID)
	if err != nil {
		return nil, wrapStorage(err, "Failed to load lesson")
	}

	course, err := visibleCourse(db, p, lesson.CourseID)
	if apperror.Is(err, apperror.KindNotFound) {
		return nil, apperror.NotFound("Lesson not found")
	}
	if err != nil {
		return nil, err
	}
	detail := &LessonDetail{Lesson: *lesson, CourseTitle: course.Title}

	userID, ok := auth.LearnerID(p)
	if !ok {
		return detail, nil
	}

	row, err := t.StartLesson(ctx, userID, lessonID)
	if apperror.Is(err, apperror.KindForbidden) {
		return detail, nil
	}
	if err != nil {
		return nil, err
	}
	detail.fill(row)
	return detail, nil
}

func (d *LessonDetail) fill(row *courseModels.LessonProgress) {
	d.Status = row.Status
	d.IsCompleted = row.Status == courseModels.ProgressCompleted
	d.Percent = row.Percent
	d.CompletedAt = row.CompletedAt
	d.SavedNotes = row.Notes
}

// LessonsByCourse lists a course's lessons in sequence. Learners see their
// progress on each; nothing is started.
func (t *Tracker) LessonsByCourse(ctx context.Context, p auth.Principal, courseID uint) ([]LessonDetail, error) {
	db := t.db.WithContext(ctx)

	course, err := visibleCourse(db, p, courseID)
	if err != nil {
		return nil, err
	}

	var lessons []courseModels.Lesson
	if err := db.Where("course_id = ?", courseID).Order("sequence_index ASC, id ASC").Find(&lessons).Error; err != nil {
		return nil, apperror.Storage("Failed to load lessons", err)
	}

	progressByLesson := map[uint]*courseModels.LessonProgress{}
	if userID, ok := auth.LearnerID(p); ok && len(lessons) > 0 {
		ids := make([]uint, 0, len(lessons))
		for _, l := range lessons {
			ids = append(ids, l.ID)
		}
		var rows []courseModels.LessonProgress
		if err := db.Where("user_id = ? AND lesson_id IN ?", userID, ids).Find(&rows).Error; err != nil {
			return nil, apperror.Storage("Failed to load lessons", err)
		}
		for i := range rows {
			progressByLesson[rows[i].LessonID] = &rows[i]
		}
	}

	out := make([]LessonDetail, 0, len(lessons))
	for _, l := range lessons {
		d := LessonDetail{Lesson: l, CourseTitle: course.Title}
		if row, ok := progressByLesson[l.ID]; ok {
			d.fill(row)
		}
		out = append(out, d)
	}
	return out, nil
}

// visibleCourse loads a course the caller may browse. Drafts are only visible
// to the admin.
func visibleCourse(db *gorm.DB, p auth.Principal, courseID uint) (*courseModels.Course, error) {
	query := db.Select("id", "title", "status")
	if !auth.IsAdmin(p) {
		query = query.Where("status = ?", courseModels.StatusPublished)
	}

	var course courseModels.Course
	err := query.First(&course, courseID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("Course not found")
	}
	if err != nil {
		return nil, apperror.Storage("Failed to load course", err)
	}
	return &course, nil
}
