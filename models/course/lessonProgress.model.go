package course

import (
	"time"

	"gorm.io/gorm"
)

const (
	ProgressNotStarted = "NOT_STARTED"
	ProgressInProgress = "IN_PROGRESS"
	ProgressCompleted  = "COMPLETED"
)

// LessonProgress is the per-user state of one lesson
type LessonProgress struct {
	gorm.Model
	UserID           uint       `json:"user_id" gorm:"uniqueIndex:idx_progress_user_lesson;not null"`
	LessonID         uint       `json:"lesson_id" gorm:"uniqueIndex:idx_progress_user_lesson;index;not null"`
	Status           string     `json:"status" gorm:"default:'NOT_STARTED'"`
	Percent          float64    `json:"percent" gorm:"default:0"`
	Notes            string     `json:"notes" gorm:"type:text"`
	StartedAt        time.Time  `json:"started_at"`
	LastAccessedAt   time.Time  `json:"last_accessed_at"`
	CompletedAt      *time.Time `json:"completed_at"`
	TimeSpentSeconds int        `json:"time_spent_seconds" gorm:"default:0"`
}
