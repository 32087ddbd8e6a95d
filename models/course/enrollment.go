package course

import (
	"time"

	"gorm.io/gorm"
)

const (
	EnrollmentLearning  = "LEARNING"
	EnrollmentCompleted = "COMPLETED"
)

// Enrollment tracks a user's enrollment in a course with progress
type Enrollment struct {
	gorm.Model
	UserID         uint       `json:"user_id" gorm:"uniqueIndex:idx_enrollment_user_course;not null"`
	CourseID       uint       `json:"course_id" gorm:"uniqueIndex:idx_enrollment_user_course;index;not null"`
	Course         Course     `json:"course,omitempty" gorm:"foreignKey:CourseID"`
	Status         string     `json:"status" gorm:"default:'LEARNING'"` // LEARNING, COMPLETED
	Progress       float64    `json:"progress" gorm:"default:0"`        // Completion percentage (0-100)
	EnrolledAt     time.Time  `json:"enrolled_at"`
	LastAccessedAt time.Time  `json:"last_accessed_at"`
	CompletedAt    *time.Time `json:"completed_at"`
}
