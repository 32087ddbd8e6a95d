package course

import (
	"learnhub/models"

	"gorm.io/gorm"
)

const (
	StatusDraft     = "DRAFT"
	StatusPublished = "PUBLISHED"
)

// Course represents a learning course
type Course struct {
	gorm.Model
	Title           string       `json:"title" gorm:"not null"`
	Description     string       `json:"description" gorm:"type:text"`
	ThumbnailURL    string       `json:"thumbnail_url"`
	CategoryID      uint         `json:"category_id" gorm:"index"`
	Category        Category     `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	InstructorID    *uint        `json:"instructor_id" gorm:"index"`
	Instructor      *models.User `json:"instructor,omitempty" gorm:"foreignKey:InstructorID"`
	Level           string       `json:"level" gorm:"index"` // CEFR level: A1..C2
	TotalLessons    int          `json:"total_lessons" gorm:"default:0"`
	EstimatedHours  float64      `json:"estimated_hours" gorm:"default:0"`
	EnrollmentCount int64        `json:"enrollment_count" gorm:"default:0"`
	AverageRating   float64      `json:"average_rating" gorm:"default:0"` // cached, recomputed on review writes
	Status          string       `json:"status" gorm:"default:'DRAFT';index"`
}
