package course

import (
	"learnhub/models"
	"time"

	"gorm.io/gorm"
)

type Review struct {
	gorm.Model
	UserID     uint        `json:"user_id" gorm:"uniqueIndex:idx_review_user_course;not null"`
	User       models.User `json:"-" gorm:"foreignKey:UserID"`
	CourseID   uint        `json:"course_id" gorm:"uniqueIndex:idx_review_user_course;index;not null"`
	Rating     int         `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comment    string      `json:"comment" gorm:"type:text;default:''"`
	ReviewedAt time.Time   `json:"reviewed_at"`
}
