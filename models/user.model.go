package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleLearner    = "LEARNER"
	RoleInstructor = "INSTRUCTOR"
	RoleAdmin      = "ADMIN" // only ever carried by the configured admin principal
)

type User struct {
	gorm.Model
	Username   string     `json:"username" gorm:"uniqueIndex;size:100;not null"`
	Email      string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Password   string     `json:"-" gorm:"not null"`
	FullName   string     `json:"full_name" gorm:"default:''"`
	Phone      string     `json:"phone" gorm:"default:''"`
	AvatarURL  string     `json:"avatar_url" gorm:"default:''"`
	Role       string     `json:"role" gorm:"default:'LEARNER'"` // LEARNER, INSTRUCTOR
	LastLogin  *time.Time `json:"last_login"`
	IsDisabled bool       `json:"-" gorm:"default:false"`
}
