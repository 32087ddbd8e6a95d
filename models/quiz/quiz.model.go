package quiz

import "gorm.io/gorm"

const (
	ScoringSimple    = "SIMPLE"
	ScoringSectioned = "SECTIONED"
)

// Quiz belongs to a course, or is standalone when CourseID is nil
type Quiz struct {
	gorm.Model
	CourseID         *uint      `json:"course_id" gorm:"index"`
	Title            string     `json:"title" gorm:"not null"`
	Description      string     `json:"description" gorm:"type:text"`
	TimeLimitMinutes int        `json:"time_limit_minutes" gorm:"default:0"`
	MaxScore         float64    `json:"max_score" gorm:"default:100"`
	PassScore        float64    `json:"pass_score" gorm:"default:50"`
	QuizType         string     `json:"quiz_type" gorm:"default:'PRACTICE'"` // PRACTICE, MIDTERM, FINAL, PLACEMENT
	Level            string     `json:"level"`
	ScoringMode      string     `json:"scoring_mode" gorm:"default:'SIMPLE'"` // SIMPLE, SECTIONED
	Questions        []Question `json:"questions,omitempty" gorm:"foreignKey:QuizID"`
}
