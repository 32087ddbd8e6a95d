package course

import "gorm.io/gorm"

// Lesson belongs to exactly one course, ordered by SequenceIndex
type Lesson struct {
	gorm.Model
	CourseID        uint   `json:"course_id" gorm:"index;not null"`
	Title           string `json:"title" gorm:"not null"`
	Description     string `json:"description" gorm:"type:text"`
	SequenceIndex   int    `json:"sequence_index" gorm:"default:0"`
	DurationMinutes int    `json:"duration_minutes" gorm:"default:0"`
	LessonType      string `json:"lesson_type" gorm:"default:'VIDEO'"` // VIDEO, AUDIO, TEXT
	VideoURL        string `json:"video_url"`
	AudioURL        string `json:"audio_url"`
	AttachmentURL   string `json:"attachment_url"`
}
