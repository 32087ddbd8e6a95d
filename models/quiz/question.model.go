package quiz

import "gorm.io/gorm"

const (
	SectionListening = "LISTENING"
	SectionReading   = "READING"
)

// Question is one ordered item of a quiz with a single correct Answer
type Question struct {
	gorm.Model
	QuizID        uint     `json:"quiz_id" gorm:"index;not null"`
	Content       string   `json:"content" gorm:"type:text;not null"`
	QuestionType  string   `json:"question_type" gorm:"default:'SINGLE_CHOICE'"`
	Section       string   `json:"section" gorm:"default:''"` // used by sectioned scoring
	ImageURL      string   `json:"image_url"`
	AudioURL      string   `json:"audio_url"`
	Points        float64  `json:"points" gorm:"default:1"`
	SequenceIndex int      `json:"sequence_index" gorm:"default:0"`
	Explanation   string   `json:"explanation" gorm:"type:text"`
	Answers       []Answer `json:"answers,omitempty" gorm:"foreignKey:QuestionID"`
}

// Answer is one option of a question
type Answer struct {
	gorm.Model
	QuestionID    uint   `json:"question_id" gorm:"index;not null"`
	Content       string `json:"content" gorm:"type:text"`
	IsCorrect     bool   `json:"is_correct" gorm:"default:false"`
	SequenceIndex int    `json:"sequence_index" gorm:"default:0"`
}
