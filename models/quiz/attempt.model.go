package quiz

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// QuizAttempt is one immutable scored submission
type QuizAttempt struct {
	gorm.Model
	UserID           uint           `json:"user_id" gorm:"uniqueIndex:idx_attempt_user_quiz_number;not null"`
	QuizID           uint           `json:"quiz_id" gorm:"uniqueIndex:idx_attempt_user_quiz_number;index;not null"`
	AttemptNumber    int            `json:"attempt_number" gorm:"uniqueIndex:idx_attempt_user_quiz_number;not null"`
	Score            float64        `json:"score"`
	CorrectCount     int            `json:"correct_count"`
	TotalQuestions   int            `json:"total_questions"`
	TimeSpentSeconds int            `json:"time_spent_seconds"`
	SectionScores    datatypes.JSON `json:"section_scores,omitempty"` // section name -> score, sectioned quizzes only
	Answers          datatypes.JSON `json:"answers,omitempty"`        // question id -> chosen answer id
	SubmittedAt      time.Time      `json:"submitted_at"`
}
