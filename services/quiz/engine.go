package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"learnhub/apperror"
	courseModels "learnhub/models/course"
	quizModels "learnhub/models/quiz"
	"learnhub/services/auth"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Engine serves quizzes to learners and scores their submissions.
type Engine struct {
	db  *gorm.DB
	now func() time.Time
}

func NewEngine(db *gorm.DB) *Engine {
	return &Engine{db: db, now: time.Now}
}

type Summary struct {
	quizModels.Quiz
	QuestionCount int64 `json:"question_count"`
}

// ByCourse lists the quizzes of a course in creation order. Quizzes of a
// draft course are only listed for the admin.
func (e *Engine) ByCourse(ctx context.Context, p auth.Principal, courseID uint) ([]Summary, error) {
	db := e.db.WithContext(ctx)

	if !auth.IsAdmin(p) {
		var published int64
		err := db.Model(&courseModels.Course{}).
			Where("id = ? AND status = ?", courseID, courseModels.StatusPublished).
			Count(&published).Error
		if err != nil {
			return nil, apperror.Storage("Failed to load quizzes", err)
		}
		if published == 0 {
			return []Summary{}, nil
		}
	}

	var quizzes []quizModels.Quiz
	if err := db.Where("course_id = ?", courseID).Order("created_at ASC, id ASC").Find(&quizzes).Error; err != nil {
		return nil, apperror.Storage("Failed to load quizzes", err)
	}
	if len(quizzes) == 0 {
		return []Summary{}, nil
	}

	ids := make([]uint, 0, len(quizzes))
	for _, q := range quizzes {
		ids = append(ids, q.ID)
	}
	var counts []struct {
		QuizID uint
		Total  int64
	}
	err := db.Model(&quizModels.Question{}).
		Select("quiz_id, COUNT(*) AS total").
		Where("quiz_id IN ?", ids).
		Group("quiz_id").
		Scan(&counts).Error
	if err != nil {
		return nil, apperror.Storage("Failed to load quizzes", err)
	}
	byQuiz := make(map[uint]int64, len(counts))
	for _, c := range counts {
		byQuiz[c.QuizID] = c.Total
	}

	out := make([]Summary, 0, len(quizzes))
	for _, q := range quizzes {
		out = append(out, Summary{Quiz: q, QuestionCount: byQuiz[q.ID]})
	}
	return out, nil
}

type AttemptSummary struct {
	ID               uint      `json:"id"`
	AttemptNumber    int       `json:"attempt_number"`
	Score            float64   `json:"score"`
	CorrectCount     int       `json:"correct_count"`
	TotalQuestions   int       `json:"total_questions"`
	TimeSpentSeconds int       `json:"time_spent_seconds"`
	Passed           bool      `json:"passed"`
	SubmittedAt      time.Time `json:"submitted_at"`
}

type Info struct {
	Quiz          quizModels.Quiz  `json:"quiz"`
	CourseTitle   string           `json:"course_title,omitempty"`
	QuestionCount int64            `json:"question_count"`
	Attempts      []AttemptSummary `json:"attempts"`
	BestScore     *float64         `json:"best_score"`
}

// Info returns quiz metadata and the caller's attempt history, newest first.
func (e *Engine) Info(ctx context.Context, p auth.Principal, quizID uint) (*Info, error) {
	db := e.db.WithContext(ctx)

	quiz, err := findQuiz(db, quizID)
	if err != nil {
		return nil, err
	}
	if err := authorize(db, p, quiz); err != nil {
		return nil, err
	}

	info := &Info{Quiz: *quiz, Attempts: []AttemptSummary{}}
	if quiz.CourseID != nil {
		var c courseModels.Course
		if err := db.Select("id", "title").First(&c, *quiz.CourseID).Error; err == nil {
			info.CourseTitle = c.Title
		}
	}
	if err := db.Model(&quizModels.Question{}).Where("quiz_id = ?", quizID).Count(&info.QuestionCount).Error; err != nil {
		return nil, apperror.Storage("Failed to load quiz", err)
	}

	userID, ok := auth.LearnerID(p)
	if !ok {
		return info, nil
	}

	var attempts []quizModels.QuizAttempt
	err = db.Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Order("attempt_number DESC").
		Find(&attempts).Error
	if err != nil {
		return nil, apperror.Storage("Failed to load quiz", err)
	}
	for _, a := range attempts {
		info.Attempts = append(info.Attempts, summarize(a, quiz.PassScore))
		if info.BestScore == nil || a.Score > *info.BestScore {
			best := a.Score
			info.BestScore = &best
		}
	}
	return info, nil
}

type Option struct {
	ID            uint   `json:"id"`
	Content       string `json:"content"`
	SequenceIndex int    `json:"sequence_index"`
}

type PaperQuestion struct {
	ID            uint     `json:"id"`
	Content       string   `json:"content"`
	QuestionType  string   `json:"question_type"`
	Section       string   `json:"section,omitempty"`
	ImageURL      string   `json:"image_url,omitempty"`
	AudioURL      string   `json:"audio_url,omitempty"`
	Points        float64  `json:"points"`
	SequenceIndex int      `json:"sequence_index"`
	Options       []Option `json:"answers"`
}

// Paper is a quiz as handed to a learner: no correctness flags, no explanations.
type Paper struct {
	Quiz      quizModels.Quiz `json:"quiz"`
	Questions []PaperQuestion `json:"questions"`
}

func (e *Engine) Start(ctx context.Context, p auth.Principal, quizID uint) (*Paper, error) {
	db := e.db.WithContext(ctx)

	quiz, err := findQuiz(db, quizID)
	if err != nil {
		return nil, err
	}
	if err := authorize(db, p, quiz); err != nil {
		return nil, err
	}

	questions, err := loadQuestions(db, quizID)
	if err != nil {
		return nil, err
	}

	paper := &Paper{Quiz: *quiz, Questions: make([]PaperQuestion, 0, len(questions))}
	for _, q := range questions {
		pq := PaperQuestion{
			ID:            q.ID,
			Content:       q.Content,
			QuestionType:  q.QuestionType,
			Section:       q.Section,
			ImageURL:      q.ImageURL,
			AudioURL:      q.AudioURL,
			Points:        q.Points,
			SequenceIndex: q.SequenceIndex,
			Options:       make([]Option, 0, len(q.Answers)),
		}
		for _, a := range q.Answers {
			pq.Options = append(pq.Options, Option{ID: a.ID, Content: a.Content, SequenceIndex: a.SequenceIndex})
		}
		paper.Questions = append(paper.Questions, pq)
	}
	return paper, nil
}

type SubmitInput struct {
	QuizID           uint
	Answers          map[uint]uint // question id -> chosen answer id
	TimeSpentSeconds int
}

type AttemptResult struct {
	Attempt       quizModels.QuizAttempt `json:"attempt"`
	QuizTitle     string                 `json:"quiz_title"`
	MaxScore      float64                `json:"max_score"`
	PassScore     float64                `json:"pass_score"`
	Passed        bool                   `json:"passed"`
	SectionScores map[string]float64     `json:"section_scores,omitempty"`
}

// Submit scores a submission and stores it as a new attempt. Earlier attempts
// are never touched.
func (e *Engine) Submit(ctx context.Context, p auth.Principal, in SubmitInput) (*AttemptResult, error) {
	var userID uint
	switch v := p.(type) {
	case auth.Learner:
		userID = v.UserID
	case auth.Admin:
		return nil, apperror.Forbidden("Admin accounts cannot submit quizzes")
	default:
		return nil, apperror.Auth("Please login")
	}
	if in.TimeSpentSeconds < 0 {
		return nil, apperror.Validation("Time spent cannot be negative")
	}

	db := e.db.WithContext(ctx)

	quiz, err := findQuiz(db, in.QuizID)
	if err != nil {
		return nil, err
	}
	if err := authorize(db, p, quiz); err != nil {
		return nil, err
	}

	questions, err := loadQuestions(db, quiz.ID)
	if err != nil {
		return nil, err
	}

	graded := Grade(questions, in.Answers)
	score := ScorerFor(quiz.ScoringMode).Score(graded, quiz.MaxScore)

	answersJSON, err := json.Marshal(in.Answers)
	if err != nil {
		return nil, apperror.Validation("Invalid answers")
	}
	attempt := quizModels.QuizAttempt{
		UserID:           userID,
		QuizID:           quiz.ID,
		Score:            score.Score,
		CorrectCount:     score.CorrectCount,
		TotalQuestions:   score.Total,
		TimeSpentSeconds: in.TimeSpentSeconds,
		Answers:          datatypes.JSON(answersJSON),
		SubmittedAt:      e.now(),
	}
	if score.SectionScores != nil {
		raw, err := json.Marshal(score.SectionScores)
		if err != nil {
			return nil, apperror.Storage("Failed to submit quiz", err)
		}
		attempt.SectionScores = datatypes.JSON(raw)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		// soft-deleted attempts still hold their number in the unique index
		var last int
		if err := tx.Unscoped().Model(&quizModels.QuizAttempt{}).
			Select("COALESCE(MAX(attempt_number), 0)").
			Where("user_id = ? AND quiz_id = ?", userID, quiz.ID).
			Scan(&last).Error; err != nil {
			return err
		}
		attempt.AttemptNumber = last + 1
		return tx.Create(&attempt).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, apperror.Conflict("Another submission for this quiz was saved at the same time, please try again", err)
	}
	if err != nil {
		return nil, apperror.Storage("Failed to submit quiz", err)
	}

	return &AttemptResult{
		Attempt:       attempt,
		QuizTitle:     quiz.Title,
		MaxScore:      quiz.MaxScore,
		PassScore:     quiz.PassScore,
		Passed:        attempt.Score >= quiz.PassScore,
		SectionScores: score.SectionScores,
	}, nil
}

// Grade compares each question's correct answer with the submitted one.
// A question without a submitted answer is wrong.
func Grade(questions []quizModels.Question, submitted map[uint]uint) []Graded {
	out := make([]Graded, 0, len(questions))
	for _, q := range questions {
		var correctID uint
		for _, a := range q.Answers {
			if a.IsCorrect {
				correctID = a.ID
				break
			}
		}
		chosen, ok := submitted[q.ID]
		out = append(out, Graded{
			QuestionID: q.ID,
			Section:    q.Section,
			Points:     q.Points,
			Correct:    ok && correctID != 0 && chosen == correctID,
		})
	}
	return out
}

// Result returns one attempt. Learners only see their own attempts.
func (e *Engine) Result(ctx context.Context, p auth.Principal, attemptID uint) (*AttemptResult, error) {
	db := e.db.WithContext(ctx)

	query := db.Where("id = ?", attemptID)
	switch v := p.(type) {
	case auth.Learner:
		query = query.Where("user_id = ?", v.UserID)
	case auth.Admin:
	default:
		return nil, apperror.Auth("Please login")
	}

	var attempt quizModels.QuizAttempt
	err := query.First(&attempt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("Result not found")
	}
	if err != nil {
		return nil, apperror.Storage("Failed to load result", err)
	}

	var quiz quizModels.Quiz
	if err := db.Unscoped().First(&quiz, attempt.QuizID).Error; err != nil {
		return nil, apperror.Storage("Failed to load result", err)
	}

	res := &AttemptResult{
		Attempt:   attempt,
		QuizTitle: quiz.Title,
		MaxScore:  quiz.MaxScore,
		PassScore: quiz.PassScore,
		Passed:    attempt.Score >= quiz.PassScore,
	}
	if len(attempt.SectionScores) > 0 {
		if err := json.Unmarshal(attempt.SectionScores, &res.SectionScores); err != nil {
			return nil, apperror.Storage("Failed to load result", err)
		}
	}
	return res, nil
}

// Answers reveals the answer key once the learner has submitted the quiz at least once.
func (e *Engine) Answers(ctx context.Context, p auth.Principal, quizID uint) ([]quizModels.Question, error) {
	db := e.db.WithContext(ctx)

	quiz, err := findQuiz(db, quizID)
	if err != nil {
		return nil, err
	}

	switch v := p.(type) {
	case auth.Admin:
	case auth.Learner:
		var attempts int64
		if err := db.Model(&quizModels.QuizAttempt{}).
			Where("user_id = ? AND quiz_id = ?", v.UserID, quiz.ID).
			Count(&attempts).Error; err != nil {
			return nil, apperror.Storage("Failed to load answers", err)
		}
		if attempts == 0 {
			return nil, apperror.Forbidden("Submit the quiz at least once to see the answers")
		}
	default:
		return nil, apperror.Auth("Please login")
	}

	return loadQuestions(db, quiz.ID)
}

func findQuiz(db *gorm.DB, quizID uint) (*quizModels.Quiz, error) {
	var quiz quizModels.Quiz
	err := db.First(&quiz, quizID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("Quiz not found")
	}
	if err != nil {
		return nil, apperror.Storage("Failed to load quiz", err)
	}
	return &quiz, nil
}

// authorize lets the admin through and requires learners to be enrolled in
// the quiz's course. Standalone quizzes are open to every learner.
func authorize(db *gorm.DB, p auth.Principal, quiz *quizModels.Quiz) error {
	switch v := p.(type) {
	case auth.Admin:
		return nil
	case auth.Learner:
		if quiz.CourseID == nil {
			return nil
		}
		var count int64
		err := db.Model(&courseModels.Enrollment{}).
			Where("user_id = ? AND course_id = ?", v.UserID, *quiz.CourseID).
			Count(&count).Error
		if err != nil {
			return apperror.Storage("Failed to load quiz", err)
		}
		if count == 0 {
			return apperror.Forbidden("You are not enrolled in this course")
		}
		return nil
	default:
		return apperror.Auth("Please login")
	}
}

func loadQuestions(db *gorm.DB, quizID uint) ([]quizModels.Question, error) {
	var questions []quizModels.Question
	err := db.Where("quiz_id = ?", quizID).
		Order("sequence_index ASC, id ASC").
		Preload("Answers", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("sequence_index ASC, id ASC")
		}).
		Find(&questions).Error
	if err != nil {
		return nil, apperror.Storage("Failed to load questions", err)
	}
	if len(questions) == 0 {
		return nil, apperror.NotFound("This quiz has no questions")
	}
	return questions, nil
}

func summarize(a quizModels.QuizAttempt, passScore float64) AttemptSummary {
	return AttemptSummary{
		ID:               a.ID,
		AttemptNumber:    a.AttemptNumber,
		Score:            a.Score,
		CorrectCount:     a.CorrectCount,
		TotalQuestions:   a.TotalQuestions,
		TimeSpentSeconds: a.TimeSpentSeconds,
		Passed:           a.Score >= passScore,
		SubmittedAt:      a.SubmittedAt,
	}
}
