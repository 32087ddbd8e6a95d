package quiz

import (
	"context"
	"testing"
	"time"

	"learnhub/apperror"
	"learnhub/database/dbtest"
	courseModels "learnhub/models/course"
	quizModels "learnhub/models/quiz"
	"learnhub/services/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var (
	learner  = auth.Learner{UserID: 1, Email: "jamie@example.com", Role: "LEARNER"}
	stranger = auth.Learner{UserID: 2, Email: "sam@example.com", Role: "LEARNER"}
	admin    = auth.Admin{Email: "admin@example.com"}
)

type seeded struct {
	db     *gorm.DB
	engine *Engine
	quiz   quizModels.Quiz
	// correct and wrong answer id per question, in question order
	correct []uint
	wrong   []uint
	qids    []uint
}

// seedQuiz creates a course quiz whose questions carry the given sections.
// Learner 1 is enrolled in the course.
func seedQuiz(t *testing.T, mode string, sections ...string) *seeded {
	t.Helper()
	db := dbtest.Open(t)

	c := courseModels.Course{Title: "IELTS Prep", Status: courseModels.StatusPublished}
	require.NoError(t, db.Create(&c).Error)
	now := time.Now()
	require.NoError(t, db.Create(&courseModels.Enrollment{
		UserID: learner.UserID, CourseID: c.ID, Status: courseModels.EnrollmentLearning, EnrolledAt: now, LastAccessedAt: now,
	}).Error)

	s := &seeded{db: db, engine: NewEngine(db)}
	s.quiz = quizModels.Quiz{CourseID: &c.ID, Title: "Mock test", MaxScore: 100, PassScore: 50, ScoringMode: mode}
	require.NoError(t, db.Create(&s.quiz).Error)

	for i, section := range sections {
		q := quizModels.Question{
			QuizID:        s.quiz.ID,
			Content:       "Question",
			Section:       section,
			Points:        1,
			SequenceIndex: i + 1,
			Explanation:   "Because.",
			Answers: []quizModels.Answer{
				{Content: "right", IsCorrect: true, SequenceIndex: 1},
				{Content: "wrong", SequenceIndex: 2},
			},
		}
		require.NoError(t, db.Create(&q).Error)
		s.qids = append(s.qids, q.ID)
		s.correct = append(s.correct, q.Answers[0].ID)
		s.wrong = append(s.wrong, q.Answers[1].ID)
	}
	return s
}

func repeat(section string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = section
	}
	return out
}

// answers picks the correct option for the questions in right, the wrong one otherwise.
func (s *seeded) answers(right ...int) map[uint]uint {
	isRight := map[int]bool{}
	for _, i := range right {
		isRight[i] = true
	}
	out := make(map[uint]uint, len(s.qids))
	for i, id := range s.qids {
		if isRight[i] {
			out[id] = s.correct[i]
		} else {
			out[id] = s.wrong[i]
		}
	}
	return out
}

func TestSubmitScoresThreeOfFour(t *testing.T) {
	s := seedQuiz(t, quizModels.ScoringSimple, repeat("", 4)...)

	res, err := s.engine.Submit(context.Background(), learner, SubmitInput{
		QuizID:           s.quiz.ID,
		Answers:          s.answers(0, 1, 2),
		TimeSpentSeconds: 300,
	})
	require.NoError(t, err)
	assert.Equal(t, 75.0, res.Attempt.Score)
	assert.Equal(t, 3, res.Attempt.CorrectCount)
	assert.Equal(t, 4, res.Attempt.TotalQuestions)
	assert.Equal(t, 1, res.Attempt.AttemptNumber)
	assert.True(t, res.Passed)
}

func TestSubmitMissingAnswerCountsWrong(t *testing.T) {
	s := seedQuiz(t, quizModels.ScoringSimple, repeat("", 4)...)

	answers := s.answers(0, 1, 2, 3)
	delete(answers, s.qids[3])
	answers[9999] = 1

	res, err := s.engine.Submit(context.Background(), learner, SubmitInput{QuizID: s.quiz.ID, Answers: answers})
	require.NoError(t, err)
	assert.Equal(t, 75.0, res.Attempt.Score)

	res, err = s.engine.Submit(context.Background(), learner, SubmitInput{QuizID: s.quiz.ID})
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Attempt.Score)
	assert.False(t, res.Passed)
}

func TestSubmitSectioned(t *testing.T) {
	sections := append(repeat(quizModels.SectionListening, 6), repeat(quizModels.SectionReading, 4)...)
	s := seedQuiz(t, quizModels.ScoringSectioned, sections...)

	// listening 0..5, reading 6..9
	res, err := s.engine.Submit(context.Background(), learner, SubmitInput{
		QuizID:  s.quiz.ID,
		Answers: s.answers(0, 1, 2, 6, 7),
	})
	require.NoError(t, err)
	assert.Equal(t, 50.0, res.Attempt.Score)
	assert.Equal(t, 25.0, res.SectionScores[quizModels.SectionListening])
	assert.Equal(t, 25.0, res.SectionScores[quizModels.SectionReading])

	stored, err := s.engine.Result(context.Background(), learner, res.Attempt.ID)
	require.NoError(t, err)
	assert.Equal(t, res.SectionScores, stored.SectionScores)
}

func TestAttemptNumbersIncrease(t *testing.T) {
	s := seedQuiz(t, quizModels.ScoringSimple, repeat("", 2)...)
	ctx := context.Background()

	for want := 1; want <= 3; want++ {
		res, err := s.engine.Submit(ctx, learner, SubmitInput{QuizID: s.quiz.ID, Answers: s.answers(0)})
		require.NoError(t, err)
		assert.Equal(t, want, res.Attempt.AttemptNumber)
	}

	info, err := s.engine.Info(ctx, learner, s.quiz.ID)
	require.NoError(t, err)
	require.Len(t, info.Attempts, 3)
	assert.Equal(t, 3, info.Attempts[0].AttemptNumber)
	assert.EqualValues(t, 2, info.QuestionCount)
	require.NotNil(t, info.BestScore)
	assert.Equal(t, 50.0, *info.BestScore)
}

func TestEmptyQuizIsRejected(t *testing.T) {
	s := seedQuiz(t, quizModels.ScoringSimple)

	_, err := s.engine.Submit(context.Background(), learner, SubmitInput{QuizID: s.quiz.ID})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	_, err = s.engine.Start(context.Background(), learner, s.quiz.ID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestAccessRules(t *testing.T) {
	s := seedQuiz(t, quizModels.ScoringSimple, repeat("", 2)...)
	ctx := context.Background()

	_, err := s.engine.Info(ctx, stranger, s.quiz.ID)
	assert.True(t, apperror.Is(err, apperror.KindForbidden))
	_, err = s.engine.Start(ctx, stranger, s.quiz.ID)
	assert.True(t, apperror.Is(err, apperror.KindForbidden))
	_, err = s.engine.Submit(ctx, stranger, SubmitInput{QuizID: s.quiz.ID})
	assert.True(t, apperror.Is(err, apperror.KindForbidden))

	_, err = s.engine.Info(ctx, admin, s.quiz.ID)
	assert.NoError(t, err)
	_, err = s.engine.Submit(ctx, admin, SubmitInput{QuizID: s.quiz.ID})
	assert.True(t, apperror.Is(err, apperror.KindForbidden))

	_, err = s.engine.Info(ctx, learner, 9999)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestStartWithholdsCorrectness(t *testing.T) {
	s := seedQuiz(t, quizModels.ScoringSimple, repeat("", 3)...)

	paper, err := s.engine.Start(context.Background(), learner, s.quiz.ID)
	require.NoError(t, err)
	require.Len(t, paper.Questions, 3)
	for i, q := range paper.Questions {
		assert.Equal(t, s.qids[i], q.ID)
		require.Len(t, q.Options, 2)
		assert.Equal(t, "right", q.Options[0].Content)
	}
}

func TestAnswersRequireAnAttempt(t *testing.T) {
	s := seedQuiz(t, quizModels.ScoringSimple, repeat("", 2)...)
	ctx := context.Background()

	_, err := s.engine.Answers(ctx, learner, s.quiz.ID)
	assert.True(t, apperror.Is(err, apperror.KindForbidden))

	_, err = s.engine.Submit(ctx, learner, SubmitInput{QuizID: s.quiz.ID, Answers: s.answers()})
	require.NoError(t, err)

	key, err := s.engine.Answers(ctx, learner, s.quiz.ID)
	require.NoError(t, err)
	require.Len(t, key, 2)
	assert.True(t, key[0].Answers[0].IsCorrect)
	assert.Equal(t, "Because.", key[0].Explanation)

	_, err = s.engine.Answers(ctx, admin, s.quiz.ID)
	assert.NoError(t, err)
}

func TestResultIsScopedToOwner(t *testing.T) {
	s := seedQuiz(t, quizModels.ScoringSimple, repeat("", 2)...)
	ctx := context.Background()

	res, err := s.engine.Submit(ctx, learner, SubmitInput{QuizID: s.quiz.ID, Answers: s.answers(0, 1)})
	require.NoError(t, err)

	own, err := s.engine.Result(ctx, learner, res.Attempt.ID)
	require.NoError(t, err)
	assert.True(t, own.Passed)
	assert.Equal(t, 100.0, own.Attempt.Score)

	_, err = s.engine.Result(ctx, stranger, res.Attempt.ID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	_, err = s.engine.Result(ctx, admin, res.Attempt.ID)
	assert.NoError(t, err)
}

func TestByCourseCountsQuestions(t *testing.T) {
	s := seedQuiz(t, quizModels.ScoringSimple, repeat("", 3)...)

	ctx := context.Background()

	list, err := s.engine.ByCourse(ctx, learner, *s.quiz.CourseID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.EqualValues(t, 3, list[0].QuestionCount)

	empty, err := s.engine.ByCourse(ctx, learner, 9999)
	require.NoError(t, err)
	assert.Empty(t, empty)

	require.NoError(t, s.db.Model(&courseModels.Course{}).Where("id = ?", *s.quiz.CourseID).
		Update("status", courseModels.StatusDraft).Error)

	hidden, err := s.engine.ByCourse(ctx, nil, *s.quiz.CourseID)
	require.NoError(t, err)
	assert.Empty(t, hidden)

	hidden, err = s.engine.ByCourse(ctx, learner, *s.quiz.CourseID)
	require.NoError(t, err)
	assert.Empty(t, hidden)

	list, err = s.engine.ByCourse(ctx, admin, *s.quiz.CourseID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSubmitNumberCollisionIsConflict(t *testing.T) {
	s := seedQuiz(t, quizModels.ScoringSimple, repeat("", 2)...)

	// Another submission takes the next attempt number between the read and the insert.
	raced := false
	require.NoError(t, s.db.Callback().Create().Before("gorm:create").Register("test:rival_attempt", func(tx *gorm.DB) {
		attempt, ok := tx.Statement.Dest.(*quizModels.QuizAttempt)
		if !ok || raced {
			return
		}
		raced = true
		rival := quizModels.QuizAttempt{
			UserID:        attempt.UserID,
			QuizID:        attempt.QuizID,
			AttemptNumber: attempt.AttemptNumber,
			SubmittedAt:   time.Now(),
		}
		if err := tx.Session(&gorm.Session{NewDB: true}).Create(&rival).Error; err != nil {
			_ = tx.AddError(err)
		}
	}))

	_, err := s.engine.Submit(context.Background(), learner, SubmitInput{QuizID: s.quiz.ID, Answers: s.answers(1)})
	require.True(t, raced)
	assert.True(t, apperror.Is(err, apperror.KindConflict), "got %v", err)
}

func TestSubmitNumbersPastDeletedAttempts(t *testing.T) {
	s := seedQuiz(t, quizModels.ScoringSimple, repeat("", 2)...)
	ctx := context.Background()

	first, err := s.engine.Submit(ctx, learner, SubmitInput{QuizID: s.quiz.ID, Answers: s.answers(1)})
	require.NoError(t, err)
	require.NoError(t, s.db.Delete(&quizModels.QuizAttempt{}, first.Attempt.ID).Error)

	next, err := s.engine.Submit(ctx, learner, SubmitInput{QuizID: s.quiz.ID, Answers: s.answers(0)})
	require.NoError(t, err)
	assert.Equal(t, 2, next.Attempt.AttemptNumber)
}
