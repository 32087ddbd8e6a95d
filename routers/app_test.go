package routers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"learnhub/config"
	"learnhub/database/dbtest"
	courseModels "learnhub/models/course"
	quizModels "learnhub/models/quiz"
	"learnhub/services/auth"
	"learnhub/services/catalog"
	"learnhub/services/progress"
	"learnhub/services/quiz"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type fixture struct {
	app       *fiber.App
	db        *gorm.DB
	course    courseModels.Course
	draft     courseModels.Course
	lessons   []courseModels.Lesson
	quiz      quizModels.Quiz
	questions []quizModels.Question
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.Open(t)

	admin, err := auth.NewAdminAccount("admin@example.com", "admin", "Site Admin", "admin-secret", bcrypt.MinCost)
	require.NoError(t, err)
	tokens := auth.NewTokenManager("test-secret", time.Hour)

	app := NewApp(&config.Config{AppEnv: "test"}, Services{
		Credentials: auth.NewCredentialStore(db, admin, tokens, bcrypt.MinCost),
		Catalog:     catalog.NewService(db, nil),
		Progress:    progress.NewTracker(db, nil),
		Quiz:        quiz.NewEngine(db),
	})

	f := &fixture{app: app, db: db}

	category := courseModels.Category{Name: "Speaking"}
	require.NoError(t, db.Create(&category).Error)
	f.course = courseModels.Course{Title: "Small talk", CategoryID: category.ID, Level: "A2", Status: courseModels.StatusPublished}
	require.NoError(t, db.Create(&f.course).Error)
	f.draft = courseModels.Course{Title: "Unreleased", Status: courseModels.StatusDraft}
	require.NoError(t, db.Create(&f.draft).Error)

	for i := 1; i <= 2; i++ {
		l := courseModels.Lesson{CourseID: f.course.ID, Title: fmt.Sprintf("Lesson %d", i), SequenceIndex: i}
		require.NoError(t, db.Create(&l).Error)
		f.lessons = append(f.lessons, l)
	}

	f.quiz = quizModels.Quiz{CourseID: &f.course.ID, Title: "Check-in", MaxScore: 100, PassScore: 50, ScoringMode: quizModels.ScoringSimple}
	require.NoError(t, db.Create(&f.quiz).Error)
	for i := 1; i <= 2; i++ {
		q := quizModels.Question{
			QuizID:        f.quiz.ID,
			Content:       fmt.Sprintf("Question %d", i),
			Points:        1,
			SequenceIndex: i,
			Answers: []quizModels.Answer{
				{Content: "right", IsCorrect: true, SequenceIndex: 1},
				{Content: "wrong", SequenceIndex: 2},
			},
		}
		require.NoError(t, db.Create(&q).Error)
		f.questions = append(f.questions, q)
	}
	return f
}

func (f *fixture) do(t *testing.T, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func (f *fixture) login(t *testing.T, email, password string) string {
	t.Helper()
	status, env := f.do(t, fiber.MethodPost, "/api/auth/login", "", fiber.Map{"email": email, "password": password})
	require.Equal(t, fiber.StatusOK, status, env.Message)

	var result auth.LoginResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	return result.Token
}

func (f *fixture) registerAndLogin(t *testing.T) string {
	t.Helper()
	status, env := f.do(t, fiber.MethodPost, "/api/auth/register", "", fiber.Map{
		"fullName": "Jamie Doe",
		"email":    "jamie@example.com",
		"username": "jamie",
		"password": "secret1",
	})
	require.Equal(t, fiber.StatusCreated, status, env.Message)
	return f.login(t, "jamie@example.com", "secret1")
}

func TestLearnerJourney(t *testing.T) {
	f := newFixture(t)
	token := f.registerAndLogin(t)

	status, env := f.do(t, fiber.MethodGet, "/api/courses", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	var courses []courseModels.Course
	require.NoError(t, json.Unmarshal(env.Data, &courses))
	require.Len(t, courses, 1)
	assert.Equal(t, "Small talk", courses[0].Title)

	status, env = f.do(t, fiber.MethodGet, "/api/courses/my/courses", token, nil)
	require.Equal(t, fiber.StatusOK, status, env.Message)
	assert.JSONEq(t, `[]`, string(env.Data))

	status, _ = f.do(t, fiber.MethodPost, "/api/courses/enroll", token, fiber.Map{"courseId": f.course.ID})
	require.Equal(t, fiber.StatusCreated, status)

	status, env = f.do(t, fiber.MethodPost, "/api/courses/enroll", token, fiber.Map{"courseId": f.course.ID})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.False(t, env.Success)
	assert.Equal(t, "You are already enrolled in this course", env.Message)

	status, _ = f.do(t, fiber.MethodPost, "/api/courses/enroll", token, fiber.Map{"courseId": f.draft.ID})
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = f.do(t, fiber.MethodPost, fmt.Sprintf("/api/lessons/%d/complete", f.lessons[0].ID), token, fiber.Map{"timeSpent": 60})
	require.Equal(t, fiber.StatusOK, status)

	// Legacy body form
	status, env = f.do(t, fiber.MethodPost, "/api/lessons/complete", token, fiber.Map{"lessonId": f.lessons[1].ID, "timeSpent": 30})
	require.Equal(t, fiber.StatusOK, status, env.Message)
	var completion progress.Completion
	require.NoError(t, json.Unmarshal(env.Data, &completion))
	assert.Equal(t, 100.0, completion.Enrollment.Progress)
	assert.Equal(t, courseModels.EnrollmentCompleted, completion.Enrollment.Status)

	status, env = f.do(t, fiber.MethodGet, fmt.Sprintf("/api/quiz/%d/answers", f.quiz.ID), token, nil)
	assert.Equal(t, fiber.StatusForbidden, status, env.Message)

	status, env = f.do(t, fiber.MethodPost, "/api/quiz/submit", token, fiber.Map{
		"quizId": f.quiz.ID,
		"answers": []fiber.Map{
			{"questionId": f.questions[0].ID, "answerId": f.questions[0].Answers[0].ID},
			{"questionId": f.questions[1].ID, "answerId": f.questions[1].Answers[1].ID},
		},
		"timeSpent": 120,
	})
	require.Equal(t, fiber.StatusCreated, status, env.Message)
	var result quiz.AttemptResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, 50.0, result.Attempt.Score)
	assert.Equal(t, 1, result.Attempt.AttemptNumber)
	assert.True(t, result.Passed)

	status, _ = f.do(t, fiber.MethodGet, fmt.Sprintf("/api/quiz/result/%d", result.Attempt.ID), token, nil)
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = f.do(t, fiber.MethodGet, fmt.Sprintf("/api/quiz/%d/answers", f.quiz.ID), token, nil)
	assert.Equal(t, fiber.StatusOK, status)

	status, env = f.do(t, fiber.MethodPost, fmt.Sprintf("/api/courses/%d/reviews", f.course.ID), token, fiber.Map{"rating": 4, "comment": "Useful"})
	require.Equal(t, fiber.StatusCreated, status, env.Message)

	status, env = f.do(t, fiber.MethodPost, "/api/courses/rate", token, fiber.Map{"courseId": f.course.ID, "rating": 5})
	require.Equal(t, fiber.StatusOK, status, env.Message)
	var review catalog.ReviewResult
	require.NoError(t, json.Unmarshal(env.Data, &review))
	assert.True(t, review.Updated)
	assert.Equal(t, 5.0, review.AverageRating)
}

func TestAuthenticationAndAdminAccess(t *testing.T) {
	f := newFixture(t)
	learnerToken := f.registerAndLogin(t)
	adminToken := f.login(t, "admin@example.com", "admin-secret")

	status, env := f.do(t, fiber.MethodGet, "/api/admin/dashboard/stats", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.False(t, env.Success)

	status, _ = f.do(t, fiber.MethodGet, "/api/admin/dashboard/stats", "not-a-token", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = f.do(t, fiber.MethodGet, "/api/admin/dashboard/stats", learnerToken, nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = f.do(t, fiber.MethodGet, "/api/admin/dashboard/stats", adminToken, nil)
	assert.Equal(t, fiber.StatusOK, status)

	status, env = f.do(t, fiber.MethodGet, fmt.Sprintf("/api/admin/courses/%d/enrollments?page=1&limit=5", f.course.ID), adminToken, nil)
	require.Equal(t, fiber.StatusOK, status, env.Message)
	assert.Contains(t, string(env.Data), `"pagination"`)

	status, env = f.do(t, fiber.MethodGet, "/api/admin/users?search=jamie", adminToken, nil)
	require.Equal(t, fiber.StatusOK, status, env.Message)
	assert.Contains(t, string(env.Data), "jamie@example.com")

	status, _ = f.do(t, fiber.MethodPost, "/api/admin/progress/reconcile", adminToken, nil)
	assert.Equal(t, fiber.StatusOK, status)

	// The admin is not a learner
	status, _ = f.do(t, fiber.MethodPost, "/api/courses/enroll", adminToken, fiber.Map{"courseId": f.course.ID})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, env = f.do(t, fiber.MethodGet, "/api/auth/profile", adminToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(env.Data), `"is_admin":true`)

	status, _ = f.do(t, fiber.MethodPut, "/api/auth/change-password", adminToken, fiber.Map{"oldPassword": "admin-secret", "newPassword": "another1"})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = f.do(t, fiber.MethodPost, "/api/auth/login", "", fiber.Map{"email": "jamie@example.com", "password": "wrong"})
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestRequestValidation(t *testing.T) {
	f := newFixture(t)
	token := f.registerAndLogin(t)

	status, env := f.do(t, fiber.MethodPost, "/api/auth/register", "", fiber.Map{
		"fullName": "Sam",
		"email":    "not-an-email",
		"username": "sa",
		"password": "123",
	})
	require.Equal(t, fiber.StatusBadRequest, status)
	var fields map[string]string
	require.NoError(t, json.Unmarshal(env.Data, &fields))
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "username")
	assert.Contains(t, fields, "password")

	status, env = f.do(t, fiber.MethodGet, "/api/courses/abc", "", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Invalid Course ID!", env.Message)

	status, _ = f.do(t, fiber.MethodGet, "/api/courses?level=Z9", "", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, env = f.do(t, fiber.MethodPost, fmt.Sprintf("/api/courses/%d/reviews", f.course.ID), token, fiber.Map{"rating": 9})
	require.Equal(t, fiber.StatusBadRequest, status)
	require.NoError(t, json.Unmarshal(env.Data, &fields))
	assert.Contains(t, fields, "rating")
	assert.Contains(t, fields, "comment")

	status, _ = f.do(t, fiber.MethodPost, "/api/quiz/submit", token, fiber.Map{
		"quizId": f.quiz.ID,
		"answers": []fiber.Map{
			{"questionId": f.questions[0].ID, "answerId": f.questions[0].Answers[0].ID},
			{"questionId": f.questions[0].ID, "answerId": f.questions[0].Answers[1].ID},
		},
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestAnonymousLessonAccessAndFallbacks(t *testing.T) {
	f := newFixture(t)

	status, env := f.do(t, fiber.MethodGet, fmt.Sprintf("/api/lessons/%d", f.lessons[0].ID), "", nil)
	require.Equal(t, fiber.StatusOK, status, env.Message)
	assert.Contains(t, string(env.Data), "Lesson 1")

	status, _ = f.do(t, fiber.MethodGet, fmt.Sprintf("/api/lessons/course/%d", f.course.ID), "", nil)
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = f.do(t, fiber.MethodGet, fmt.Sprintf("/api/quiz/%d/info", f.quiz.ID), "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = f.do(t, fiber.MethodGet, fmt.Sprintf("/api/lessons/course/%d", f.draft.ID), "", nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	for _, path := range []string{"/api/does-not-exist", "/api/quiz/nope", "/api/admin/nope"} {
		status, env = f.do(t, fiber.MethodGet, path, "", nil)
		assert.Equal(t, fiber.StatusNotFound, status, path)
		assert.Equal(t, "Route not found", env.Message, path)
	}

	resp, err := f.app.Test(httptest.NewRequest(fiber.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var health map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "OK", health["status"])
}
