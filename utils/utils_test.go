package utils

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"learnhub/config"
	"learnhub/database/dbtest"
	"learnhub/models"
	courseModels "learnhub/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmailBodiesEscapeInput(t *testing.T) {
	subject, body := EnrollmentEmail("<b>Jamie</b>", "Tenses & Aspect")
	assert.Equal(t, "Enrollment confirmed: Tenses & Aspect", subject)
	assert.Contains(t, body, "&lt;b&gt;Jamie&lt;/b&gt;")
	assert.Contains(t, body, "Tenses &amp; Aspect")

	_, body = CompletionEmail("Jamie", "Small talk")
	assert.Contains(t, body, "Small talk")
}

func TestMailerWithoutKeyIsNoop(t *testing.T) {
	m := NewMailer(&config.Config{MailFromEmail: "noreply@example.com"})
	assert.False(t, m.Enabled())
	assert.NoError(t, m.SendEmail(context.Background(), "a@example.com", "A", "Hi", "<p>hi</p>"))
}

func TestWebhookPostsJSON(t *testing.T) {
	received := make(chan CompletionEvent, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var ev CompletionEvent
		_ = json.NewDecoder(r.Body).Decode(&ev)
		received <- ev
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	hook := NewWebhook(srv.URL)
	require.NoError(t, hook.Post(context.Background(), CompletionEvent{Event: "course.completed", UserID: 4}))

	ev := <-received
	assert.Equal(t, "course.completed", ev.Event)
	assert.EqualValues(t, 4, ev.UserID)
}

func TestWebhookReportsHTTPErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	assert.Error(t, NewWebhook(srv.URL).Post(context.Background(), CompletionEvent{}))

	var disabled *Webhook
	assert.NoError(t, disabled.Post(context.Background(), CompletionEvent{}))
	assert.Nil(t, NewWebhook(""))
}

func TestNotifierSendCompletion(t *testing.T) {
	db := dbtest.Open(t)
	user := models.User{Username: "jamie", Email: "jamie@example.com", Password: "x", FullName: "Jamie"}
	require.NoError(t, db.Create(&user).Error)
	course := courseModels.Course{Title: "Small talk"}
	require.NoError(t, db.Create(&course).Error)

	received := make(chan CompletionEvent, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var ev CompletionEvent
		_ = json.NewDecoder(r.Body).Decode(&ev)
		received <- ev
	}))
	defer srv.Close()

	n := NewNotifier(db, NewMailer(&config.Config{}), NewWebhook(srv.URL))
	require.NoError(t, n.SendCompletion(context.Background(), user.ID, course.ID))

	ev := <-received
	assert.Equal(t, "jamie@example.com", ev.Email)
	assert.Equal(t, "Small talk", ev.CourseTitle)

	assert.Error(t, n.SendEnrollment(context.Background(), 999, course.ID))
}

func TestGoRunsInBackground(t *testing.T) {
	done := make(chan struct{})
	Go("test", func(ctx context.Context) error {
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		close(done)
		return errors.New("logged, not returned")
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("background task did not run")
	}
}

type fakeReconciler struct {
	calls int
	err   error
}

func (f *fakeReconciler) ReconcileAll(context.Context) (int, error) {
	f.calls++
	return 3, f.err
}

func TestProgressScheduler(t *testing.T) {
	_, err := InitializeProgressScheduler("not a schedule", &fakeReconciler{})
	assert.Error(t, err)

	r := &fakeReconciler{}
	c, err := InitializeProgressScheduler("0 3 * * *", r)
	require.NoError(t, err)
	<-c.Stop().Done()
	assert.Len(t, c.Entries(), 1)

	RunProgressReconciliation(r)
	r.err = errors.New("boom")
	RunProgressReconciliation(r)
	assert.Equal(t, 2, r.calls)
}
