package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// CompletionEvent is posted to COMPLETION_WEBHOOK_URL when a learner finishes a course.
type CompletionEvent struct {
	Event       string    `json:"event"`
	UserID      uint      `json:"user_id"`
	Email       string    `json:"email"`
	CourseID    uint      `json:"course_id"`
	CourseTitle string    `json:"course_title"`
	CompletedAt time.Time `json:"completed_at"`
}

type Webhook struct {
	client *resty.Client
	url    string
}

// NewWebhook returns nil when url is empty; a nil Webhook posts nothing.
func NewWebhook(url string) *Webhook {
	if url == "" {
		return nil
	}
	client := resty.New().
		SetTimeout(10*time.Second).
		SetHeader("Content-Type", "application/json")
	return &Webhook{client: client, url: url}
}

func (w *Webhook) Post(ctx context.Context, payload interface{}) error {
	if w == nil {
		return nil
	}
	resp, err := w.client.R().
		SetContext(ctx).
		SetBody(payload).
		Post(w.url)
	if err != nil {
		return fmt.Errorf("webhook: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("webhook http %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}
