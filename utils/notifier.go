package utils

import (
	"context"
	"fmt"
	"time"

	"learnhub/models"
	courseModels "learnhub/models/course"

	"gorm.io/gorm"
)

// Notifier tells learners about enrollments and completed courses by email,
// and posts completions to the configured webhook. Delivery happens in the
// background so callers never wait on SendGrid.
type Notifier struct {
	db      *gorm.DB
	mailer  *Mailer
	webhook *Webhook
}

func NewNotifier(db *gorm.DB, mailer *Mailer, webhook *Webhook) *Notifier {
	return &Notifier{db: db, mailer: mailer, webhook: webhook}
}

func (n *Notifier) Enrolled(_ context.Context, userID, courseID uint) {
	Go("enrollment-email", func(ctx context.Context) error {
		return n.SendEnrollment(ctx, userID, courseID)
	})
}

func (n *Notifier) CourseCompleted(_ context.Context, userID, courseID uint) {
	Go("course-completed", func(ctx context.Context) error {
		return n.SendCompletion(ctx, userID, courseID)
	})
}

func (n *Notifier) SendEnrollment(ctx context.Context, userID, courseID uint) error {
	user, course, err := n.load(ctx, userID, courseID)
	if err != nil {
		return err
	}
	subject, body := EnrollmentEmail(user.FullName, course.Title)
	return n.mailer.SendEmail(ctx, user.Email, user.FullName, subject, body)
}

func (n *Notifier) SendCompletion(ctx context.Context, userID, courseID uint) error {
	user, course, err := n.load(ctx, userID, courseID)
	if err != nil {
		return err
	}

	subject, body := CompletionEmail(user.FullName, course.Title)
	mailErr := n.mailer.SendEmail(ctx, user.Email, user.FullName, subject, body)

	hookErr := n.webhook.Post(ctx, CompletionEvent{
		Event:       "course.completed",
		UserID:      user.ID,
		Email:       user.Email,
		CourseID:    course.ID,
		CourseTitle: course.Title,
		CompletedAt: time.Now(),
	})

	if mailErr != nil {
		return mailErr
	}
	return hookErr
}

func (n *Notifier) load(ctx context.Context, userID, courseID uint) (*models.User, *courseModels.Course, error) {
	db := n.db.WithContext(ctx)

	var user models.User
	if err := db.Select("id", "email", "full_name").First(&user, userID).Error; err != nil {
		return nil, nil, fmt.Errorf("load user %d: %w", userID, err)
	}
	var course courseModels.Course
	if err := db.Select("id", "title").First(&course, courseID).Error; err != nil {
		return nil, nil, fmt.Errorf("load course %d: %w", courseID, err)
	}
	return &user, &course, nil
}
