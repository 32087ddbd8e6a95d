package utils

import (
	"context"
	"fmt"
	"html"
	"strings"

	"learnhub/config"
	"learnhub/logger"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Mailer sends transactional email through SendGrid. Without an API key it
// only logs what it would have sent.
type Mailer struct {
	client *sendgrid.Client
	from   *mail.Email
}

func NewMailer(cfg *config.Config) *Mailer {
	m := &Mailer{from: mail.NewEmail(cfg.MailFromName, cfg.MailFromEmail)}
	if strings.TrimSpace(cfg.SendGridAPIKey) != "" {
		m.client = sendgrid.NewSendClient(cfg.SendGridAPIKey)
	}
	return m
}

func (m *Mailer) Enabled() bool { return m != nil && m.client != nil }

// SendEmail delivers one HTML message.
func (m *Mailer) SendEmail(ctx context.Context, toEmail, toName, subject, htmlBody string) error {
	if !m.Enabled() {
		logger.Log.Debug("Email skipped, SendGrid not configured", "to", toEmail, "subject", subject)
		return nil
	}

	message := mail.NewSingleEmail(m.from, subject, mail.NewEmail(toName, toEmail), "", htmlBody)
	resp, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid http %d: %s", resp.StatusCode, resp.Body)
	}

	logger.Log.Info("Email sent", "to", toEmail, "subject", subject)
	return nil
}

func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; }
			.header { background-color: #1F3A93; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1F2937; line-height: 1.6; }
			.highlight { text-align: center; color: #16A34A; margin: 20px 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>LEARNHUB</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; LearnHub English. Happy learning!
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// EnrollmentEmail is sent after a learner enrolls in a course.
func EnrollmentEmail(name, courseTitle string) (subject, body string) {
	subject = "Enrollment confirmed: " + courseTitle
	body = getEmailTemplate("Enrollment Successful!", fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>You have successfully enrolled in:</p>
		<h3 class="highlight">%s</h3>
		<p>All lessons are now available. Your progress is saved as you complete each one.</p>
	`, html.EscapeString(name), html.EscapeString(courseTitle)))
	return subject, body
}

// CompletionEmail is sent when the last lesson of a course is completed.
func CompletionEmail(name, courseTitle string) (subject, body string) {
	subject = "Course completed: " + courseTitle
	body = getEmailTemplate("Congratulations!", fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>You have completed every lesson of:</p>
		<h3 class="highlight">%s</h3>
		<p>Take the final quiz to check what you have learned.</p>
	`, html.EscapeString(name), html.EscapeString(courseTitle)))
	return subject, body
}
