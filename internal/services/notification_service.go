// internal/services/notification_service.go
package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/swapkaro/swapkaro-backend/internal/config"
	"github.com/swapkaro/swapkaro-backend/internal/models"
	"github.com/swapkaro/swapkaro-backend/internal/realtime"
	"github.com/swapkaro/swapkaro-backend/internal/repository"
)

const notificationListLimit = 50

type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer sends html mail through the configured relay. Without a host it only logs.
type SMTPMailer struct {
	config config.EmailConfig
}

func NewSMTPMailer(cfg config.EmailConfig) *SMTPMailer {
	return &SMTPMailer{config: cfg}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	if m.config.SMTPHost == "" {
		logrus.WithFields(logrus.Fields{"to": to, "subject": subject}).Info("Email not configured, skipping send")
		return nil
	}

	auth := smtp.PlainAuth("", m.config.SMTPUsername, m.config.SMTPPassword, m.config.SMTPHost)

	from := m.config.FromEmail
	if m.config.FromName != "" {
		from = fmt.Sprintf("%s <%s>", m.config.FromName, m.config.FromEmail)
	}
	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s", from, to, subject, body))

	addr := fmt.Sprintf("%s:%s", m.config.SMTPHost, m.config.SMTPPort)
	return smtp.SendMail(addr, auth, m.config.FromEmail, []string{to}, msg)
}

type EmailTemplate struct {
	Subject string
	Body    string
}

// Notice is an in-app notification; it is also emailed when a template exists for its type.
type Notice struct {
	Type      string
	Title     string
	Message   string
	RelatedID string
	Data      map[string]interface{}
}

type NotificationService struct {
	activity repository.ActivityRepository
	notifier realtime.Notifier
	mailer   Mailer
	config   *config.Config
}

func NewNotificationService(activity repository.ActivityRepository, notifier realtime.Notifier, mailer Mailer, config *config.Config) *NotificationService {
	return &NotificationService{
		activity: activity,
		notifier: notifier,
		mailer:   mailer,
		config:   config,
	}
}

func (s *NotificationService) SendOTPEmail(user *models.User, code string, ttl time.Duration) error {
	data := map[string]interface{}{
		"Name":      displayName(user),
		"OTP":       code,
		"ExpiresIn": fmt.Sprintf("%d minutes", int(ttl.Minutes())),
	}
	return s.sendTemplate(user.Email, "otp", data)
}

// Notify stores the notice, pushes it to the recipient's open sockets and
// emails it. Failures are logged; the caller's operation has already happened.
func (s *NotificationService) Notify(ctx context.Context, recipient *models.User, notice Notice) {
	notification := &models.Notification{
		UserID:    recipient.ID.String(),
		Type:      notice.Type,
		Title:     notice.Title,
		Message:   notice.Message,
		RelatedID: notice.RelatedID,
	}

	logger := logrus.WithFields(logrus.Fields{
		"user_id": notification.UserID,
		"type":    notice.Type,
	})

	if err := s.activity.SaveNotification(ctx, notification); err != nil {
		logger.WithError(err).Error("Failed to save notification")
	}

	if s.notifier != nil {
		s.notifier.Push(notification.UserID, "notification", notification)
	}

	if _, ok := emailTemplates[notice.Type]; ok && recipient.Email != "" {
		data := map[string]interface{}{
			"Name":    displayName(recipient),
			"Title":   notice.Title,
			"Message": notice.Message,
			"URL":     s.config.Frontend.BaseURL,
		}
		for k, v := range notice.Data {
			data[k] = v
		}
		if err := s.sendTemplate(recipient.Email, notice.Type, data); err != nil {
			logger.WithError(err).Warn("Failed to send notification email")
		}
	}
}

func (s *NotificationService) List(ctx context.Context, userID uuid.UUID) ([]models.Notification, error) {
	notifications, err := s.activity.ListNotifications(ctx, userID.String(), notificationListLimit)
	if err != nil {
		return nil, unexpected("failed to load notifications", err)
	}
	return notifications, nil
}

func (s *NotificationService) sendTemplate(to, templateType string, data map[string]interface{}) error {
	tmpl := getEmailTemplate(templateType)

	subject, err := renderTemplate(tmpl.Subject, data)
	if err != nil {
		return fmt.Errorf("failed to render email subject: %w", err)
	}
	body, err := renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.mailer.Send(to, subject, body)
}

func displayName(user *models.User) string {
	if user.Name != "" {
		return user.Name
	}
	return user.Username
}

func renderTemplate(templateStr string, data interface{}) (string, error) {
	tmpl, err := template.New("email").Parse(templateStr)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

var emailTemplates = map[string]EmailTemplate{
	"otp": {
		Subject: "Your Swapkaro verification code",
		Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Hello {{.Name}},</h2>
	<p>Your verification code is <strong>{{.OTP}}</strong>.</p>
	<p>It expires in {{.ExpiresIn}}. If you did not sign up, ignore this email.</p>
	<p>Team Swapkaro</p>
</body>
</html>`,
	},
	models.NotificationBargainReceived: {
		Subject: "{{.Title}}",
		Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Hello {{.Name}},</h2>
	<p>{{.Message}}</p>
	<a href="{{.URL}}">Review the offer</a>
	<p>Team Swapkaro</p>
</body>
</html>`,
	},
	models.NotificationBargainAccepted: {
		Subject: "{{.Title}}",
		Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Good news {{.Name}}!</h2>
	<p>{{.Message}}</p>
	<p>The bargained price now applies when you check out.</p>
	<a href="{{.URL}}">Go to your cart</a>
	<p>Team Swapkaro</p>
</body>
</html>`,
	},
	models.NotificationOrderPlaced: {
		Subject: "{{.Title}}",
		Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Hello {{.Name}},</h2>
	<p>{{.Message}}</p>
	<a href="{{.URL}}">Open Swapkaro</a>
	<p>Team Swapkaro</p>
</body>
</html>`,
	},
}

func getEmailTemplate(templateType string) EmailTemplate {
	if tmpl, exists := emailTemplates[templateType]; exists {
		return tmpl
	}

	// Default template
	return EmailTemplate{
		Subject: "Notification",
		Body:    "<p>{{.Message}}</p>",
	}
}
