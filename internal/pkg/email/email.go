package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"time"

	"github.com/rylimitless/asamp-backend-go/internal/config"
	"github.com/rylimitless/asamp-backend-go/internal/domain/report"
)

//go:embed templates/*.html
var templateFS embed.FS

const maxRetries = 3

// EmailService sends transactional mail. Delivery is best effort:
// with no SMTP host configured every send becomes a logged no-op.
type EmailService interface {
	SendReport(ctx context.Context, recipients []string, subject string, metrics report.Metrics) error
	SendCheckoutReminder(to, userName, date string) error
}

type emailServiceImpl struct {
	cfg       config.SMTPConfig
	templates *template.Template
}

func NewEmailService(cfg config.SMTPConfig) (EmailService, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &emailServiceImpl{
		cfg:       cfg,
		templates: tmpl,
	}, nil
}

type reportEmailData struct {
	Subject             string
	PeriodStart         string
	PeriodEnd           string
	TotalMembers        int
	TotalAttendanceLogs int
	ComplianceRate      string
	AverageWorkingHours string
	AbsenceDays         int
	TopSquads           []report.SquadScore
}

// SendReport renders the report summary and mails it to every
// recipient.
func (s *emailServiceImpl) SendReport(ctx context.Context, recipients []string, subject string, metrics report.Metrics) error {
	data := reportEmailData{
		Subject:             subject,
		PeriodStart:         metrics.PeriodStart.Format("2006-01-02"),
		PeriodEnd:           metrics.PeriodEnd.Format("2006-01-02"),
		TotalMembers:        metrics.TotalMembers,
		TotalAttendanceLogs: metrics.TotalAttendanceLogs,
		ComplianceRate:      fmt.Sprintf("%.2f%%", metrics.ComplianceRate),
		AverageWorkingHours: fmt.Sprintf("%.2fh", metrics.AverageWorkingHours),
		AbsenceDays:         metrics.AbsenceDays,
		TopSquads:           metrics.TopSquads,
	}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "report.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	var lastErr error
	for _, to := range recipients {
		if err := s.sendHTML(to, subject, body.String()); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

type reminderEmailData struct {
	UserName string
	Date     string
}

// SendCheckoutReminder nudges a member who forgot to check out.
func (s *emailServiceImpl) SendCheckoutReminder(to, userName, date string) error {
	data := reminderEmailData{
		UserName: userName,
		Date:     date,
	}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "checkout_reminder.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return s.sendHTML(to, "Reminder: you have not checked out", body.String())
}

func (s *emailServiceImpl) sendHTML(to, subject, htmlBody string) error {
	if s.cfg.Host == "" {
		slog.Warn("SMTP not configured, skipping email send", "to", to, "subject", subject)
		return nil
	}

	from := s.cfg.From

	headers := fmt.Sprintf("From: %s <%s>\r\n", s.cfg.FromName, from)
	headers += fmt.Sprintf("To: %s\r\n", to)
	headers += fmt.Sprintf("Subject: %s\r\n", subject)
	headers += "MIME-Version: 1.0\r\n"
	headers += "Content-Type: text/html; charset=\"UTF-8\"\r\n"
	headers += "\r\n"

	message := []byte(headers + htmlBody)

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err := smtp.SendMail(addr, auth, from, []string{to}, message)
		if err == nil {
			slog.Info("Email sent successfully", "to", to, "subject", subject, "attempt", attempt)
			return nil
		}

		lastErr = err
		slog.Error("Failed to send email",
			"to", to,
			"subject", subject,
			"attempt", attempt,
			"max_retries", maxRetries,
			"error", err,
		)

		if attempt < maxRetries {
			time.Sleep(time.Duration(1<<(attempt-1)) * time.Second)
		}
	}

	return fmt.Errorf("failed to send email after %d attempts: %w", maxRetries, lastErr)
}
