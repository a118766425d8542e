package services

import (
	"context"
	"log/slog"

	"github.com/arzan03/PaperBot/internal/models"
)

// Mailer delivers account emails.
type Mailer interface {
	SendEmailVerification(ctx context.Context, user *models.User, link string) error
	SendPasswordReset(ctx context.Context, user *models.User, link string) error
	SendOTP(ctx context.Context, user *models.User, otp string) error
}

// LogMailer writes the messages it would send to the debug log, so links
// and codes never reach production logs.
type LogMailer struct {
	logger *slog.Logger
}

func NewLogMailer(logger *slog.Logger) *LogMailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMailer{logger: logger}
}

func (m *LogMailer) SendEmailVerification(ctx context.Context, user *models.User, link string) error {
	m.logger.DebugContext(ctx, "email verification", "to", user.Email, "link", link)
	return nil
}

func (m *LogMailer) SendPasswordReset(ctx context.Context, user *models.User, link string) error {
	m.logger.DebugContext(ctx, "password reset", "to", user.Email, "link", link)
	return nil
}

func (m *LogMailer) SendOTP(ctx context.Context, user *models.User, otp string) error {
	m.logger.DebugContext(ctx, "login otp", "to", user.Email, "otp", otp)
	return nil
}
