package application

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
)

// Mailer delivers account emails.
type Mailer interface {
	SendVerification(ctx context.Context, to, token string) error
	SendPasswordReset(ctx context.Context, to, token string) error
}

// LogMailer writes the links it would send to the log. It is the default
// until an SMTP relay is configured.
type LogMailer struct {
	PortalURL string
}

func (m LogMailer) link(path, token string) string {
	return strings.TrimRight(m.PortalURL, "/") + path + "?token=" + url.QueryEscape(token)
}

func (m LogMailer) SendVerification(_ context.Context, to, token string) error {
	slog.Info("verification email", "to", to, "link", m.link("/verify-email", token))
	return nil
}

func (m LogMailer) SendPasswordReset(_ context.Context, to, token string) error {
	slog.Info("password reset email", "to", to, "link", m.link("/reset-password", token))
	return nil
}
