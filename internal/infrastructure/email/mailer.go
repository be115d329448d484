// Package email sends transactional mail through Resend.
package email

import (
	"context"
	"fmt"

	"github.com/resendlabs/resend-go"
	"github.com/rs/zerolog"

	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/ports"
)

// Config holds the Resend credentials and sender identity.
type Config struct {
	APIKey   string
	From     string
	FromName string
}

// ResendMailer implements ports.Mailer with the Resend API.
type ResendMailer struct {
	client *resend.Client
	from   string
}

// NewMailer returns a Resend-backed mailer, or a mailer that only logs when
// no API key is configured.
func NewMailer(cfg Config, log zerolog.Logger) ports.Mailer {
	if cfg.APIKey == "" {
		log.Warn().Msg("RESEND_API_KEY not set, emails will only be logged")
		return LogMailer{log: log}
	}
	from := cfg.From
	if cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", cfg.FromName, cfg.From)
	}
	return &ResendMailer{client: resend.NewClient(cfg.APIKey), from: from}
}

func (m *ResendMailer) Send(ctx context.Context, msg ports.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := m.client.Emails.Send(&resend.SendEmailRequest{
		From:    m.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
	})
	if err != nil {
		return fmt.Errorf("send email %q: %w", msg.Subject, err)
	}
	return nil
}

// LogMailer records messages in the log instead of sending them.
type LogMailer struct {
	log zerolog.Logger
}

func (m LogMailer) Send(_ context.Context, msg ports.Message) error {
	m.log.Info().Str("to", msg.To).Str("subject", msg.Subject).Msg("email not sent (no mail provider)")
	return nil
}
