package mailer

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/gethired/gethired/internal/config"

	"github.com/resend/resend-go/v2"
)

// Message is a fully rendered email ready for the provider.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// ResendMailer sends through the Resend API using the configured from
// identity. A missing API key turns every send into a logged no-op so
// local environments work without credentials.
type ResendMailer struct {
	client *resend.Client
	from   string
	logger *log.Logger
}

func NewResendMailer(cfg config.MailConfig, logger *log.Logger) *ResendMailer {
	m := &ResendMailer{
		from:   formatFrom(cfg.FromName, cfg.FromAddress),
		logger: logger,
	}
	if cfg.ResendAPIKey != "" {
		m.client = resend.NewClient(cfg.ResendAPIKey)
	} else if logger != nil {
		logger.Printf("[Mail] no API key configured, outgoing email disabled")
	}
	return m
}

func (m *ResendMailer) Send(ctx context.Context, msg Message) error {
	if strings.TrimSpace(msg.To) == "" {
		return fmt.Errorf("missing recipient")
	}
	if m.client == nil {
		if m.logger != nil {
			m.logger.Printf("[Mail] dropped (disabled) to=%s subject=%q", msg.To, msg.Subject)
		}
		return nil
	}

	_, err := m.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	})
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", msg.To, err)
	}
	return nil
}

func formatFrom(name, address string) string {
	if name == "" {
		return address
	}
	return fmt.Sprintf("%s <%s>", name, address)
}
