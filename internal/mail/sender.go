package mail

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"

	"github.com/cdc-ai/personaproxy/internal/config"
	"github.com/cdc-ai/personaproxy/internal/domain"
)

// Sender delivers a single HTML message
type Sender interface {
	Send(ctx context.Context, to, subject, html string) error
}

// SMTPSender opens one authenticated STARTTLS session per message
type SMTPSender struct {
	cfg config.MailConfig
}

// NewSMTPSender creates a new SMTP sender
func NewSMTPSender(cfg config.MailConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

// Send connects, authenticates, sends and quits. Nothing is retried.
func (s *SMTPSender) Send(ctx context.Context, to, subject, html string) error {
	if s.cfg.Username == "" || s.cfg.Password == "" {
		return domain.ErrMailNotConfigured
	}

	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.cfg.FromName, s.cfg.Username); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, html)

	client, err := gomail.NewClient(s.cfg.Host,
		gomail.WithPort(s.cfg.Port),
		gomail.WithTLSPolicy(gomail.TLSMandatory),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.cfg.Username),
		gomail.WithPassword(s.cfg.Password),
	)
	if err != nil {
		return fmt.Errorf("failed to create smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
