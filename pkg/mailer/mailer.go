package mailer

import (
	"context"
	"fmt"

	gomail "gopkg.in/gomail.v2"

	"github.com/staffhubhq/staffhub-backend/pkg/config"
	"github.com/staffhubhq/staffhub-backend/pkg/logger"
)

// Message is a plain-text email to be delivered.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers outbound email.
type Sender interface {
	Send(ctx context.Context, msg Message) error
	SendAsync(ctx context.Context, msg Message)
}

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type mailer struct {
	dialer dialer
	from   string
	logg   *logger.Logger
}

// New builds an SMTP-backed Sender. Returns a no-op sender when SMTP is not
// configured so callers never have to branch.
func New(cfg config.SMTPConfig, logg *logger.Logger) (Sender, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if !cfg.Enabled() {
		return &noopMailer{logg: logg}, nil
	}

	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return &mailer{
		dialer: d,
		from:   cfg.From,
		logg:   logg,
	}, nil
}

func (m *mailer) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return fmt.Errorf("recipient is required")
	}

	message := gomail.NewMessage()
	message.SetHeader("From", m.from)
	message.SetHeader("To", msg.To)
	message.SetHeader("Subject", msg.Subject)
	message.SetBody("text/plain", msg.Body)

	if err := m.dialer.DialAndSend(message); err != nil {
		return fmt.Errorf("sending email to %s: %w", msg.To, err)
	}
	return nil
}

// SendAsync delivers the message on a background goroutine. Failures are
// logged, never surfaced to the request path.
func (m *mailer) SendAsync(ctx context.Context, msg Message) {
	entry := m.logg.WithField(ctx, "email_to", msg.To)
	go func() {
		if err := m.Send(context.Background(), msg); err != nil {
			m.logg.Error(entry, "async email delivery failed", err)
			return
		}
		m.logg.Info(entry, "email delivered")
	}()
}

type noopMailer struct {
	logg *logger.Logger
}

func (n *noopMailer) Send(ctx context.Context, msg Message) error {
	n.logg.Info(n.logg.WithField(ctx, "email_to", msg.To), "smtp disabled, skipping email")
	return nil
}

func (n *noopMailer) SendAsync(ctx context.Context, msg Message) {
	_ = n.Send(ctx, msg)
}
