// Package mail delivers account letters over SMTP, or into the log when no
// relay is configured.
package mail

import (
	"context"
	"fmt"
	"time"

	"github.com/localnerve/callboard/internal/config"
	gomail "github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// Letter is a plain-text message to one recipient
type Letter struct {
	To      string
	Subject string
	Body    string
}

// Mailer sends letters
type Mailer interface {
	Send(ctx context.Context, letter Letter) error
}

// New picks the SMTP mailer when SMTP_HOST is set, the log mailer otherwise
func New(cfg *config.Config, log *zap.Logger) Mailer {
	if cfg.SMTPHost == "" {
		return &LogMailer{Log: log}
	}
	return &SMTPMailer{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
		Timeout:  cfg.SMTPTimeout,
	}
}

// SMTPMailer relays letters through an SMTP server
type SMTPMailer struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Timeout  time.Duration
}

// Send dials the relay and delivers one letter
func (m *SMTPMailer) Send(ctx context.Context, letter Letter) error {
	msg := gomail.NewMsg()
	if err := msg.From(m.From); err != nil {
		return fmt.Errorf("invalid sender %q: %w", m.From, err)
	}
	if err := msg.To(letter.To); err != nil {
		return fmt.Errorf("invalid recipient %q: %w", letter.To, err)
	}
	msg.Subject(letter.Subject)
	msg.SetBodyString(gomail.TypeTextPlain, letter.Body)

	opts := []gomail.Option{
		gomail.WithPort(m.Port),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
	}
	if m.Timeout > 0 {
		opts = append(opts, gomail.WithTimeout(m.Timeout))
	}
	if m.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(m.Username),
			gomail.WithPassword(m.Password),
		)
	}

	client, err := gomail.NewClient(m.Host, opts...)
	if err != nil {
		return fmt.Errorf("failed to create mail client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", letter.To, err)
	}
	return nil
}

// LogMailer writes letters to the log instead of sending them
type LogMailer struct {
	Log *zap.Logger
}

// Send logs the letter
func (m *LogMailer) Send(_ context.Context, letter Letter) error {
	m.Log.Info("mail",
		zap.String("to", letter.To),
		zap.String("subject", letter.Subject),
		zap.String("body", letter.Body))
	return nil
}
