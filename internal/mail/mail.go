// Package mail delivers composed messages. The SMTP sender is used when a
// host is configured; otherwise messages are only logged so registration
// can be exercised locally.
package mail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	gomail "github.com/wneessen/go-mail"

	"employee-portal/internal/config"
)

var ErrNoRecipient = errors.New("mail: no recipient")

type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

type Sender interface {
	Send(ctx context.Context, m Message) error
}

// New picks the transport for cfg.
func New(cfg config.SMTP, logger *slog.Logger) (Sender, error) {
	if cfg.Host == "" {
		return NewPreviewSender(logger), nil
	}
	return NewSMTPSender(cfg)
}

// IsPreview reports whether s only records messages instead of delivering
// them.
func IsPreview(s Sender) bool {
	_, ok := s.(*PreviewSender)
	return ok
}

type SMTPSender struct {
	from   string
	client *gomail.Client
}

func NewSMTPSender(cfg config.SMTP) (*SMTPSender, error) {
	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
	}
	if cfg.Secure {
		opts = append(opts, gomail.WithSSL())
	} else {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSOpportunistic))
	}
	if cfg.User != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.User),
			gomail.WithPassword(cfg.Pass),
		)
	}
	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &SMTPSender{from: cfg.From, client: client}, nil
}

func (s *SMTPSender) Send(ctx context.Context, m Message) error {
	if m.To == "" {
		return ErrNoRecipient
	}
	msg := gomail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := msg.To(m.To); err != nil {
		return fmt.Errorf("mail to: %w", err)
	}
	msg.Subject(m.Subject)
	msg.SetBodyString(gomail.TypeTextPlain, m.Text)
	if m.HTML != "" {
		msg.AddAlternativeString(gomail.TypeTextHTML, m.HTML)
	}
	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// PreviewSender logs messages and keeps them in memory.
type PreviewSender struct {
	logger *slog.Logger

	mu   sync.Mutex
	sent []Message
}

func NewPreviewSender(logger *slog.Logger) *PreviewSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &PreviewSender{logger: logger}
}

func (p *PreviewSender) Send(ctx context.Context, m Message) error {
	if m.To == "" {
		return ErrNoRecipient
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	p.sent = append(p.sent, m)
	p.mu.Unlock()

	p.logger.InfoContext(ctx, "mail preview", "to", m.To, "subject", m.Subject)
	return nil
}

// Sent returns a copy of every message recorded so far.
func (p *PreviewSender) Sent() []Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Message, len(p.sent))
	copy(out, p.sent)
	return out
}
