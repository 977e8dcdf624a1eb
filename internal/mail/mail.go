// Package mail delivers contact-form messages to the portfolio owner.
package mail

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/primal-host/primal-folio/internal/config"
)

// ErrNotConfigured is returned by Disabled.Send.
var ErrNotConfigured = errors.New("mail: email service not configured")

// Message is one contact-form submission.
type Message struct {
	Name    string
	Email   string
	Message string
}

// Mailer sends contact-form messages.
type Mailer interface {
	Send(ctx context.Context, m Message) error
}

// Disabled is the Mailer used when SMTP settings are missing.
type Disabled struct{}

// Send always fails with ErrNotConfigured.
func (Disabled) Send(context.Context, Message) error { return ErrNotConfigured }

// New returns an SMTP mailer when cfg is complete, Disabled otherwise.
func New(cfg config.MailConfig) Mailer {
	if !cfg.Enabled() {
		return Disabled{}
	}
	return NewSMTP(cfg)
}

// SMTP sends mail through a single relay, upgrading to TLS when the
// server offers STARTTLS.
type SMTP struct {
	cfg     config.MailConfig
	timeout time.Duration
}

// NewSMTP creates an SMTP mailer.
func NewSMTP(cfg config.MailConfig) *SMTP {
	return &SMTP{cfg: cfg, timeout: 30 * time.Second}
}

func (s *SMTP) from() string {
	if s.cfg.From != "" {
		return s.cfg.From
	}
	return s.cfg.User
}

func (s *SMTP) to() string {
	if s.cfg.To != "" {
		return s.cfg.To
	}
	return s.cfg.User
}

// Send delivers m to the configured recipient with Reply-To set to the
// visitor's address.
func (s *SMTP) Send(ctx context.Context, m Message) error {
	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))

	dialer := &net.Dialer{Timeout: s.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("mail: connect %s: %w", addr, err)
	}
	defer func() { _ = conn.Close() }()

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return fmt.Errorf("mail: smtp client: %w", err)
	}
	defer func() { _ = client.Close() }()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: s.cfg.Host, MinVersion: tls.VersionTLS12}); err != nil {
			return fmt.Errorf("mail: starttls: %w", err)
		}
	}

	if s.cfg.User != "" && s.cfg.Pass != "" {
		if err := client.Auth(smtp.PlainAuth("", s.cfg.User, s.cfg.Pass, s.cfg.Host)); err != nil {
			return fmt.Errorf("mail: auth: %w", err)
		}
	}

	if err := client.Mail(s.from()); err != nil {
		return fmt.Errorf("mail: sender: %w", err)
	}
	if err := client.Rcpt(s.to()); err != nil {
		return fmt.Errorf("mail: recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("mail: data: %w", err)
	}
	if _, err := w.Write([]byte(Build(s.from(), s.to(), m))); err != nil {
		return fmt.Errorf("mail: write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("mail: close: %w", err)
	}

	// The message is accepted once Data closes; a failed QUIT is ignored.
	_ = client.Quit()
	return nil
}

// Build renders the plain-text message with headers.
func Build(from, to string, m Message) string {
	name := headerSafe(m.Name)

	var b strings.Builder
	fmt.Fprintf(&b, "From: %q <%s>\r\n", name, from)
	fmt.Fprintf(&b, "Reply-To: %s\r\n", headerSafe(m.Email))
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: New Contact Form Message from %s\r\n", name)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString("New Contact Form Message\r\n\r\n")
	fmt.Fprintf(&b, "Name: %s\r\n", m.Name)
	fmt.Fprintf(&b, "Email: %s\r\n\r\n", m.Email)
	b.WriteString("Message:\r\n")
	b.WriteString(strings.ReplaceAll(m.Message, "\n", "\r\n"))
	b.WriteString("\r\n")
	return b.String()
}

// headerSafe strips line breaks so submitted values cannot inject headers.
func headerSafe(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}
