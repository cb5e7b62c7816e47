// Package mailer provides an SMTP implementation of the outbound mail
// interface. Login codes and approval notices go out through it; callers
// treat delivery as best-effort.
package mailer

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"github.com/goliatone/go-swagdesk/pkg/types"
)

// Config captures SMTP connection settings.
type Config struct {
	// Host is the SMTP server hostname.
	Host string
	// Port is the SMTP server port. Defaults to 465 (implicit TLS) or 587
	// when StartTLS is set.
	Port string
	// Username authenticates the SMTP session and doubles as the sender
	// address when From is empty.
	Username string
	// Password authenticates the SMTP session.
	Password string
	// From overrides the envelope sender. Optional.
	From string
	// StartTLS dials a plaintext connection and upgrades it instead of
	// using implicit TLS.
	StartTLS bool
}

// SMTPMailer delivers mail over an authenticated TLS SMTP session.
type SMTPMailer struct {
	cfg Config
}

var _ types.Mailer = (*SMTPMailer)(nil)

// New builds an SMTP mailer from config.
func New(cfg Config) (*SMTPMailer, error) {
	if strings.TrimSpace(cfg.Host) == "" {
		return nil, errors.New("mailer: host required")
	}
	if cfg.Port == "" {
		if cfg.StartTLS {
			cfg.Port = "587"
		} else {
			cfg.Port = "465"
		}
	}
	return &SMTPMailer{cfg: cfg}, nil
}

// Send delivers a single HTML message. The connection is established per
// call; the module's send volume is a code or a notice at a time.
func (m *SMTPMailer) Send(ctx context.Context, msg types.Message) error {
	if msg.To == "" {
		return errors.New("mailer: recipient required")
	}

	from := m.cfg.From
	if from == "" {
		from = m.cfg.Username
	}

	client, err := m.dial(ctx)
	if err != nil {
		return err
	}
	defer client.Quit()

	if m.cfg.Username != "" {
		auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("mailer: auth: %w", err)
		}
	}

	if err := client.Mail(from); err != nil {
		return fmt.Errorf("mailer: sender rejected: %w", err)
	}
	if err := client.Rcpt(msg.To); err != nil {
		return fmt.Errorf("mailer: recipient rejected: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(BuildMessage(from, msg)); err != nil {
		return err
	}
	return w.Close()
}

func (m *SMTPMailer) dial(ctx context.Context) (*smtp.Client, error) {
	addr := net.JoinHostPort(m.cfg.Host, m.cfg.Port)
	tlsConfig := &tls.Config{ServerName: m.cfg.Host}

	if m.cfg.StartTLS {
		var dialer net.Dialer
		conn, err := dialer.DialContext(ctx, "tcp", addr)
		if err != nil {
			return nil, err
		}
		client, err := smtp.NewClient(conn, m.cfg.Host)
		if err != nil {
			conn.Close()
			return nil, err
		}
		if err := client.StartTLS(tlsConfig); err != nil {
			client.Close()
			return nil, err
		}
		return client, nil
	}

	// Implicit TLS, port 465.
	dialer := &tls.Dialer{Config: tlsConfig}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return client, nil
}

// BuildMessage renders the RFC 5322 wire form of a message.
func BuildMessage(from string, msg types.Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.HTML)
	return []byte(b.String())
}
