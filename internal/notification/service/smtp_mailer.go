// Package service delivers notifications over SMTP.
package service

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/allisson/farmaggregator/internal/errors"
	notificationDomain "github.com/allisson/farmaggregator/internal/notification/domain"
)

// Mailer sends a single email message.
type Mailer interface {
	Send(ctx context.Context, msg notificationDomain.Message) error
}

// SMTPConfig holds the relay settings used by SMTPMailer.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string //nolint:gosec // relay credential
	From     string
}

// SMTPMailer sends mail through an SMTP relay, upgrading to TLS when the relay
// advertises STARTTLS. Authentication is used only when a username is configured.
type SMTPMailer struct {
	cfg    SMTPConfig
	dialer *net.Dialer
	now    func() time.Time
}

// NewSMTPMailer creates a new SMTPMailer.
func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		cfg:    cfg,
		dialer: &net.Dialer{Timeout: 10 * time.Second},
		now:    time.Now,
	}
}

// Send delivers msg. The connection honours ctx cancellation and deadline.
func (m *SMTPMailer) Send(ctx context.Context, msg notificationDomain.Message) error {
	if strings.TrimSpace(msg.To) == "" {
		return notificationDomain.ErrMissingRecipient
	}

	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
	conn, err := m.dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return apperrors.Wrap(err, "failed to connect to smtp server")
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		_ = conn.Close()
		return apperrors.Wrap(err, "failed to start smtp session")
	}
	defer func() {
		_ = client.Close()
	}()

	if ok, _ := client.Extension("STARTTLS"); ok {
		tlsConfig := &tls.Config{ServerName: m.cfg.Host, MinVersion: tls.VersionTLS12}
		if err := client.StartTLS(tlsConfig); err != nil {
			return apperrors.Wrap(err, "failed to start tls")
		}
	}

	if m.cfg.Username != "" {
		auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return apperrors.Wrap(err, "failed to authenticate with smtp server")
		}
	}

	if err := client.Mail(m.cfg.From); err != nil {
		return apperrors.Wrap(err, "smtp MAIL FROM rejected")
	}
	if err := client.Rcpt(msg.To); err != nil {
		return apperrors.Wrap(err, "smtp RCPT TO rejected")
	}

	w, err := client.Data()
	if err != nil {
		return apperrors.Wrap(err, "smtp DATA rejected")
	}
	if _, err := w.Write(m.compose(msg)); err != nil {
		_ = w.Close()
		return apperrors.Wrap(err, "failed to write message")
	}
	if err := w.Close(); err != nil {
		return apperrors.Wrap(err, "failed to send message")
	}

	return client.Quit()
}

func (m *SMTPMailer) compose(msg notificationDomain.Message) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&buf, "To: %s\r\n", msg.To)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	fmt.Fprintf(&buf, "Date: %s\r\n", m.now().UTC().Format(time.RFC1123Z))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(msg.Body)
	return buf.Bytes()
}
