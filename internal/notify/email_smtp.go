package notify

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"strconv"
	"time"

	"github.com/wolfman30/appointment-assistant/pkg/logging"
)

const defaultSenderName = "AppointmentBot"

// SMTPConfig describes an authenticated STARTTLS relay such as Gmail.
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

// SMTPSender delivers mail through an SMTP relay with a fixed sender identity.
type SMTPSender struct {
	cfg    SMTPConfig
	logger *logging.Logger
	send   func(ctx context.Context, from string, to []string, payload []byte) error
}

// NewSMTPSender returns nil when the sender identity or credential is missing.
func NewSMTPSender(cfg SMTPConfig, logger *logging.Logger) *SMTPSender {
	if cfg.FromEmail == "" || cfg.Password == "" {
		return nil
	}
	if cfg.Host == "" {
		cfg.Host = "smtp.gmail.com"
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.Username == "" {
		cfg.Username = cfg.FromEmail
	}
	if cfg.FromName == "" {
		cfg.FromName = defaultSenderName
	}
	if logger == nil {
		logger = logging.Default()
	}
	s := &SMTPSender{cfg: cfg, logger: logger}
	s.send = s.deliver
	return s
}

// Send formats msg as a plain-text MIME message and hands it to the relay.
func (s *SMTPSender) Send(ctx context.Context, msg EmailMessage) error {
	if msg.To == "" {
		return ErrMissingRecipient
	}
	payload, err := s.compose(msg, time.Now())
	if err != nil {
		return err
	}
	if err := s.send(ctx, s.cfg.FromEmail, []string{msg.To}, payload); err != nil {
		s.logger.Error("smtp send failed", "error", err, "to", msg.To)
		return fmt.Errorf("notify: smtp send failed: %w", err)
	}
	s.logger.Info("email sent via smtp", "to", msg.To, "subject", msg.Subject)
	return nil
}

func (s *SMTPSender) compose(msg EmailMessage, now time.Time) ([]byte, error) {
	to, err := mail.ParseAddress(msg.To)
	if err != nil {
		return nil, fmt.Errorf("notify: invalid recipient %q: %w", msg.To, err)
	}
	if msg.ToName != "" {
		to.Name = msg.ToName
	}
	from := mail.Address{Name: s.cfg.FromName, Address: s.cfg.FromEmail}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", from.String())
	fmt.Fprintf(&buf, "To: %s\r\n", to.String())
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	fmt.Fprintf(&buf, "Date: %s\r\n", now.Format(time.RFC1123Z))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	buf.WriteString("Content-Transfer-Encoding: 8bit\r\n\r\n")
	buf.WriteString(msg.Body)
	return buf.Bytes(), nil
}

func (s *SMTPSender) deliver(ctx context.Context, from string, to []string, payload []byte) error {
	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		conn.Close()
		return err
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); !ok {
		return errors.New("relay does not support STARTTLS")
	}
	if err := client.StartTLS(&tls.Config{ServerName: s.cfg.Host, MinVersion: tls.VersionTLS12}); err != nil {
		return err
	}
	if err := client.Auth(smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)); err != nil {
		return err
	}
	if err := client.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(payload); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

var _ EmailSender = (*SMTPSender)(nil)
