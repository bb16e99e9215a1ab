package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"gameslibrary/internal/logger"
	"gameslibrary/internal/utils"

	mail "github.com/go-mail/mail"
	"go.uber.org/zap"
)

type SMTPSender struct {
	Host               string
	Port               int
	From               string
	User               string
	Pass               string
	TLSMode            string // "auto" | "starttls" | "ssl" | "none"
	InsecureSkipVerify bool
	Timeout            time.Duration

	dial func(d *mail.Dialer, m *mail.Message) error
}

func NewSMTPSender(host string, port int, from, user, pass, tlsMode string) *SMTPSender {
	if tlsMode == "" {
		tlsMode = "auto"
	}
	return &SMTPSender{
		Host:    host,
		Port:    port,
		From:    from,
		User:    user,
		Pass:    pass,
		TLSMode: tlsMode,
		Timeout: 10 * time.Second,
	}
}

func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	log := logger.From(ctx).With(
		logger.Component("notify.smtp"),
		logger.Email(utils.MaskEmail(to)),
		zap.String("host", s.Host),
		zap.String("tls_mode", s.TLSMode),
	)

	m := s.message(to, subject, body)
	d := s.dialer(ctx)

	send := s.dial
	if send == nil {
		send = func(d *mail.Dialer, m *mail.Message) error { return d.DialAndSend(m) }
	}
	if err := send(d, m); err != nil {
		log.Error("smtp send failed", logger.Err(err))
		return fmt.Errorf("smtp send: %w", err)
	}
	log.Info("smtp send ok")
	return nil
}

func (s *SMTPSender) message(to, subject, body string) *mail.Message {
	m := mail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	return m
}

func (s *SMTPSender) dialer(ctx context.Context) *mail.Dialer {
	d := mail.NewDialer(s.Host, s.Port, s.User, s.Pass)
	d.TLSConfig = &tls.Config{
		ServerName:         s.Host,
		InsecureSkipVerify: s.InsecureSkipVerify, // dev only
	}
	switch s.TLSMode {
	case "ssl":
		d.SSL = true
	case "none":
		d.StartTLSPolicy = mail.NoStartTLS
	}

	if s.Timeout > 0 {
		d.Timeout = s.Timeout
	}
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left > 0 && (d.Timeout == 0 || left < d.Timeout) {
			d.Timeout = left
		}
	}
	return d
}
