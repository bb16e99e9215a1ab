// Package notify delivers plain-text messages to users.
package notify

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"gameslibrary/internal/logger"
	"gameslibrary/internal/utils"

	"go.uber.org/zap"
)

// Sender delivers one message. Implementations must respect ctx cancellation
// before any network I/O starts.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

const ResetSubject = "Reset Password"

// ResetBody is the text of the password-reset email.
func ResetBody(link string) string {
	return "Please click the link below to reset your password: \n\n" + link
}

// BuildResetLink appends email and token to base as query parameters,
// keeping any parameters base already has.
func BuildResetLink(base, email, token string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(base))
	if err != nil {
		return "", fmt.Errorf("reset url base: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("reset url base %q must be absolute", base)
	}
	q := u.Query()
	q.Set("email", email)
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// LogSender writes messages to the log instead of sending them. It is the
// fallback when no SMTP relay is configured.
type LogSender struct {
	// ShowBody includes the body in the log line; keep it off outside dev
	// since reset links are credentials.
	ShowBody bool
}

func (s LogSender) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fields := []zap.Field{
		logger.Component("notify"),
		logger.Email(utils.MaskEmail(to)),
		zap.String("subject", subject),
	}
	if s.ShowBody {
		fields = append(fields, zap.String("body", body))
	}
	logger.From(ctx).Info("notification not sent: smtp disabled", fields...)
	return nil
}
