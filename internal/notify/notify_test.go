package notify

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	mail "github.com/go-mail/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildResetLink(t *testing.T) {
	link, err := BuildResetLink("https://games.example/reset?lang=en", "a+b@c.com", "x.y.z")
	require.NoError(t, err)

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "/reset", u.Path)
	assert.Equal(t, "en", u.Query().Get("lang"))
	assert.Equal(t, "a+b@c.com", u.Query().Get("email"))
	assert.Equal(t, "x.y.z", u.Query().Get("token"))
}

func TestBuildResetLinkRejectsRelativeBase(t *testing.T) {
	_, err := BuildResetLink("/reset", "a@b.com", "t")
	assert.Error(t, err)
}

func TestResetBody(t *testing.T) {
	assert.Equal(t,
		"Please click the link below to reset your password: \n\nhttps://x/y",
		ResetBody("https://x/y"))
}

func TestLogSenderHonorsCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, LogSender{}.Send(ctx, "a@b.com", "s", "b"), context.Canceled)
	assert.NoError(t, LogSender{}.Send(context.Background(), "a@b.com", "s", "b"))
}

func TestSMTPSenderBuildsMessage(t *testing.T) {
	s := NewSMTPSender("smtp.example.com", 465, "noreply@example.com", "u", "p", "ssl")

	var gotDialer *mail.Dialer
	var gotMsg *mail.Message
	s.dial = func(d *mail.Dialer, m *mail.Message) error {
		gotDialer, gotMsg = d, m
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Send(ctx, "a@b.com", ResetSubject, ResetBody("https://x")))

	assert.True(t, gotDialer.SSL)
	assert.LessOrEqual(t, gotDialer.Timeout, 2*time.Second)
	assert.Equal(t, []string{"a@b.com"}, gotMsg.GetHeader("To"))
	assert.Equal(t, []string{ResetSubject}, gotMsg.GetHeader("Subject"))
}

func TestSMTPSenderWrapsFailure(t *testing.T) {
	s := NewSMTPSender("smtp.example.com", 587, "f@x", "", "", "")
	assert.Equal(t, "auto", s.TLSMode)

	boom := errors.New("connection refused")
	s.dial = func(*mail.Dialer, *mail.Message) error { return boom }
	err := s.Send(context.Background(), "a@b.com", "s", "b")
	assert.ErrorIs(t, err, boom)
}
