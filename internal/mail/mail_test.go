package mail

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/localnerve/callboard/internal/config"
	"github.com/localnerve/callboard/internal/models"
	"github.com/localnerve/callboard/internal/signer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type recorder struct{ letters []Letter }

func (r *recorder) Send(_ context.Context, l Letter) error {
	r.letters = append(r.letters, l)
	return nil
}

func TestNewPicksMailer(t *testing.T) {
	_, ok := New(&config.Config{}, zap.NewNop()).(*LogMailer)
	assert.True(t, ok)

	m, ok := New(&config.Config{
		SMTPHost:    "smtp.example.com",
		SMTPPort:    2525,
		SMTPTimeout: 3 * time.Second,
		MailFrom:    "board@example.com",
	}, zap.NewNop()).(*SMTPMailer)
	require.True(t, ok)
	assert.Equal(t, 2525, m.Port)
	assert.Equal(t, 3*time.Second, m.Timeout)
	assert.Equal(t, "board@example.com", m.From)
}

func TestLogMailer(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	m := &LogMailer{Log: zap.New(core)}

	require.NoError(t, m.Send(context.Background(), Letter{To: "a@example.com", Subject: "Hi", Body: "Body"}))
	entries := logs.FilterMessage("mail").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "a@example.com", entries[0].ContextMap()["to"])
}

func TestSMTPMailerRejectsBadAddresses(t *testing.T) {
	m := &SMTPMailer{Host: "127.0.0.1", Port: 1, From: "not an address"}
	err := m.Send(context.Background(), Letter{To: "a@example.com"})
	assert.ErrorContains(t, err, "invalid sender")
}

func TestSendActivation(t *testing.T) {
	s, err := signer.New("secret", signer.DefaultSalt)
	require.NoError(t, err)
	user := &models.User{Username: "new.user", Email: "new@example.com"}
	rec := &recorder{}

	require.NoError(t, SendActivation(context.Background(), rec, "http://board.test/", s, user))
	require.Len(t, rec.letters, 1)

	letter := rec.letters[0]
	assert.Equal(t, "new@example.com", letter.To)
	assert.Equal(t, "Activation for the user new.user", letter.Subject)

	link := ActivationLink("http://board.test/", s, user)
	assert.True(t, strings.HasPrefix(link, "http://board.test/accounts/register/activate/new.user:"))
	assert.True(t, strings.HasSuffix(link, "/"))
	assert.Contains(t, letter.Body, link)

	token := strings.TrimSuffix(strings.TrimPrefix(link, "http://board.test/accounts/register/activate/"), "/")
	value, err := s.Unsign(token)
	require.NoError(t, err)
	assert.Equal(t, "new.user", value)
}
