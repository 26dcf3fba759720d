package notify

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/baharkarakas/task-manager/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// inline runs jobs synchronously.
type inline struct{ closed bool }

func (i *inline) Submit(f func()) bool {
	if i.closed {
		return false
	}
	f()
	return true
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []Message
	err  error
}

func (f *fakeNotifier) Welcome(_ context.Context, email, name string) error {
	return f.record(WelcomeMessage(email, name))
}

func (f *fakeNotifier) Farewell(_ context.Context, email, name string) error {
	return f.record(FarewellMessage(email, name))
}

func (f *fakeNotifier) record(m Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, m)
	return nil
}

func TestMessages(t *testing.T) {
	w := WelcomeMessage("mike@example.com", "Mike")
	assert.Equal(t, "mike@example.com", w.To)
	assert.Equal(t, "Thanks for joining in!", w.Subject)
	assert.Contains(t, w.Body, "Welcome to the app, Mike.")

	f := FarewellMessage("mike@example.com", "Mike")
	assert.Equal(t, "Sorry to see you go!", f.Subject)
	assert.Contains(t, f.Body, "Goodbye, Mike.")
}

func TestDispatcher_Sends(t *testing.T) {
	n := &fakeNotifier{}
	var buf bytes.Buffer
	d := NewDispatcher(n, &inline{}, slog.New(slog.NewTextHandler(&buf, nil)))

	d.Welcome("a@b.com", "A")
	d.Farewell("a@b.com", "A")

	require.Len(t, n.sent, 2)
	assert.Equal(t, "Thanks for joining in!", n.sent[0].Subject)
	assert.Equal(t, "Sorry to see you go!", n.sent[1].Subject)
	assert.Empty(t, buf.String())
}

func TestDispatcher_FailureIsLoggedOnly(t *testing.T) {
	n := &fakeNotifier{err: errors.New("relay down")}
	var buf bytes.Buffer
	d := NewDispatcher(n, &inline{}, slog.New(slog.NewTextHandler(&buf, nil)))

	assert.NotPanics(t, func() { d.Welcome("a@b.com", "A") })
	assert.Contains(t, buf.String(), "notification failed")
	assert.Contains(t, buf.String(), "relay down")
}

func TestDispatcher_DroppedWhenPoolClosed(t *testing.T) {
	n := &fakeNotifier{}
	var buf bytes.Buffer
	d := NewDispatcher(n, &inline{closed: true}, slog.New(slog.NewTextHandler(&buf, nil)))

	d.Farewell("a@b.com", "A")
	assert.Empty(t, n.sent)
	assert.Contains(t, buf.String(), "notification dropped")
}

func TestNewMailer(t *testing.T) {
	m, err := NewMailer(config.MailConfig{
		Host:     "smtp.example.com",
		Port:     587,
		Username: "mailer",
		Password: "secret",
		From:     "noreply@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "noreply@example.com", m.from)
}
