package services

import (
	"context"
	"sync"
	"testing"

	"github.com/baharkarakas/task-manager/internal/auth"
	"github.com/baharkarakas/task-manager/internal/models"
	"github.com/baharkarakas/task-manager/internal/repository/memory"
	"github.com/stretchr/testify/require"
)

type sentMail struct{ kind, email, name string }

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentMail
}

func (r *recordingNotifier) Welcome(email, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, sentMail{"welcome", email, name})
}

func (r *recordingNotifier) Farewell(email, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, sentMail{"farewell", email, name})
}

type fixture struct {
	store *memory.Store
	tm    *auth.TokenManager
	mail  *recordingNotifier
	users *UserService
	tasks *TaskService
}

func newFixture() *fixture {
	store := memory.New()
	tm := auth.NewTokenManager("services-test-secret", "task-manager", 0)
	mail := &recordingNotifier{}
	return &fixture{
		store: store,
		tm:    tm,
		mail:  mail,
		users: NewUserService(store.Users(), store.Tasks(), tm, mail),
		tasks: NewTaskService(store.Tasks()),
	}
}

func (f *fixture) register(t *testing.T, name, email string) (models.User, string) {
	t.Helper()
	u, tok, err := f.users.Register(context.Background(), RegisterInput{Name: name, Email: email, Password: "red12345!"})
	require.NoError(t, err)
	return u, tok
}

func intPtr(n int) *int       { return &n }
func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
