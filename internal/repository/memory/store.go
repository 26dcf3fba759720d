// Package memory keeps users and tasks in process memory. It backs the
// memory:// database URL and the handler and service tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/baharkarakas/task-manager/internal/models"
	repo "github.com/baharkarakas/task-manager/internal/repository"
	"github.com/google/uuid"
)

// Store holds both collections under one lock so the owner reference
// between them stays consistent.
type Store struct {
	mu    sync.RWMutex
	users map[string]*models.User
	tasks map[string]*taskRow
	seq   int64
	now   func() time.Time
}

type taskRow struct {
	models.Task
	seq int64
}

func New() *Store {
	return &Store{
		users: map[string]*models.User{},
		tasks: map[string]*taskRow{},
		now:   time.Now,
	}
}

// Users returns the credential store view.
func (s *Store) Users() repo.Users { return (*users)(s) }

// Tasks returns the task store view.
func (s *Store) Tasks() repo.Tasks { return (*tasks)(s) }

func cloneUser(u *models.User) models.User {
	c := *u
	c.Sessions = append([]string(nil), u.Sessions...)
	if u.Avatar != nil {
		c.Avatar = append([]byte(nil), u.Avatar...)
	}
	return c
}

type users Store

func (s *users) Create(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return repo.ErrDuplicate
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := s.now()
	u.CreatedAt, u.UpdatedAt = now, now
	if u.Sessions == nil {
		u.Sessions = []string{}
	}
	stored := cloneUser(u)
	s.users[u.ID] = &stored
	return nil
}

func (s *users) GetByID(_ context.Context, id string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return models.User{}, repo.ErrNotFound
	}
	return cloneUser(u), nil
}

func (s *users) GetByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return models.User{}, repo.ErrNotFound
}

func (s *users) GetBySession(_ context.Context, id, token string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok || !u.HasSession(token) {
		return models.User{}, repo.ErrNotFound
	}
	return cloneUser(u), nil
}

func (s *users) Update(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.users[u.ID]
	if !ok {
		return repo.ErrNotFound
	}
	for id, other := range s.users {
		if id != u.ID && other.Email == u.Email {
			return repo.ErrDuplicate
		}
	}
	stored.Name = u.Name
	stored.Email = u.Email
	stored.Age = u.Age
	stored.PasswordHash = u.PasswordHash
	stored.UpdatedAt = s.now()
	u.UpdatedAt = stored.UpdatedAt
	return nil
}

// mutate applies fn to the stored user under the write lock.
func (s *users) mutate(id string, fn func(u *models.User)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return repo.ErrNotFound
	}
	fn(u)
	u.UpdatedAt = s.now()
	return nil
}

func (s *users) AddSession(_ context.Context, id, token string) error {
	return s.mutate(id, func(u *models.User) { u.Sessions = append(u.Sessions, token) })
}

func (s *users) RemoveSession(_ context.Context, id, token string) error {
	return s.mutate(id, func(u *models.User) { u.Sessions = models.WithoutSession(u.Sessions, token) })
}

func (s *users) ClearSessions(_ context.Context, id string) error {
	return s.mutate(id, func(u *models.User) { u.Sessions = []string{} })
}

func (s *users) SetAvatar(_ context.Context, id string, avatar []byte) error {
	return s.mutate(id, func(u *models.User) { u.Avatar = append([]byte(nil), avatar...) })
}

func (s *users) GetAvatar(_ context.Context, id string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok || len(u.Avatar) == 0 {
		return nil, repo.ErrNotFound
	}
	return append([]byte(nil), u.Avatar...), nil
}

// Delete removes the user and, like the Postgres foreign key, its tasks.
func (s *users) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return repo.ErrNotFound
	}
	delete(s.users, id)
	for tid, t := range s.tasks {
		if t.Owner == id {
			delete(s.tasks, tid)
		}
	}
	return nil
}

type tasks Store

func (s *tasks) Create(_ context.Context, t *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[t.Owner]; !ok {
		return repo.ErrNotFound
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	now := s.now()
	t.CreatedAt, t.UpdatedAt = now, now
	s.seq++
	s.tasks[t.ID] = &taskRow{Task: *t, seq: s.seq}
	return nil
}

func (s *tasks) Get(_ context.Context, id, owner string) (models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	if !ok || t.Owner != owner {
		return models.Task{}, repo.ErrNotFound
	}
	return t.Task, nil
}

func (s *tasks) List(_ context.Context, owner string, q models.TaskQuery) ([]models.Task, error) {
	s.mu.RLock()
	rows := make([]*taskRow, 0)
	for _, t := range s.tasks {
		if t.Owner != owner {
			continue
		}
		if q.Completed != nil && t.Completed != *q.Completed {
			continue
		}
		c := *t
		rows = append(rows, &c)
	}
	s.mu.RUnlock()

	less := lessFunc(q.SortBy)
	desc := q.Desc && less != nil
	if less == nil {
		less = byCreated
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if desc {
			a, b = b, a
		}
		if less(a, b) {
			return true
		}
		if less(b, a) {
			return false
		}
		return a.seq < b.seq
	})

	if q.Skip > 0 {
		if q.Skip >= len(rows) {
			rows = rows[:0]
		} else {
			rows = rows[q.Skip:]
		}
	}
	if q.Limit > 0 && q.Limit < len(rows) {
		rows = rows[:q.Limit]
	}

	out := make([]models.Task, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Task)
	}
	return out, nil
}

func byCreated(a, b *taskRow) bool { return a.CreatedAt.Before(b.CreatedAt) }

func lessFunc(field string) func(a, b *taskRow) bool {
	switch field {
	case models.SortCreatedAt:
		return byCreated
	case models.SortUpdatedAt:
		return func(a, b *taskRow) bool { return a.UpdatedAt.Before(b.UpdatedAt) }
	case models.SortDescription:
		return func(a, b *taskRow) bool { return a.Description < b.Description }
	case models.SortCompleted:
		return func(a, b *taskRow) bool { return !a.Completed && b.Completed }
	}
	return nil
}

func (s *tasks) Update(_ context.Context, t *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.tasks[t.ID]
	if !ok || stored.Owner != t.Owner {
		return repo.ErrNotFound
	}
	stored.Description = t.Description
	stored.Completed = t.Completed
	stored.UpdatedAt = s.now()
	t.CreatedAt, t.UpdatedAt = stored.CreatedAt, stored.UpdatedAt
	return nil
}

func (s *tasks) Delete(_ context.Context, id, owner string) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok || t.Owner != owner {
		return models.Task{}, repo.ErrNotFound
	}
	delete(s.tasks, id)
	return t.Task, nil
}

func (s *tasks) DeleteByOwner(_ context.Context, owner string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, t := range s.tasks {
		if t.Owner == owner {
			delete(s.tasks, id)
			n++
		}
	}
	return n, nil
}
