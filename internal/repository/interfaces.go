package repository

import (
	"context"
	"errors"

	"github.com/baharkarakas/task-manager/internal/models"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")
)

// Users is the credential store. Session and avatar mutations touch a
// single user row and are atomic on their own.
type Users interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	// GetBySession finds the user with this id only if token is one of its sessions.
	GetBySession(ctx context.Context, id, token string) (models.User, error)
	Update(ctx context.Context, u *models.User) error
	AddSession(ctx context.Context, id, token string) error
	RemoveSession(ctx context.Context, id, token string) error
	ClearSessions(ctx context.Context, id string) error
	SetAvatar(ctx context.Context, id string, avatar []byte) error
	GetAvatar(ctx context.Context, id string) ([]byte, error)
	Delete(ctx context.Context, id string) error
}

// Tasks is the task store. Every read and write is scoped by owner.
type Tasks interface {
	Create(ctx context.Context, t *models.Task) error
	Get(ctx context.Context, id, owner string) (models.Task, error)
	List(ctx context.Context, owner string, q models.TaskQuery) ([]models.Task, error)
	Update(ctx context.Context, t *models.Task) error
	Delete(ctx context.Context, id, owner string) (models.Task, error)
	DeleteByOwner(ctx context.Context, owner string) (int64, error)
}
