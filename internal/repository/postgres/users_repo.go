package postgres

import (
	"context"

	"github.com/baharkarakas/task-manager/internal/models"
	"github.com/baharkarakas/task-manager/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type usersRepo struct{ pool *pgxpool.Pool }

const userColumns = `id, name, email, age, password_hash, sessions, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Age, &u.PasswordHash, &u.Sessions, &u.CreatedAt, &u.UpdatedAt)
	return u, mapError(err)
}

func (r *usersRepo) Create(ctx context.Context, u *models.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Sessions == nil {
		u.Sessions = []string{}
	}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users(id, name, email, age, password_hash, sessions)
		 VALUES($1,$2,$3,$4,$5,$6)
		 RETURNING created_at, updated_at`,
		u.ID, u.Name, u.Email, u.Age, u.PasswordHash, u.Sessions,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
	return mapError(err)
}

func (r *usersRepo) GetByID(ctx context.Context, id string) (models.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id))
}

func (r *usersRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email=$1`, email))
}

func (r *usersRepo) GetBySession(ctx context.Context, id, token string) (models.User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id=$1 AND $2 = ANY(sessions)`, id, token))
}

func (r *usersRepo) Update(ctx context.Context, u *models.User) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE users SET name=$2, email=$3, age=$4, password_hash=$5, updated_at=now()
		  WHERE id=$1
		  RETURNING updated_at`,
		u.ID, u.Name, u.Email, u.Age, u.PasswordHash,
	).Scan(&u.UpdatedAt)
	return mapError(err)
}

func (r *usersRepo) exec(ctx context.Context, q string, args ...any) error {
	tag, err := r.pool.Exec(ctx, q, args...)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *usersRepo) AddSession(ctx context.Context, id, token string) error {
	return r.exec(ctx, `UPDATE users SET sessions = array_append(sessions, $2), updated_at=now() WHERE id=$1`, id, token)
}

func (r *usersRepo) RemoveSession(ctx context.Context, id, token string) error {
	return r.exec(ctx, `UPDATE users SET sessions = array_remove(sessions, $2), updated_at=now() WHERE id=$1`, id, token)
}

func (r *usersRepo) ClearSessions(ctx context.Context, id string) error {
	return r.exec(ctx, `UPDATE users SET sessions = '{}', updated_at=now() WHERE id=$1`, id)
}

func (r *usersRepo) SetAvatar(ctx context.Context, id string, avatar []byte) error {
	return r.exec(ctx, `UPDATE users SET avatar=$2, updated_at=now() WHERE id=$1`, id, avatar)
}

func (r *usersRepo) GetAvatar(ctx context.Context, id string) ([]byte, error) {
	var avatar []byte
	err := r.pool.QueryRow(ctx, `SELECT avatar FROM users WHERE id=$1`, id).Scan(&avatar)
	if err != nil {
		return nil, mapError(err)
	}
	if len(avatar) == 0 {
		return nil, repository.ErrNotFound
	}
	return avatar, nil
}

func (r *usersRepo) Delete(ctx context.Context, id string) error {
	return r.exec(ctx, `DELETE FROM users WHERE id=$1`, id)
}
