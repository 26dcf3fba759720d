package postgres

import (
	repo "github.com/baharkarakas/task-manager/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repositories struct {
	Users repo.Users
	Tasks repo.Tasks
}

func NewRepositories(pool *pgxpool.Pool) Repositories {
	return Repositories{
		Users: &usersRepo{pool},
		Tasks: &tasksRepo{pool},
	}
}
