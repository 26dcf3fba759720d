package postgres

import (
	"context"
	"fmt"

	"github.com/baharkarakas/task-manager/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type tasksRepo struct{ pool *pgxpool.Pool }

const taskColumns = `id, description, completed, owner_id, created_at, updated_at`

// sortColumns maps API sort fields to columns; only these reach the SQL text.
var sortColumns = map[string]string{
	models.SortCreatedAt:   "created_at",
	models.SortUpdatedAt:   "updated_at",
	models.SortDescription: "description",
	models.SortCompleted:   "completed",
}

func scanTask(row interface{ Scan(...any) error }) (models.Task, error) {
	var t models.Task
	err := row.Scan(&t.ID, &t.Description, &t.Completed, &t.Owner, &t.CreatedAt, &t.UpdatedAt)
	return t, mapError(err)
}

func (r *tasksRepo) Create(ctx context.Context, t *models.Task) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO tasks(id, description, completed, owner_id)
		 VALUES($1,$2,$3,$4)
		 RETURNING created_at, updated_at`,
		t.ID, t.Description, t.Completed, t.Owner,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	return mapError(err)
}

func (r *tasksRepo) Get(ctx context.Context, id, owner string) (models.Task, error) {
	return scanTask(r.pool.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id=$1 AND owner_id=$2`, id, owner))
}

func (r *tasksRepo) List(ctx context.Context, owner string, q models.TaskQuery) ([]models.Task, error) {
	query, args := buildListQuery(owner, q)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	out := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, mapError(rows.Err())
}

func buildListQuery(owner string, q models.TaskQuery) (string, []any) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE owner_id=$1`
	args := []any{owner}
	if q.Completed != nil {
		args = append(args, *q.Completed)
		query += fmt.Sprintf(` AND completed=$%d`, len(args))
	}

	col, ok := sortColumns[q.SortBy]
	if !ok {
		col = "created_at"
	}
	dir := "ASC"
	if ok && q.Desc {
		dir = "DESC"
	}
	query += fmt.Sprintf(` ORDER BY %s %s, id %s`, col, dir, dir)

	if q.Limit > 0 {
		args = append(args, q.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}
	if q.Skip > 0 {
		args = append(args, q.Skip)
		query += fmt.Sprintf(` OFFSET $%d`, len(args))
	}
	return query, args
}

func (r *tasksRepo) Update(ctx context.Context, t *models.Task) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE tasks SET description=$3, completed=$4, updated_at=now()
		  WHERE id=$1 AND owner_id=$2
		  RETURNING created_at, updated_at`,
		t.ID, t.Owner, t.Description, t.Completed,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	return mapError(err)
}

func (r *tasksRepo) Delete(ctx context.Context, id, owner string) (models.Task, error) {
	return scanTask(r.pool.QueryRow(ctx,
		`DELETE FROM tasks WHERE id=$1 AND owner_id=$2 RETURNING `+taskColumns, id, owner))
}

func (r *tasksRepo) DeleteByOwner(ctx context.Context, owner string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE owner_id=$1`, owner)
	if err != nil {
		return 0, mapError(err)
	}
	return tag.RowsAffected(), nil
}
