package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/baharkarakas/task-manager/internal/metrics"
	"github.com/baharkarakas/task-manager/internal/models"
	repo "github.com/baharkarakas/task-manager/internal/repository"
	"github.com/baharkarakas/task-manager/internal/validate"
	"github.com/google/uuid"
)

type TaskService struct {
	tasks repo.Tasks
}

func NewTaskService(tasks repo.Tasks) *TaskService { return &TaskService{tasks: tasks} }

type TaskInput struct {
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

type TaskUpdate struct {
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

var taskUpdateFields = []string{"description", "completed"}

// ParseTaskUpdate decodes a task PATCH body.
func ParseTaskUpdate(body []byte) (TaskUpdate, error) {
	var up TaskUpdate
	err := decodeWhitelisted(body, &up, taskUpdateFields...)
	return up, err
}

// ListParams are the raw query-string values of a task listing.
type ListParams struct {
	Completed string
	Limit     string
	Skip      string
	SortBy    string
}

// leadingInt reads an optionally signed integer prefix, so "10abc" is 10
// and "abc" is not a number.
func leadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	return n, err == nil
}

// Query converts the raw parameters. Unparseable numbers mean "unset".
func (p ListParams) Query() models.TaskQuery {
	var q models.TaskQuery
	if p.Completed != "" {
		done := p.Completed == "true"
		q.Completed = &done
	}
	if n, ok := leadingInt(p.Limit); ok && n > 0 {
		q.Limit = n
	}
	if n, ok := leadingInt(p.Skip); ok && n > 0 {
		q.Skip = n
	}
	q.SortBy, q.Desc = models.ParseSort(p.SortBy)
	return q
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (s *TaskService) Create(ctx context.Context, owner string, in TaskInput) (models.Task, error) {
	t := models.Task{Description: in.Description, Completed: in.Completed, Owner: owner}
	t.Normalize()
	if err := validate.Struct(&t); err != nil {
		return models.Task{}, err
	}
	if err := s.tasks.Create(ctx, &t); err != nil {
		return models.Task{}, fmt.Errorf("create task: %w", err)
	}
	metrics.TaskOperations.WithLabelValues("create").Inc()
	return t, nil
}

func (s *TaskService) List(ctx context.Context, owner string, p ListParams) ([]models.Task, error) {
	return s.tasks.List(ctx, owner, p.Query())
}

func (s *TaskService) Get(ctx context.Context, owner, id string) (models.Task, error) {
	if !validID(id) {
		return models.Task{}, ErrNotFound
	}
	t, err := s.tasks.Get(ctx, id, owner)
	return t, notFound(err)
}

func (s *TaskService) Update(ctx context.Context, owner, id string, up TaskUpdate) (models.Task, error) {
	t, err := s.Get(ctx, owner, id)
	if err != nil {
		return models.Task{}, err
	}
	if up.Description != nil {
		t.Description = *up.Description
	}
	if up.Completed != nil {
		t.Completed = *up.Completed
	}
	t.Normalize()
	if err := validate.Struct(&t); err != nil {
		return models.Task{}, err
	}
	if err := s.tasks.Update(ctx, &t); err != nil {
		return models.Task{}, notFound(err)
	}
	metrics.TaskOperations.WithLabelValues("update").Inc()
	return t, nil
}

func (s *TaskService) Delete(ctx context.Context, owner, id string) (models.Task, error) {
	if !validID(id) {
		return models.Task{}, ErrNotFound
	}
	t, err := s.tasks.Delete(ctx, id, owner)
	if err != nil {
		return models.Task{}, notFound(err)
	}
	metrics.TaskOperations.WithLabelValues("delete").Inc()
	return t, nil
}
