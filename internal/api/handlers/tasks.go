package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/baharkarakas/task-manager/internal/api/httpx"
	"github.com/baharkarakas/task-manager/internal/models"
	"github.com/baharkarakas/task-manager/internal/services"
)

type TaskHandler struct {
	tasks *services.TaskService
	log   *slog.Logger
}

func NewTaskHandler(tasks *services.TaskService, log *slog.Logger) *TaskHandler {
	return &TaskHandler{tasks: tasks, log: log}
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.TaskInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeErr(h.log, w, r, err)
		return
	}
	t, err := h.tasks.Create(r.Context(), caller(r).User.ID, in)
	if err != nil {
		writeErr(h.log, w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, t)
}

// List handles GET /tasks?completed=&limit=&skip=&sortBy=<field>_<asc|desc>.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tasks, err := h.tasks.List(r.Context(), caller(r).User.ID, services.ListParams{
		Completed: q.Get("completed"),
		Limit:     q.Get("limit"),
		Skip:      q.Get("skip"),
		SortBy:    q.Get("sortBy"),
	})
	if err != nil {
		writeErr(h.log, w, r, err)
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	httpx.WriteJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	t, err := h.tasks.Get(r.Context(), caller(r).User.ID, chi.URLParam(r, "id"))
	if err != nil {
		writeErr(h.log, w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, t)
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeErr(h.log, w, r, err)
		return
	}
	up, err := services.ParseTaskUpdate(body)
	if err != nil {
		writeErr(h.log, w, r, err)
		return
	}
	t, err := h.tasks.Update(r.Context(), caller(r).User.ID, chi.URLParam(r, "id"), up)
	if err != nil {
		writeErr(h.log, w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, t)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	t, err := h.tasks.Delete(r.Context(), caller(r).User.ID, chi.URLParam(r, "id"))
	if err != nil {
		writeErr(h.log, w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, t)
}
