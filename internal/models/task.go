package models

import (
	"strings"
	"time"
)

type Task struct {
	ID          string    `json:"id"`
	Description string    `json:"description" validate:"required"`
	Completed   bool      `json:"completed"`
	Owner       string    `json:"owner" validate:"required"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (t *Task) Normalize() {
	t.Description = strings.TrimSpace(t.Description)
}

// Sortable task fields, keyed by their JSON name.
const (
	SortCreatedAt   = "createdAt"
	SortUpdatedAt   = "updatedAt"
	SortDescription = "description"
	SortCompleted   = "completed"
)

// TaskQuery narrows an owner's task list. Zero values mean "no constraint".
type TaskQuery struct {
	Completed *bool
	Limit     int
	Skip      int
	SortBy    string
	Desc      bool
}

// ParseSort splits "<field>_<asc|desc>". Anything but a "_desc" suffix is
// ascending; unknown fields yield an empty field (default ordering).
func ParseSort(raw string) (field string, desc bool) {
	if raw == "" {
		return "", false
	}
	name, dir, _ := strings.Cut(raw, "_")
	switch name {
	case SortCreatedAt, SortUpdatedAt, SortDescription, SortCompleted:
		return name, dir == "desc"
	}
	return "", false
}
