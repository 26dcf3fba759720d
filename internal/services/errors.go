package services

import (
	"errors"

	repo "github.com/baharkarakas/task-manager/internal/repository"
)

var (
	// ErrNotFound covers both "absent" and "owned by someone else".
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("unable to login")
	ErrUnauthorized       = errors.New("please authenticate")
	ErrInvalidUpdates     = errors.New("invalid updates")
	ErrInvalidBody        = errors.New("invalid request body")
)

func notFound(err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
