package postgres

import (
	"errors"
	"fmt"

	repo "github.com/baharkarakas/task-manager/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolationCode     = "23505"
	invalidTextReprCode     = "22P02"
	foreignKeyViolationCode = "23503"
)

// mapError translates driver errors into repository sentinels. A malformed
// uuid is reported as not found so callers never learn more than "absent".
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repo.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			return fmt.Errorf("%w: %s", repo.ErrDuplicate, pgErr.ConstraintName)
		case invalidTextReprCode, foreignKeyViolationCode:
			return fmt.Errorf("%w: %s", repo.ErrNotFound, pgErr.Message)
		}
	}
	return err
}
