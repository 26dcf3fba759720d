package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/baharkarakas/task-manager/internal/api/httpx"
	"github.com/baharkarakas/task-manager/internal/middleware"
	"github.com/baharkarakas/task-manager/internal/services"
	"github.com/baharkarakas/task-manager/internal/validate"
)

const maxJSONBody = 1 << 20

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	b, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err != nil {
		return nil, services.ErrInvalidBody
	}
	return b, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(dst); err != nil {
		return services.ErrInvalidBody
	}
	return nil
}

// writeErr maps service errors onto the HTTP error contract. Anything it
// does not recognise is logged and answered with an empty 500.
func writeErr(log *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	var verrs validate.Errs
	switch {
	case errors.As(err, &verrs):
		httpx.WriteError(w, http.StatusBadRequest, "validation_failed", "validation failed", verrs)
	case errors.Is(err, services.ErrNotFound):
		httpx.WriteStatus(w, http.StatusNotFound)
	case errors.Is(err, services.ErrUnauthorized):
		httpx.Unauthorized(w)
	case errors.Is(err, services.ErrInvalidUpdates):
		httpx.WriteError(w, http.StatusBadRequest, "invalid_updates", services.ErrInvalidUpdates.Error(), nil)
	case errors.Is(err, services.ErrInvalidBody):
		httpx.WriteError(w, http.StatusBadRequest, "invalid_body", services.ErrInvalidBody.Error(), nil)
	case errors.Is(err, services.ErrInvalidCredentials):
		httpx.WriteError(w, http.StatusBadRequest, "invalid_credentials", services.ErrInvalidCredentials.Error(), nil)
	case errors.Is(err, services.ErrAvatarTooLarge),
		errors.Is(err, services.ErrAvatarType),
		errors.Is(err, services.ErrAvatarDecode):
		httpx.WriteError(w, http.StatusBadRequest, "avatar_rejected", err.Error(), nil)
	default:
		log.Error("request failed",
			"err", err,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.RequestIDFrom(r.Context()),
		)
		httpx.WriteStatus(w, http.StatusInternalServerError)
	}
}

// caller returns the authenticated user set by the auth guard. A missing
// value means the route was mounted without the guard.
func caller(r *http.Request) middleware.UserCtx {
	uc, ok := middleware.FromCtx(r.Context())
	if !ok {
		panic("handlers: route requires auth middleware")
	}
	return uc
}
