package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/baharkarakas/task-manager/internal/api/httpx"
	"github.com/baharkarakas/task-manager/internal/models"
	"github.com/baharkarakas/task-manager/internal/services"
)

// Authenticator resolves a bearer token to the user holding it as a live
// session. Rejected tokens are reported as services.ErrUnauthorized.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (models.User, error)
}

type AuthMiddleware struct {
	users Authenticator
}

func NewAuthMiddleware(users Authenticator) *AuthMiddleware {
	return &AuthMiddleware{users: users}
}

func bearerToken(r *http.Request) (string, bool) {
	ah := r.Header.Get("Authorization")
	if len(ah) < len("Bearer ") || !strings.EqualFold(ah[:len("Bearer ")], "bearer ") {
		return "", false
	}
	tok := strings.TrimSpace(ah[len("Bearer "):])
	return tok, tok != ""
}

func (m *AuthMiddleware) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			httpx.Unauthorized(w)
			return
		}
		u, err := m.users.Authenticate(r.Context(), token)
		if errors.Is(err, services.ErrUnauthorized) {
			httpx.Unauthorized(w)
			return
		}
		if err != nil {
			slog.Error("authenticate",
				"err", err,
				"request_id", RequestIDFrom(r.Context()),
				"path", r.URL.Path,
			)
			httpx.WriteStatus(w, http.StatusInternalServerError)
			return
		}
		ctx := WithUser(r.Context(), UserCtx{User: u, Token: token})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
