package middleware

import (
	"context"

	"github.com/baharkarakas/task-manager/internal/models"
)

type userKey struct{}

// UserCtx is what the auth guard leaves behind for handlers: the caller and
// the exact token presented on this request.
type UserCtx struct {
	User  models.User
	Token string
}

func WithUser(ctx context.Context, u UserCtx) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

func FromCtx(ctx context.Context) (UserCtx, bool) {
	u, ok := ctx.Value(userKey{}).(UserCtx)
	return u, ok
}
