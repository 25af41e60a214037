package middleware

import (
	"context"

	"github.com/angelmondragon/trainingdesk-backend/pkg/enums"
)

type contextKey string

const (
	ctxUserID contextKey = "user_id"
	ctxRole   contextKey = "actor_role"
	ctxName   contextKey = "actor_name"
	ctxEmail  contextKey = "actor_email"
)

// Principal is the authenticated caller carried on the request context.
type Principal struct {
	UserID string
	Name   string
	Email  string
	Role   enums.UserRole
}

func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxUserID).(string); ok {
		return v
	}
	return ""
}

func RoleFromContext(ctx context.Context) enums.UserRole {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(enums.UserRole); ok {
		return v
	}
	return ""
}

// PrincipalFromContext returns the caller seeded by Auth, or false outside authenticated routes.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	id := UserIDFromContext(ctx)
	if id == "" {
		return Principal{}, false
	}
	p := Principal{UserID: id, Role: RoleFromContext(ctx)}
	p.Name, _ = ctx.Value(ctxName).(string)
	p.Email, _ = ctx.Value(ctxEmail).(string)
	return p, true
}

// WithPrincipal injects the caller into the context.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxUserID, p.UserID)
	ctx = context.WithValue(ctx, ctxRole, p.Role)
	ctx = context.WithValue(ctx, ctxName, p.Name)
	return context.WithValue(ctx, ctxEmail, p.Email)
}
