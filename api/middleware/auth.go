package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/angelmondragon/trainingdesk-backend/api/responses"
	authsvc "github.com/angelmondragon/trainingdesk-backend/internal/auth"
	pkgAuth "github.com/angelmondragon/trainingdesk-backend/pkg/auth"
	"github.com/angelmondragon/trainingdesk-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/trainingdesk-backend/pkg/errors"
	"github.com/angelmondragon/trainingdesk-backend/pkg/logger"
)

// PrincipalChecker resolves verified token claims against the live account.
type PrincipalChecker interface {
	Authorize(ctx context.Context, claims authsvc.Principal) (*authsvc.Principal, error)
}

// Auth validates a bearer token and seeds the request context with the caller.
// When checker is set the account is re-read on every request, so deletions,
// locks and role changes apply before the token expires.
func Auth(cfg config.JWTConfig, checker PrincipalChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			principal := authsvc.Principal{
				ID:    claims.UserID,
				Name:  claims.Name,
				Email: claims.Email,
				Role:  claims.Role,
			}
			if checker != nil {
				current, err := checker.Authorize(r.Context(), principal)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, err)
					return
				}
				principal = *current
			}

			ctx := WithPrincipal(r.Context(), Principal{
				UserID: principal.ID,
				Name:   principal.Name,
				Email:  principal.Email,
				Role:   principal.Role,
			})
			noteCaller(ctx, principal.ID, principal.Role)
			if logg != nil {
				ctx = logg.WithUserID(ctx, principal.ID)
				ctx = logg.WithActorRole(ctx, principal.Role.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
