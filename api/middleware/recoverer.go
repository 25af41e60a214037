package middleware

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/trainingdesk-backend/api/responses"
	pkgerrors "github.com/angelmondragon/trainingdesk-backend/pkg/errors"
	"github.com/angelmondragon/trainingdesk-backend/pkg/logger"
)

// pathParamFields maps route parameters to the log field they are reported under.
var pathParamFields = map[string]string{
	"sessionId":  "session_id",
	"productId":  "product_id",
	"documentId": "document_id",
	"userId":     "target_user_id",
}

// Recoverer turns a panic into a 500. The log line carries the matched route,
// the caller recorded by Auth and any entity ids from the path. Mount it after
// RequestID so the caller scope is visible.
func Recoverer(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					err := fmt.Errorf("panic: %v", rec)
					ctx := r.Context()
					if logg != nil {
						ctx = logg.WithFields(ctx, panicFields(r, rec))
						logg.Error(ctx, "panic.recovered", err)
					}
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "panic"))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func panicFields(r *http.Request, rec any) map[string]any {
	fields := map[string]any{
		"panic":  rec,
		"method": r.Method,
	}
	if s := scopeFrom(r.Context()); s != nil {
		if userID, role := s.caller(); userID != "" {
			fields["user_id"] = userID
			fields["actor_role"] = role.String()
		}
	}
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		fields["path"] = r.URL.Path
		return fields
	}
	if pattern := rctx.RoutePattern(); pattern != "" {
		fields["route"] = pattern
	} else {
		fields["path"] = r.URL.Path
	}
	for i, key := range rctx.URLParams.Keys {
		if name, ok := pathParamFields[key]; ok && i < len(rctx.URLParams.Values) {
			fields[name] = rctx.URLParams.Values[i]
		}
	}
	return fields
}
