package middleware

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/angelmondragon/trainingdesk-backend/pkg/enums"
	"github.com/angelmondragon/trainingdesk-backend/pkg/logger"
	"github.com/angelmondragon/trainingdesk-backend/pkg/types"
)

const maxRequestIDLen = 64

const ctxScope contextKey = "request_scope"

// requestScope is shared by every middleware of one request. Auth records the
// caller here so handlers running outside the authenticated group, like the
// recoverer, can still log who made the request.
type requestScope struct {
	mu     sync.Mutex
	userID string
	role   enums.UserRole
}

func (s *requestScope) setCaller(userID string, role enums.UserRole) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID, s.role = userID, role
}

func (s *requestScope) caller() (string, enums.UserRole) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID, s.role
}

func scopeFrom(ctx context.Context) *requestScope {
	if ctx == nil {
		return nil
	}
	s, _ := ctx.Value(ctxScope).(*requestScope)
	return s
}

// noteCaller records the authenticated caller on the request scope, if one is open.
func noteCaller(ctx context.Context, userID string, role enums.UserRole) {
	if s := scopeFrom(ctx); s != nil {
		s.setCaller(userID, role)
	}
}

// RequestID reuses a well-formed inbound X-Request-Id or mints one, echoes it on
// the response and opens the request scope.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := inboundRequestID(r.Header.Get(types.RequestIDHeader))
			if reqID == "" {
				reqID = uuid.NewString()
			}

			w.Header().Set(types.RequestIDHeader, reqID)

			ctx := context.WithValue(r.Context(), ctxScope, &requestScope{})
			if logg != nil {
				ctx = logg.WithRequestID(ctx, reqID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// inboundRequestID accepts client ids of printable ASCII up to maxRequestIDLen.
func inboundRequestID(raw string) string {
	id := strings.TrimSpace(raw)
	if id == "" || len(id) > maxRequestIDLen {
		return ""
	}
	for i := 0; i < len(id); i++ {
		if c := id[i]; c < 0x21 || c > 0x7e {
			return ""
		}
	}
	return id
}
