package validators

import (
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/trainingdesk-backend/pkg/errors"
)

// QueryString returns the trimmed query value, cut to maxLen.
func QueryString(r *http.Request, key string, maxLen int) string {
	return SanitizeString(r.URL.Query().Get(key), maxLen)
}

// ParseQueryDate accepts YYYY-MM-DD or RFC 3339. An empty value yields nil.
func ParseQueryDate(r *http.Request, key string) (*time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			utc := t.UTC()
			return &utc, nil
		}
	}
	return nil, pkgerrors.Validation("invalid query parameter", pkgerrors.FieldErrors{key: "must be a date (YYYY-MM-DD)"})
}
