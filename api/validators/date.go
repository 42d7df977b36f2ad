package validators

import (
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/smartpark-rw/sims-backend/pkg/errors"
)

const dateLayout = "2006-01-02"

// ParseQueryDate reads a required YYYY-MM-DD query parameter.
func ParseQueryDate(r *http.Request, key string) (time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, key+" parameter is required (YYYY-MM-DD format)")
	}
	value, err := time.ParseInLocation(dateLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, key+" must be a valid date (YYYY-MM-DD format)").
			WithDetails(map[string]any{"field": key})
	}
	return value, nil
}
