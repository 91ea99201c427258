package analytics

import (
	"net/http"
	"strings"
	"time"

	"github.com/angelmondragon/stride-storefront/internal/analytics"
	pkgerrors "github.com/angelmondragon/stride-storefront/pkg/errors"
)

var timeNowUTC = func() time.Time {
	return time.Now().UTC()
}

// resolveWindow reads either an explicit from/to pair or a preset. The
// "all" preset, which is also the default, leaves the window open.
func resolveWindow(r *http.Request, now time.Time) (analytics.Window, error) {
	query := r.URL.Query()
	from := strings.TrimSpace(query.Get("from"))
	to := strings.TrimSpace(query.Get("to"))

	if from != "" || to != "" {
		if from == "" || to == "" {
			return analytics.Window{}, pkgerrors.New(pkgerrors.CodeValidation, "from and to must be provided together")
		}
		start, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return analytics.Window{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid from timestamp")
		}
		end, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return analytics.Window{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid to timestamp")
		}
		start, end = start.UTC(), end.UTC()
		if !end.After(start) {
			return analytics.Window{}, pkgerrors.New(pkgerrors.CodeValidation, "end must be after start")
		}
		return analytics.Window{Start: start, End: end}, nil
	}

	preset := strings.ToLower(strings.TrimSpace(query.Get("preset")))
	if preset == "" || preset == "all" {
		return analytics.Window{}, nil
	}
	duration, ok := presetDuration(preset)
	if !ok {
		return analytics.Window{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid preset").
			WithDetails(map[string]string{"preset": "must be one of 7d, 30d, 90d, all"})
	}
	return analytics.Window{Start: now.Add(-duration), End: now}, nil
}

func presetDuration(value string) (time.Duration, bool) {
	switch value {
	case "7d":
		return 7 * 24 * time.Hour, true
	case "30d":
		return 30 * 24 * time.Hour, true
	case "90d":
		return 90 * 24 * time.Hour, true
	default:
		return 0, false
	}
}
