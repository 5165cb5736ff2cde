// Package legacy contains the per-report renderers that reproduce the
// paginated layouts of reports predating the unified engine. Extraction
// from the unified record shape is tolerant: every field falls back to a
// safe default when the representation lacks it.
package legacy

import (
	"strconv"
	"time"

	"github.com/newpennine/report-engine/pkg/models/domain"
)

// String extracts a string field, coercing numbers and booleans.
func String(r domain.Record, key, fallback string) string {
	switch v := r[key].(type) {
	case string:
		if v == "" {
			return fallback
		}
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	}
	return fallback
}

// Number extracts a numeric field, parsing strings when necessary.
func Number(r domain.Record, key string, fallback float64) float64 {
	switch v := r[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			return n
		}
	}
	return fallback
}

// Int extracts an integer field.
func Int(r domain.Record, key string, fallback int) int {
	switch v := r[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// Time extracts a timestamp field from time.Time values or common string
// encodings; the zero time is the fallback.
func Time(r domain.Record, key string) time.Time {
	switch v := r[key].(type) {
	case time.Time:
		return v
	case string:
		for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, v); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}

// SummaryNumber extracts a numeric value from the computed summary map.
func SummaryNumber(summary map[string]any, key string, fallback float64) float64 {
	switch v := summary[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return fallback
}
