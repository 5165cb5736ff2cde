package domain

import (
	"strconv"
	"strings"
	"time"
)

// FilterValues maps filter ids to the values supplied at generation time.
// Values are scalars, string slices or dates; typed accessors coerce
// loosely since values frequently arrive via JSON.
type FilterValues map[string]any

// IsZero reports whether the filter has no usable value: absent, nil,
// empty string or empty slice.
func (fv FilterValues) IsZero(id string) bool {
	v, ok := fv[id]
	if !ok || v == nil {
		return true
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t) == ""
	case []string:
		return len(t) == 0
	case []any:
		return len(t) == 0
	}
	return false
}

// String returns the value as a string, formatting numbers and dates.
func (fv FilterValues) String(id string) string {
	switch t := fv[id].(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	case time.Time:
		return t.Format("2006-01-02")
	}
	return ""
}

// Number returns the value as a float64 with ok=false when the value is
// absent or not coercible.
func (fv FilterValues) Number(id string) (float64, bool) {
	switch t := fv[id].(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// Date parses the value as a date. Accepts time.Time values and
// "2006-01-02" / RFC 3339 strings.
func (fv FilterValues) Date(id string) (time.Time, bool) {
	switch t := fv[id].(type) {
	case time.Time:
		return t, true
	case string:
		for _, layout := range []string{"2006-01-02", time.RFC3339} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed, true
			}
		}
	}
	return time.Time{}, false
}

// DateRange splits a "start|end" encoded range value into its two dates.
// Either side may be absent.
func (fv FilterValues) DateRange(id string) (start, end time.Time, ok bool) {
	raw, isStr := fv[id].(string)
	if !isStr {
		return time.Time{}, time.Time{}, false
	}
	parts := strings.SplitN(raw, "|", 2)
	if s, err := time.Parse("2006-01-02", parts[0]); err == nil {
		start = s
		ok = true
	}
	if len(parts) == 2 {
		if e, err := time.Parse("2006-01-02", parts[1]); err == nil {
			end = e
			ok = true
		}
	}
	return start, end, ok
}

// StringSlice returns the value as a slice of strings; scalar strings are
// wrapped in a single-element slice.
func (fv FilterValues) StringSlice(id string) []string {
	switch t := fv[id].(type) {
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, v := range t {
			if s, isStr := v.(string); isStr {
				out = append(out, s)
			}
		}
		return out
	case string:
		if t == "" {
			return nil
		}
		return []string{t}
	}
	return nil
}
