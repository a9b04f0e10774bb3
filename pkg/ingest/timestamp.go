package ingest

import (
	"errors"
	"time"
)

// Layouts is the canonical set of accepted timestamp formats, ordered by
// likelihood. A value must match one of these (or an explicitly configured
// layout) or the whole load is rejected.
var Layouts = []string{
	"2006-01-02T15:04:05.000Z07:00", // ISO 8601 with millis
	"2006-01-02T15:04:05Z07:00",     // ISO 8601
	"2006-01-02T15:04:05",           // ISO 8601, no zone
	"2006-01-02 15:04:05.000",       // space separator with millis
	"2006-01-02 15:04:05",           // space separator
	"2006-01-02",                    // date only
	"02/01/2006 15:04:05",           // DD/MM/YYYY
	"2006/01/02 15:04:05",           // YYYY/MM/DD
	time.RFC3339Nano,
}

var errInvalidTimestamp = errors.New("ingest: invalid timestamp format")

// parseTimestamp parses a raw timestamp against the canonical layout set.
// When layout is non-empty it is tried first, so callers can pin one exact
// format for exotic inputs.
func parseTimestamp(raw string, layout string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, errInvalidTimestamp
	}
	if layout != "" {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	for _, l := range Layouts {
		if t, err := time.Parse(l, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errInvalidTimestamp
}
