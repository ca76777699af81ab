package model

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidInstant = errors.New("model: invalid instant")

// Wire layouts for instants: zone-less local wall-clock text. The first
// entry is the canonical output form; the rest are accepted on input.
const instantLayout = "2006-01-02T15:04:05"

var instantParseLayouts = []string{
	"2006-01-02T15:04:05.000",
	instantLayout,
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseInstant parses a zone-less ISO-8601 date-time string as local
// wall-clock time. Strings that do not resolve to a valid calendar
// instant are rejected.
func ParseInstant(text string) (time.Time, error) {
	for _, layout := range instantParseLayouts {
		if t, err := time.ParseInLocation(layout, text, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidInstant, text)
}

// FormatInstant renders the instant's local wall-clock fields without a
// zone suffix. Milliseconds appear only when non-zero.
func FormatInstant(t time.Time) string {
	local := t.Local()
	if local.Nanosecond() != 0 {
		return local.Format("2006-01-02T15:04:05.000")
	}
	return local.Format(instantLayout)
}
