package util

import (
	"fmt"
	"time"

	"github.com/araddon/dateparse"
)

// timeLiteralLayout is the fixed layout used for every time literal emitted
// into the graph. Millisecond precision is kept for all sources so that the
// same instant always produces the same literal.
const timeLiteralLayout = "2006-01-02T15:04:05.000Z07:00"

// ParseTimestamp parses an ISO-formatted source timestamp into a UTC instant.
func ParseTimestamp(value string) (time.Time, error) {
	t, err := dateparse.ParseAny(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", value, err)
	}
	return t.UTC(), nil
}

// FromUnixMilli converts an epoch-millisecond source timestamp into a UTC
// instant, keeping the millisecond remainder.
func FromUnixMilli(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// TimeLiteral renders an instant as a graph literal.
func TimeLiteral(t time.Time) string {
	return t.Format(timeLiteralLayout)
}
