package models

import (
	"fmt"
	"strings"
	"time"
)

// DatetimeLayout is how timestamps are shown and typed in the admin forms.
const DatetimeLayout = "2006-01-02 15:04:05"

// naiveLayouts are tried after RFC 3339. Values without a zone are UTC.
var naiveLayouts = []string{
	DatetimeLayout,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTimestamp reads an RFC 3339 timestamp or a naive ISO one.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as a timestamp", s)
}
