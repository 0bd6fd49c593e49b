// Package timefmt normalizes the wall-clock timestamps stored by studio.
//
// Stored timestamps carry no zone. In memory they are time.Time values tagged
// with time.UTC whose wall fields are the stored fields, so two values compare
// equal exactly when their text forms do.
package timefmt

import (
	"fmt"
	"strings"
	"time"
)

// Layout is the canonical storage form, minute resolution.
const Layout = "2006-01-02T15:04"

// inputLayouts are the inbound forms accepted by ParseInput after a trailing
// "Z" has been dropped. Fractional seconds are accepted after the seconds
// field by time.Parse even though the layout does not name them.
var inputLayouts = []string{
	Layout,
	"2006-01-02T15:04:05",
}

// DateError reports an input that is not one of the accepted date forms.
// Callers outside the storage layer see it wrapped by models.ParseDate as an
// InvalidDate error.
type DateError struct {
	Input string
}

func (e *DateError) Error() string {
	return fmt.Sprintf("%q is not a YYYY-MM-DDThh:mm[:ss][Z] date", e.Input)
}

var nowFunc = time.Now

// Naive re-tags t's wall-clock fields as a zone-less value.
func Naive(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// Truncate drops everything below the minute.
func Truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, t.Location())
}

// Now returns the current local wall-clock time truncated to the minute.
func Now() time.Time {
	return Truncate(Naive(nowFunc()))
}

// Format renders t in the canonical storage form.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// Parse reads a value written by Format.
func Parse(s string) (time.Time, error) {
	t, err := time.ParseInLocation(Layout, s, time.UTC)
	if err != nil {
		return time.Time{}, &DateError{Input: s}
	}
	return t, nil
}

// ParseInput parses a caller-supplied date. It accepts YYYY-MM-DDThh:mm with
// optional seconds, optional fractional seconds and an optional trailing "Z".
// The zone marker is treated as local time. Anything else is rejected.
func ParseInput(s string) (time.Time, error) {
	raw := strings.TrimSpace(s)
	raw = strings.TrimSuffix(raw, "Z")
	for _, layout := range inputLayouts {
		t, err := time.ParseInLocation(layout, raw, time.UTC)
		if err == nil {
			return Truncate(t), nil
		}
	}
	return time.Time{}, &DateError{Input: s}
}

// DayBounds returns the first and last minute of t's calendar day.
func DayBounds(t time.Time) (start, end time.Time) {
	start = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	end = time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 0, 0, t.Location())
	return start, end
}
