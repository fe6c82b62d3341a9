// Package aggregator implements the read-only event-log replay that
// derives exclusive/inclusive focus seconds per task for a reporting
// window. No aggregate SQL; all accounting happens over values already
// read into memory.
package aggregator

import (
	"time"

	"github.com/untoldecay/timetrack/internal/model"
)

const (
	day  = 24 * time.Hour
	week = 7 * day
)

// Window is a half-open [Start, End) range. A nil Start means "unbounded
// past" (the "all" range label).
type Window struct {
	Label string
	Start *int64
	End   int64
}

// ResolveWindow maps a range label to a concrete Window ending at now. An
// empty label defaults to "all"; anything else unrecognized fails
// InvalidInput.
func ResolveWindow(label string, now int64, loc *time.Location) (Window, error) {
	if label == "" {
		label = "all"
	}
	switch label {
	case "all":
		return Window{Label: label, End: now}, nil
	case "day":
		start := now - int64(day/time.Second)
		return Window{Label: label, Start: &start, End: now}, nil
	case "week":
		start := now - int64(week/time.Second)
		return Window{Label: label, Start: &start, End: now}, nil
	case "today":
		start := startOfDay(now, loc)
		return Window{Label: label, Start: &start, End: now}, nil
	default:
		return Window{}, model.InvalidInput("unknown range label %q", label)
	}
}

// startOfDay returns the unix timestamp of local midnight on the calendar
// day containing ts, in loc. A DST spring-forward gap can make local
// midnight a non-existent wall-clock time; time.Date normalizes it
// forward to the next representable instant. If that normalization
// somehow pushes past ts itself, fall back to ts.
func startOfDay(ts int64, loc *time.Location) int64 {
	if loc == nil {
		loc = time.Local
	}
	t := time.Unix(ts, 0).In(loc)
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	start := midnight.Unix()
	if start > ts {
		return ts
	}
	return start
}
