package aggregator

import (
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"

	"github.com/untoldecay/timetrack/internal/model"
)

// textParser is a package-level when.Parser, built once, loaded with the
// library's English and common rule sets.
var textParser = func() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}()

// ResolveWindowText extends ResolveWindow with free-text window bounds
// ("yesterday", "last monday") on top of the fixed all/day/week/today
// labels. The label is tried as a fixed range first; on no match, it is
// parsed as a relative reference point and used as window_start with
// window_end=now.
func ResolveWindowText(label string, now int64, loc *time.Location) (Window, error) {
	win, err := ResolveWindow(label, now, loc)
	if err == nil {
		return win, nil
	}

	if loc == nil {
		loc = time.Local
	}
	base := time.Unix(now, 0).In(loc)
	result, parseErr := textParser.Parse(label, base)
	if parseErr != nil || result == nil {
		return Window{}, model.InvalidInput("unrecognized range label %q", label)
	}
	start := result.Time.Unix()
	if start > now {
		start = now
	}
	return Window{Label: label, Start: &start, End: now}, nil
}
