// Package restadvisor implements the post-commit rule engine that scores
// observed focus patterns and writes rest_suggestions. No SQL aggregate
// does the scoring; it is a deterministic function over event-log values
// already in memory.
package restadvisor

import (
	"context"
	"sort"

	"github.com/untoldecay/timetrack/internal/aggregator"
	"github.com/untoldecay/timetrack/internal/model"
	"github.com/untoldecay/timetrack/internal/store"
)

const switchWindowSeconds = 1800

// Advisor implements internal/taskengine.RestAdvisor.
type Advisor struct {
	store   store.Storage
	enabled bool
}

// New builds an Advisor. When enabled is false, Fire is a no-op — this is
// how a host disables post-commit suggestions entirely (internal/config's
// rest-advisor.enabled flag) without touching the task engine.
func New(s store.Storage, enabled bool) *Advisor {
	return &Advisor{store: s, enabled: enabled}
}

// Fire computes focus_seconds, switch_count_30m, and deviation_ratio from
// the event log up to triggerTs, scores them, then writes the new pending
// suggestion after demoting any prior one.
func (a *Advisor) Fire(ctx context.Context, trigger model.TriggerType, sourceTaskID *string, triggerTs int64) error {
	if !a.enabled {
		return nil
	}

	events, err := a.store.EventsUpTo(ctx, triggerTs)
	if err != nil {
		return err
	}

	focusSeconds := computeFocusSeconds(events, sourceTaskID)
	deviationRatio := computeDeviationRatio(events, sourceTaskID, focusSeconds)
	switchCount, err := a.switchCount30m(ctx, triggerTs)
	if err != nil {
		return err
	}

	suggestedMinutes, reasons := score(focusSeconds, switchCount, deviationRatio)

	return a.store.RunInTransaction(ctx, func(tx store.Transaction) error {
		if err := tx.DemotePendingSuggestions(ctx, triggerTs); err != nil {
			return err
		}
		_, err := tx.InsertSuggestion(ctx, &model.RestSuggestion{
			TriggerType:      trigger,
			TaskID:           sourceTaskID,
			FocusSeconds:     focusSeconds,
			SwitchCount30m:   switchCount,
			DeviationRatio:   deviationRatio,
			SuggestedMinutes: suggestedMinutes,
			Reasons:          reasons,
			Status:           model.SuggestionPending,
			CreatedAt:        triggerTs,
		})
		return err
	})
}

// computeFocusSeconds is the duration of source_task_id's last closed
// session, or 0 if source_task_id is missing or has no closed session.
func computeFocusSeconds(events []*model.TimeEvent, sourceTaskID *string) int64 {
	if sourceTaskID == nil {
		return 0
	}
	lengths := aggregator.SessionLengths(events, *sourceTaskID)
	if len(lengths) == 0 {
		return 0
	}
	return lengths[len(lengths)-1]
}

// computeDeviationRatio compares focusSeconds against the median of prior
// closed sessions for source_task_id.
func computeDeviationRatio(events []*model.TimeEvent, sourceTaskID *string, focusSeconds int64) float64 {
	if sourceTaskID == nil || focusSeconds <= 0 {
		return 0
	}
	lengths := aggregator.SessionLengths(events, *sourceTaskID)
	if len(lengths) < 2 {
		return 0
	}
	// The caller-provided focusSeconds is authoritative for the "current"
	// value; only the historical baseline below is derived from the prior
	// sessions.
	prior := lengths[:len(lengths)-1]
	median := medianInt64(prior)
	if median <= 0 {
		return 0
	}
	ratio := float64(focusSeconds-median) / float64(median)
	if ratio < 0 {
		return 0
	}
	return ratio
}

// medianInt64 computes the integer median with lower-of-two rounding for
// even counts: (s[n/2-1] + s[n/2]) / 2 with integer division.
func medianInt64(vals []int64) int64 {
	sorted := append([]int64(nil), vals...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// switchCount30m counts adjacent different task ids among all start/resume
// events in [triggerTs-1800, triggerTs], ordered by (ts asc, id asc).
func (a *Advisor) switchCount30m(ctx context.Context, triggerTs int64) (int, error) {
	from := triggerTs - switchWindowSeconds
	events, err := a.store.EventsInWindow(ctx, "", from, triggerTs)
	if err != nil {
		return 0, err
	}
	count := 0
	var prev string
	first := true
	for _, e := range events {
		if !first && e.TaskID != prev {
			count++
		}
		prev = e.TaskID
		first = false
	}
	return count, nil
}

// score evaluates the deterministic rule table. Reasons are appended in
// exactly the order the rules are listed.
func score(focusSeconds int64, switchCount int, deviationRatio float64) (int, []string) {
	total := 0
	var reasons []string

	switch {
	case focusSeconds >= 5400:
		total += 4
		reasons = append(reasons, "continuous focus reached 90+ minutes")
	case focusSeconds >= 3000:
		total += 2
		reasons = append(reasons, "continuous focus reached 50+ minutes")
	}

	switch {
	case switchCount >= 6:
		total += 4
		reasons = append(reasons, "task switching was very frequent in the last 30 minutes")
	case switchCount >= 3:
		total += 2
		reasons = append(reasons, "task switching increased in the last 30 minutes")
	}

	switch {
	case deviationRatio >= 1.0:
		total += 2
		reasons = append(reasons, "focus duration is significantly above historical median")
	case deviationRatio >= 0.5:
		total += 1
		reasons = append(reasons, "focus duration is above historical median")
	}

	var suggestedMinutes int
	switch {
	case total >= 7:
		suggestedMinutes = 15
	case total >= 4:
		suggestedMinutes = 8
	case total >= 2:
		suggestedMinutes = 3
	default:
		suggestedMinutes = 0
	}

	if len(reasons) == 0 {
		reasons = []string{"current rhythm is stable; continuing is reasonable"}
	}
	return suggestedMinutes, reasons
}
