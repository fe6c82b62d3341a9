package aggregator

import (
	"context"
	"time"

	"github.com/untoldecay/timetrack/internal/model"
	"github.com/untoldecay/timetrack/internal/store"
)

// Aggregator composes Overview responses by replaying the full event log.
type Aggregator struct {
	store store.Storage
}

func New(s store.Storage) *Aggregator {
	return &Aggregator{store: s}
}

// Overview answers the windowed overview query. rangeLabel must be one of
// the fixed labels ResolveWindow accepts (all/day/week/today); anything
// else is InvalidInput.
func (a *Aggregator) Overview(ctx context.Context, rangeLabel string, now int64, loc *time.Location) (*model.Overview, error) {
	win, err := ResolveWindow(rangeLabel, now, loc)
	if err != nil {
		return nil, err
	}
	return a.overviewForWindow(ctx, win, now)
}

// OverviewText is a CLI-only convenience on top of Overview: it
// additionally accepts free-text range labels ("yesterday", "last
// monday") via ResolveWindowText. Hosts that need the strict
// fixed-label contract should call Overview directly.
func (a *Aggregator) OverviewText(ctx context.Context, rangeLabel string, now int64, loc *time.Location) (*model.Overview, error) {
	win, err := ResolveWindowText(rangeLabel, now, loc)
	if err != nil {
		return nil, err
	}
	return a.overviewForWindow(ctx, win, now)
}

func (a *Aggregator) overviewForWindow(ctx context.Context, win Window, now int64) (*model.Overview, error) {
	tasks, err := a.store.AllNonArchivedTasks(ctx)
	if err != nil {
		return nil, err
	}
	tagsByTask, err := a.store.TagNamesByTask(ctx)
	if err != nil {
		return nil, err
	}
	events, err := a.store.AllEventsOrdered(ctx, win.End)
	if err != nil {
		return nil, err
	}

	exclusive := replayExclusive(events, win)
	childrenByParent := groupChildren(tasks)
	inclusiveMemo := make(map[string]int64, len(tasks))
	inclusiveVisiting := make(map[string]bool, len(tasks))

	records := make([]model.TaskRecord, 0, len(tasks))
	var activeID *string
	for _, t := range tasks {
		if t.Status == model.StatusRunning {
			id := t.ID
			activeID = &id
		}
		records = append(records, model.TaskRecord{
			ID:               t.ID,
			ParentID:         t.ParentID,
			Title:            t.Title,
			Status:           t.Status,
			CreatedAt:        t.CreatedAt,
			Tags:             tagsByTask[t.ID],
			ExclusiveSeconds: exclusive[t.ID],
			InclusiveSeconds: inclusive(t.ID, childrenByParent, exclusive, inclusiveMemo, inclusiveVisiting),
		})
	}

	pending, err := a.store.LatestPendingSuggestion(ctx)
	if err != nil {
		return nil, err
	}

	return &model.Overview{
		Range:          win.Label,
		GeneratedAt:    now,
		ActiveTaskID:   activeID,
		RestSuggestion: pending,
		Tasks:          records,
	}, nil
}

func groupChildren(tasks []*model.Task) map[string][]string {
	out := make(map[string][]string)
	for _, t := range tasks {
		if t.ParentID == nil {
			continue
		}
		out[*t.ParentID] = append(out[*t.ParentID], t.ID)
	}
	return out
}

// inclusive computes inclusive(t) = exclusive(t) + sum(inclusive(child))
// via memoized DFS. A cycle (should not occur; reparent-time checks and
// the subtree walk both guard against it) is broken by returning the
// node's exclusive value.
func inclusive(id string, children map[string][]string, exclusive map[string]int64, memo map[string]int64, visiting map[string]bool) int64 {
	if v, ok := memo[id]; ok {
		return v
	}
	if visiting[id] {
		return exclusive[id]
	}
	visiting[id] = true
	total := exclusive[id]
	for _, childID := range children[id] {
		total += inclusive(childID, children, exclusive, memo, visiting)
	}
	visiting[id] = false
	memo[id] = total
	return total
}

// openInterval tracks one task's currently-open focus session.
type openInterval struct {
	start int64
}

// replayExclusive derives exclusive seconds per task from the event log:
// start/resume opens an interval (redundant opens keep the earlier start);
// pause/stop closes it, clipping to the window before accounting; any
// interval still open at window end is closed there.
func replayExclusive(events []*model.TimeEvent, win Window) map[string]int64 {
	open := make(map[string]openInterval)
	totals := make(map[string]int64)

	clipAndAccount := func(taskID string, start, end int64) {
		lo := start
		if win.Start != nil && *win.Start > lo {
			lo = *win.Start
		}
		hi := end
		if win.End < hi {
			hi = win.End
		}
		if hi > lo {
			totals[taskID] += hi - lo
		}
	}

	for _, e := range events {
		switch e.EventType {
		case model.EventStart, model.EventResume:
			if _, ok := open[e.TaskID]; !ok {
				open[e.TaskID] = openInterval{start: e.Ts}
			}
		case model.EventPause, model.EventStop:
			if iv, ok := open[e.TaskID]; ok {
				clipAndAccount(e.TaskID, iv.start, e.Ts)
				delete(open, e.TaskID)
			}
		}
	}

	for taskID, iv := range open {
		clipAndAccount(taskID, iv.start, win.End)
	}

	return totals
}

// sessionLengths reconstructs closed session lengths for one task, in the
// order sessions closed, from a pre-filtered, (ts asc, id asc)-ordered
// event slice. Shared with internal/restadvisor's focus_seconds and
// deviation_ratio computations, which replay the same per-task interval
// logic against events with ts <= trigger_ts.
func sessionLengths(events []*model.TimeEvent, taskID string) []int64 {
	var lengths []int64
	var openStart *int64
	for _, e := range events {
		if e.TaskID != taskID {
			continue
		}
		switch e.EventType {
		case model.EventStart, model.EventResume:
			if openStart == nil {
				ts := e.Ts
				openStart = &ts
			}
		case model.EventPause, model.EventStop:
			if openStart != nil {
				lengths = append(lengths, e.Ts-*openStart)
				openStart = nil
			}
		}
	}
	return lengths
}

// SessionLengths exposes sessionLengths for internal/restadvisor.
func SessionLengths(events []*model.TimeEvent, taskID string) []int64 {
	return sessionLengths(events, taskID)
}
