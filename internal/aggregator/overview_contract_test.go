package aggregator_test

import (
	"context"
	"testing"
	"time"

	"github.com/untoldecay/timetrack/internal/aggregator"
	"github.com/untoldecay/timetrack/internal/model"
	"github.com/untoldecay/timetrack/internal/store"
	"github.com/untoldecay/timetrack/internal/store/sqlite"
)

// TestOverviewRejectsFreeTextLabel pins the core overview contract: only
// all/day/week/today are accepted, even though the CLI's OverviewText
// convenience accepts free text on top of it.
func TestOverviewRejectsFreeTextLabel(t *testing.T) {
	ctx := context.Background()
	s, err := sqlite.Open(ctx, store.Config{Path: ":memory:"})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	agg := aggregator.New(s)
	if _, err := agg.Overview(ctx, "yesterday", model.NowUnix(), nil); !model.Is(err, model.KindInvalidInput) {
		t.Fatalf("expected InvalidInput for a free-text label on the core overview operation, got %v", err)
	}
}

// TestOverviewTextAcceptsFreeTextLabel confirms the CLI-only convenience
// still resolves free text that Overview itself rejects.
func TestOverviewTextAcceptsFreeTextLabel(t *testing.T) {
	ctx := context.Background()
	s, err := sqlite.Open(ctx, store.Config{Path: ":memory:"})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	agg := aggregator.New(s)
	if _, err := agg.OverviewText(ctx, "yesterday", model.NowUnix(), time.UTC); err != nil {
		t.Fatalf("OverviewText: %v", err)
	}
}

// TestOverviewSingleClosedSession drives one start/pause pair through the
// store and checks the composed response: 600 exclusive and inclusive
// seconds, no active task.
func TestOverviewSingleClosedSession(t *testing.T) {
	ctx := context.Background()
	s, err := sqlite.Open(ctx, store.Config{Path: ":memory:"})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	task := &model.Task{ID: "a", Title: "a", Status: model.StatusPaused, CreatedAt: 1000}
	if err := s.InsertTask(ctx, task); err != nil {
		t.Fatalf("InsertTask: %v", err)
	}
	if _, err := s.AppendEvent(ctx, &model.TimeEvent{TaskID: "a", EventType: model.EventStart, Ts: 1000}); err != nil {
		t.Fatalf("AppendEvent (start): %v", err)
	}
	if _, err := s.AppendEvent(ctx, &model.TimeEvent{TaskID: "a", EventType: model.EventPause, Ts: 1600}); err != nil {
		t.Fatalf("AppendEvent (pause): %v", err)
	}

	agg := aggregator.New(s)
	o, err := agg.Overview(ctx, "all", 2000, nil)
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if o.ActiveTaskID != nil {
		t.Fatalf("expected no active task, got %s", *o.ActiveTaskID)
	}
	if len(o.Tasks) != 1 {
		t.Fatalf("expected one task record, got %d", len(o.Tasks))
	}
	rec := o.Tasks[0]
	if rec.ExclusiveSeconds != 600 || rec.InclusiveSeconds != 600 {
		t.Fatalf("exclusive/inclusive = %d/%d, want 600/600", rec.ExclusiveSeconds, rec.InclusiveSeconds)
	}
}
