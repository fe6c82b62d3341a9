package taskengine_test

import (
	"context"
	"testing"

	"github.com/untoldecay/timetrack/internal/model"
	"github.com/untoldecay/timetrack/internal/restadvisor"
	"github.com/untoldecay/timetrack/internal/store"
	"github.com/untoldecay/timetrack/internal/store/sqlite"
	"github.com/untoldecay/timetrack/internal/taskengine"
)

// newAdvisedTestService wires a real, enabled *restadvisor.Advisor into
// the task engine, unlike newTestService's advisor=nil, so post-commit
// Fire calls actually run.
func newAdvisedTestService(t *testing.T) (*taskengine.Service, store.Storage) {
	t.Helper()
	s, err := sqlite.Open(context.Background(), store.Config{Path: ":memory:"})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	advisor := restadvisor.New(s, true)
	return taskengine.New(s, advisor), s
}

// TestStopTaskFiresSubtaskEndAdvisor: stopping a child that was inserted
// under a running parent auto-resumes the parent and fires the advisor
// with trigger=subtask_end, source task_id=the child that just ended,
// leaving a pending rest_suggestions row behind.
func TestStopTaskFiresSubtaskEndAdvisor(t *testing.T) {
	ctx := context.Background()
	svc, s := newAdvisedTestService(t)

	parent, err := svc.CreateTask(ctx, "parent", nil)
	if err != nil {
		t.Fatalf("CreateTask (parent): %v", err)
	}
	if err := svc.StartTask(ctx, parent); err != nil {
		t.Fatalf("StartTask (parent): %v", err)
	}
	child, err := svc.InsertSubtaskAndStart(ctx, parent, "child")
	if err != nil {
		t.Fatalf("InsertSubtaskAndStart: %v", err)
	}

	if err := svc.StopTask(ctx, child); err != nil {
		t.Fatalf("StopTask (child): %v", err)
	}

	sug, err := s.LatestPendingSuggestion(ctx)
	if err != nil {
		t.Fatalf("LatestPendingSuggestion: %v", err)
	}
	if sug == nil {
		t.Fatal("expected a pending rest suggestion after the subtask_end trigger, got none")
	}
	if sug.TriggerType != model.TriggerSubtaskEnd {
		t.Fatalf("expected trigger_type=subtask_end, got %s", sug.TriggerType)
	}
	if sug.TaskID == nil || *sug.TaskID != child {
		t.Fatalf("expected task_id=%s (the child that ended), got %v", child, sug.TaskID)
	}
	if sug.Status != model.SuggestionPending {
		t.Fatalf("expected status=pending, got %s", sug.Status)
	}
}

// TestRestAdvisorSupersedesPriorPendingSuggestion: a second advisor firing
// demotes any still-pending suggestion from an earlier trigger before
// inserting its own pending row, enforcing the single-pending invariant.
func TestRestAdvisorSupersedesPriorPendingSuggestion(t *testing.T) {
	ctx := context.Background()
	svc, s := newAdvisedTestService(t)

	first, err := svc.CreateTask(ctx, "first", nil)
	if err != nil {
		t.Fatalf("CreateTask (first): %v", err)
	}
	if err := svc.StartTask(ctx, first); err != nil {
		t.Fatalf("StartTask (first): %v", err)
	}

	second, err := svc.CreateTask(ctx, "second", nil)
	if err != nil {
		t.Fatalf("CreateTask (second): %v", err)
	}
	if err := svc.StopTask(ctx, first); err != nil {
		t.Fatalf("StopTask (first): %v", err)
	}
	// Starting second while first was the most recent focus task fires a
	// task_switch trigger, leaving a first pending suggestion.
	if err := svc.StartTask(ctx, second); err != nil {
		t.Fatalf("StartTask (second): %v", err)
	}

	firstPending, err := s.LatestPendingSuggestion(ctx)
	if err != nil {
		t.Fatalf("LatestPendingSuggestion (after first trigger): %v", err)
	}
	if firstPending == nil {
		t.Fatal("expected a pending suggestion after the first task_switch trigger, got none")
	}

	third, err := svc.CreateTask(ctx, "third", nil)
	if err != nil {
		t.Fatalf("CreateTask (third): %v", err)
	}
	if err := svc.StopTask(ctx, second); err != nil {
		t.Fatalf("StopTask (second): %v", err)
	}
	if err := svc.StartTask(ctx, third); err != nil {
		t.Fatalf("StartTask (third): %v", err)
	}

	secondPending, err := s.LatestPendingSuggestion(ctx)
	if err != nil {
		t.Fatalf("LatestPendingSuggestion (after second trigger): %v", err)
	}
	if secondPending == nil {
		t.Fatal("expected a pending suggestion after the second task_switch trigger, got none")
	}
	if secondPending.ID == firstPending.ID {
		t.Fatal("expected the second trigger to insert a new suggestion, not reuse the first")
	}

	superseded, err := s.GetSuggestion(ctx, firstPending.ID)
	if err != nil {
		t.Fatalf("GetSuggestion (first): %v", err)
	}
	if superseded.Status != model.SuggestionIgnored {
		t.Fatalf("expected the first suggestion to be superseded (ignored), got %s", superseded.Status)
	}
}
