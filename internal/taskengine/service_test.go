package taskengine_test

import (
	"context"
	"testing"

	"github.com/untoldecay/timetrack/internal/model"
	"github.com/untoldecay/timetrack/internal/store"
	"github.com/untoldecay/timetrack/internal/store/sqlite"
	"github.com/untoldecay/timetrack/internal/taskengine"
)

func newTestService(t *testing.T) (*taskengine.Service, store.Storage) {
	t.Helper()
	s, err := sqlite.Open(context.Background(), store.Config{Path: ":memory:"})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return taskengine.New(s, nil), s
}

func TestCreateTaskRequiresNonEmptyTitle(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.CreateTask(context.Background(), "   ", nil); !model.Is(err, model.KindInvalidInput) {
		t.Fatalf("expected InvalidInput, got %v", err)
	}
}

func TestCreateTaskUnknownParentIsNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	missing := "does-not-exist"
	if _, err := svc.CreateTask(context.Background(), "subtask", &missing); !model.Is(err, model.KindNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestRenameTask(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	id, err := svc.CreateTask(ctx, "draft", nil)
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if err := svc.RenameTask(ctx, id, "final title"); err != nil {
		t.Fatalf("RenameTask: %v", err)
	}
}

func TestRenameUnknownTaskIsNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	if err := svc.RenameTask(context.Background(), "ghost", "x"); !model.Is(err, model.KindNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestArchiveTaskIsSoftDelete(t *testing.T) {
	ctx := context.Background()
	svc, s := newTestService(t)

	id, err := svc.CreateTask(ctx, "to archive", nil)
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if err := svc.ArchiveTask(ctx, id); err != nil {
		t.Fatalf("ArchiveTask: %v", err)
	}

	got, err := s.GetTask(ctx, id)
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if got != nil {
		t.Fatalf("expected an archived task to read as not found, got %+v", got)
	}
}

func TestDeleteTasksRejectsRunningBlocker(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	id, err := svc.CreateTask(ctx, "in progress", nil)
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if err := svc.StartTask(ctx, id); err != nil {
		t.Fatalf("StartTask: %v", err)
	}
	if err := svc.DeleteTasks(ctx, []string{id}, false); !model.Is(err, model.KindConflict) {
		t.Fatalf("expected Conflict deleting a running task, got %v", err)
	}
}

func TestDeleteTasksHardDeleteRemovesSubtree(t *testing.T) {
	ctx := context.Background()
	svc, s := newTestService(t)

	parent, err := svc.CreateTask(ctx, "parent", nil)
	if err != nil {
		t.Fatalf("CreateTask (parent): %v", err)
	}
	child, err := svc.CreateTask(ctx, "child", &parent)
	if err != nil {
		t.Fatalf("CreateTask (child): %v", err)
	}

	if err := svc.DeleteTasks(ctx, []string{parent}, true); err != nil {
		t.Fatalf("DeleteTasks (hard): %v", err)
	}

	for _, id := range []string{parent, child} {
		got, err := s.GetTask(ctx, id)
		if err != nil {
			t.Fatalf("GetTask(%s): %v", id, err)
		}
		if got != nil {
			t.Fatalf("expected %s to be gone after hard delete, got %+v", id, got)
		}
	}
}

func TestDeleteTasksEmptyListIsInvalidInput(t *testing.T) {
	svc, _ := newTestService(t)
	if err := svc.DeleteTasks(context.Background(), []string{"  ", ""}, false); !model.Is(err, model.KindInvalidInput) {
		t.Fatalf("expected InvalidInput for an empty id list, got %v", err)
	}
}

func TestReparentTaskSameParentIsNoOp(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	parent, err := svc.CreateTask(ctx, "parent", nil)
	if err != nil {
		t.Fatalf("CreateTask (parent): %v", err)
	}
	child, err := svc.CreateTask(ctx, "child", &parent)
	if err != nil {
		t.Fatalf("CreateTask (child): %v", err)
	}
	if err := svc.ReparentTask(ctx, child, &parent); err != nil {
		t.Fatalf("ReparentTask (same parent, expect no-op): %v", err)
	}
}

func TestReparentTaskRejectsCycle(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	grandparent, err := svc.CreateTask(ctx, "grandparent", nil)
	if err != nil {
		t.Fatalf("CreateTask (grandparent): %v", err)
	}
	parent, err := svc.CreateTask(ctx, "parent", &grandparent)
	if err != nil {
		t.Fatalf("CreateTask (parent): %v", err)
	}
	child, err := svc.CreateTask(ctx, "child", &parent)
	if err != nil {
		t.Fatalf("CreateTask (child): %v", err)
	}

	if err := svc.ReparentTask(ctx, grandparent, &child); !model.Is(err, model.KindConflict) {
		t.Fatalf("expected Conflict reparenting an ancestor under its own descendant, got %v", err)
	}
}

// TestReparentBlockedByActiveSubtreeThenSucceeds: a running descendant
// blocks reparenting with Conflict; after stopping it the same call
// succeeds and leaves a reparent event carrying the new parent id.
func TestReparentBlockedByActiveSubtreeThenSucceeds(t *testing.T) {
	ctx := context.Background()
	svc, s := newTestService(t)

	p, err := svc.CreateTask(ctx, "p", nil)
	if err != nil {
		t.Fatalf("CreateTask p: %v", err)
	}
	q, err := svc.CreateTask(ctx, "q", &p)
	if err != nil {
		t.Fatalf("CreateTask q: %v", err)
	}
	newParent, err := svc.CreateTask(ctx, "new parent", nil)
	if err != nil {
		t.Fatalf("CreateTask newParent: %v", err)
	}

	if err := svc.StartTask(ctx, q); err != nil {
		t.Fatalf("StartTask q: %v", err)
	}
	if err := svc.ReparentTask(ctx, p, &newParent); !model.Is(err, model.KindConflict) {
		t.Fatalf("expected Conflict while q runs, got %v", err)
	}

	if err := svc.StopTask(ctx, q); err != nil {
		t.Fatalf("StopTask q: %v", err)
	}
	if err := svc.ReparentTask(ctx, p, &newParent); err != nil {
		t.Fatalf("ReparentTask after stopping q: %v", err)
	}

	ev, err := s.LatestEvent(ctx, p)
	if err != nil {
		t.Fatalf("LatestEvent: %v", err)
	}
	if ev == nil || ev.EventType != model.EventReparent {
		t.Fatalf("expected a reparent event on p, got %+v", ev)
	}
	if ev.Payload[model.PayloadNewParentID] != newParent {
		t.Fatalf("expected new_parent_id=%s in the payload, got %v", newParent, ev.Payload)
	}
}

func TestReparentTaskSelfIsInvalidInput(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	id, err := svc.CreateTask(ctx, "solo", nil)
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if err := svc.ReparentTask(ctx, id, &id); !model.Is(err, model.KindInvalidInput) {
		t.Fatalf("expected InvalidInput reparenting a task under itself, got %v", err)
	}
}
