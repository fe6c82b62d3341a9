package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/untoldecay/timetrack/internal/model"
	"github.com/untoldecay/timetrack/internal/store"
	"github.com/untoldecay/timetrack/internal/store/sqlite"
)

func openTest(t *testing.T) store.Storage {
	t.Helper()
	s, err := sqlite.Open(context.Background(), store.Config{Path: ":memory:"})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenAppliesSchema(t *testing.T) {
	s := openTest(t)
	if _, err := s.AllNonArchivedTasks(context.Background()); err != nil {
		t.Fatalf("AllNonArchivedTasks on a fresh store: %v", err)
	}
}

func TestInsertAndGetTask(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	task := &model.Task{ID: "t1", Title: "write report", Status: model.StatusIdle, CreatedAt: 100}
	if err := s.InsertTask(ctx, task); err != nil {
		t.Fatalf("InsertTask: %v", err)
	}

	got, err := s.GetTask(ctx, "t1")
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if got == nil || got.Title != "write report" {
		t.Fatalf("GetTask returned %+v", got)
	}
}

func TestGetTaskExcludesArchived(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	task := &model.Task{ID: "t1", Title: "old work", Status: model.StatusStopped, CreatedAt: 100}
	if err := s.InsertTask(ctx, task); err != nil {
		t.Fatalf("InsertTask: %v", err)
	}
	if err := s.ArchiveTasks(ctx, []string{"t1"}, 200); err != nil {
		t.Fatalf("ArchiveTasks: %v", err)
	}

	got, err := s.GetTask(ctx, "t1")
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if got != nil {
		t.Fatalf("expected an archived task to read as not found, got %+v", got)
	}
}

func TestArchiveTasksIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	task := &model.Task{ID: "t1", Title: "x", Status: model.StatusStopped, CreatedAt: 100}
	if err := s.InsertTask(ctx, task); err != nil {
		t.Fatalf("InsertTask: %v", err)
	}
	if err := s.ArchiveTasks(ctx, []string{"t1"}, 200); err != nil {
		t.Fatalf("first ArchiveTasks: %v", err)
	}
	if err := s.ArchiveTasks(ctx, []string{"t1"}, 300); err != nil {
		t.Fatalf("second ArchiveTasks: %v", err)
	}
}

func TestDeleteTasksRemovesRow(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	task := &model.Task{ID: "t1", Title: "x", Status: model.StatusIdle, CreatedAt: 100}
	if err := s.InsertTask(ctx, task); err != nil {
		t.Fatalf("InsertTask: %v", err)
	}
	if err := s.DeleteTasks(ctx, []string{"t1"}); err != nil {
		t.Fatalf("DeleteTasks: %v", err)
	}

	all, err := s.AllNonArchivedTasks(ctx)
	if err != nil {
		t.Fatalf("AllNonArchivedTasks: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("expected no remaining tasks, got %d", len(all))
	}
}

func TestRunInTransactionRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	sentinel := errors.New("boom")
	err := s.RunInTransaction(ctx, func(tx store.Transaction) error {
		if insertErr := tx.InsertTask(ctx, &model.Task{ID: "t1", Title: "x", Status: model.StatusIdle, CreatedAt: 1}); insertErr != nil {
			return insertErr
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected the sentinel error to propagate, got %v", err)
	}

	got, err := s.GetTask(ctx, "t1")
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if got != nil {
		t.Fatalf("expected the insert to have rolled back, found %+v", got)
	}
}

func TestLinkTagCaseInsensitiveFindOrCreate(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	if err := s.InsertTask(ctx, &model.Task{ID: "t1", Title: "x", Status: model.StatusIdle, CreatedAt: 1}); err != nil {
		t.Fatalf("InsertTask: %v", err)
	}

	tag, err := s.FindTagByName(ctx, "Urgent")
	if err != nil {
		t.Fatalf("FindTagByName: %v", err)
	}
	if tag != nil {
		t.Fatalf("expected no existing tag")
	}
	newTag := &model.Tag{ID: "tag1", Name: "urgent"}
	if err := s.InsertTag(ctx, newTag); err != nil {
		t.Fatalf("InsertTag: %v", err)
	}

	found, err := s.FindTagByName(ctx, "URGENT")
	if err != nil {
		t.Fatalf("FindTagByName (case-insensitive): %v", err)
	}
	if found == nil || found.ID != "tag1" {
		t.Fatalf("expected a case-insensitive match, got %+v", found)
	}

	created, err := s.LinkTag(ctx, "t1", "tag1", 10)
	if err != nil {
		t.Fatalf("LinkTag: %v", err)
	}
	if !created {
		t.Fatalf("expected LinkTag to report a new row")
	}

	createdAgain, err := s.LinkTag(ctx, "t1", "tag1", 20)
	if err != nil {
		t.Fatalf("LinkTag (repeat): %v", err)
	}
	if createdAgain {
		t.Fatalf("expected the repeat LinkTag to be a no-op")
	}
}

func TestPruneUnreferencedTagsRemovesOrphans(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	if err := s.InsertTask(ctx, &model.Task{ID: "t1", Title: "x", Status: model.StatusIdle, CreatedAt: 1}); err != nil {
		t.Fatalf("InsertTask: %v", err)
	}
	if err := s.InsertTag(ctx, &model.Tag{ID: "tag1", Name: "solo"}); err != nil {
		t.Fatalf("InsertTag: %v", err)
	}
	if _, err := s.LinkTag(ctx, "t1", "tag1", 1); err != nil {
		t.Fatalf("LinkTag: %v", err)
	}
	if _, err := s.UnlinkTag(ctx, "t1", "tag1"); err != nil {
		t.Fatalf("UnlinkTag: %v", err)
	}
	if err := s.PruneUnreferencedTags(ctx); err != nil {
		t.Fatalf("PruneUnreferencedTags: %v", err)
	}

	tag, err := s.FindTagByName(ctx, "solo")
	if err != nil {
		t.Fatalf("FindTagByName: %v", err)
	}
	if tag != nil {
		t.Fatalf("expected the orphaned tag to have been pruned, got %+v", tag)
	}
}

func TestAppendEventAndLatestEvent(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	if err := s.InsertTask(ctx, &model.Task{ID: "t1", Title: "x", Status: model.StatusIdle, CreatedAt: 1}); err != nil {
		t.Fatalf("InsertTask: %v", err)
	}
	if _, err := s.AppendEvent(ctx, &model.TimeEvent{TaskID: "t1", EventType: model.EventStart, Ts: 10}); err != nil {
		t.Fatalf("AppendEvent (start): %v", err)
	}
	if _, err := s.AppendEvent(ctx, &model.TimeEvent{TaskID: "t1", EventType: model.EventStop, Ts: 20}); err != nil {
		t.Fatalf("AppendEvent (stop): %v", err)
	}

	latest, err := s.LatestEvent(ctx, "t1")
	if err != nil {
		t.Fatalf("LatestEvent: %v", err)
	}
	if latest == nil || latest.EventType != model.EventStop {
		t.Fatalf("expected the latest event to be stop, got %+v", latest)
	}
}

func TestEventsInWindowFiltersByTimeRange(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	if err := s.InsertTask(ctx, &model.Task{ID: "t1", Title: "x", Status: model.StatusIdle, CreatedAt: 1}); err != nil {
		t.Fatalf("InsertTask: %v", err)
	}
	for _, ts := range []int64{100, 500, 2000} {
		if _, err := s.AppendEvent(ctx, &model.TimeEvent{TaskID: "t1", EventType: model.EventStart, Ts: ts}); err != nil {
			t.Fatalf("AppendEvent at %d: %v", ts, err)
		}
	}

	events, err := s.EventsInWindow(ctx, "t1", 0, 1000)
	if err != nil {
		t.Fatalf("EventsInWindow: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events in [0,1000], got %d", len(events))
	}
}

func TestSuggestionRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	sug := &model.RestSuggestion{
		TriggerType:      model.TriggerTaskSwitch,
		FocusSeconds:     3600,
		SuggestedMinutes: 8,
		Reasons:          []string{"focus_seconds"},
		Status:           model.SuggestionPending,
		CreatedAt:        100,
	}
	id, err := s.InsertSuggestion(ctx, sug)
	if err != nil {
		t.Fatalf("InsertSuggestion: %v", err)
	}

	pending, err := s.LatestPendingSuggestion(ctx)
	if err != nil {
		t.Fatalf("LatestPendingSuggestion: %v", err)
	}
	if pending == nil || pending.ID != id {
		t.Fatalf("expected the inserted suggestion to be pending, got %+v", pending)
	}

	if err := s.UpdateSuggestionResponse(ctx, id, model.SuggestionAccepted, 200); err != nil {
		t.Fatalf("UpdateSuggestionResponse: %v", err)
	}

	again, err := s.LatestPendingSuggestion(ctx)
	if err != nil {
		t.Fatalf("LatestPendingSuggestion after response: %v", err)
	}
	if again != nil {
		t.Fatalf("expected no pending suggestion after responding, got %+v", again)
	}
}

func TestDemotePendingSuggestions(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	if _, err := s.InsertSuggestion(ctx, &model.RestSuggestion{
		TriggerType: model.TriggerSubtaskEnd,
		Status:      model.SuggestionPending,
		CreatedAt:   50,
	}); err != nil {
		t.Fatalf("InsertSuggestion: %v", err)
	}
	if err := s.DemotePendingSuggestions(ctx, 60); err != nil {
		t.Fatalf("DemotePendingSuggestions: %v", err)
	}
	pending, err := s.LatestPendingSuggestion(ctx)
	if err != nil {
		t.Fatalf("LatestPendingSuggestion: %v", err)
	}
	if pending != nil {
		t.Fatalf("expected the old suggestion to be demoted, got %+v", pending)
	}
}
