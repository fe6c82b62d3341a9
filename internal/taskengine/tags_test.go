package taskengine_test

import (
	"context"
	"testing"

	"github.com/untoldecay/timetrack/internal/model"
)

func TestAddTagIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	svc, s := newTestService(t)

	id, err := svc.CreateTask(ctx, "task", nil)
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if err := svc.AddTagToTask(ctx, id, "Urgent"); err != nil {
		t.Fatalf("AddTagToTask: %v", err)
	}
	if err := svc.AddTagToTask(ctx, id, "URGENT"); err != nil {
		t.Fatalf("AddTagToTask (same tag, different casing): %v", err)
	}

	names, err := s.TagNamesByTask(ctx)
	if err != nil {
		t.Fatalf("TagNamesByTask: %v", err)
	}
	if got := names[id]; len(got) != 1 {
		t.Fatalf("expected exactly one tag despite the casing difference, got %v", got)
	}
}

func TestRemoveTagPrunesOrphan(t *testing.T) {
	ctx := context.Background()
	svc, s := newTestService(t)

	id, err := svc.CreateTask(ctx, "task", nil)
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if err := svc.AddTagToTask(ctx, id, "solo"); err != nil {
		t.Fatalf("AddTagToTask: %v", err)
	}
	if err := svc.RemoveTagFromTask(ctx, id, "solo"); err != nil {
		t.Fatalf("RemoveTagFromTask: %v", err)
	}

	names, err := s.TagNamesByTask(ctx)
	if err != nil {
		t.Fatalf("TagNamesByTask: %v", err)
	}
	if got := names[id]; len(got) != 0 {
		t.Fatalf("expected no tags left on %s, got %v", id, got)
	}

	tag, err := s.FindTagByName(ctx, "solo")
	if err != nil {
		t.Fatalf("FindTagByName: %v", err)
	}
	if tag != nil {
		t.Fatalf("expected the orphaned tag to have been pruned, got %+v", tag)
	}
}

func TestRemoveUnknownTagIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	id, err := svc.CreateTask(ctx, "task", nil)
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if err := svc.RemoveTagFromTask(ctx, id, "never-added"); err != nil {
		t.Fatalf("RemoveTagFromTask (no-op): %v", err)
	}
}

func TestRespondRestSuggestionIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, s := newTestService(t)

	id, err := s.InsertSuggestion(ctx, &model.RestSuggestion{
		TriggerType:      model.TriggerTaskSwitch,
		SuggestedMinutes: 3,
		Status:           model.SuggestionPending,
		CreatedAt:        model.NowUnix(),
	})
	if err != nil {
		t.Fatalf("InsertSuggestion: %v", err)
	}

	if err := svc.RespondRestSuggestion(ctx, id, true); err != nil {
		t.Fatalf("RespondRestSuggestion (accept): %v", err)
	}
	if err := svc.RespondRestSuggestion(ctx, id, false); err != nil {
		t.Fatalf("RespondRestSuggestion (second response, expect no-op): %v", err)
	}

	sug, err := s.GetSuggestion(ctx, id)
	if err != nil {
		t.Fatalf("GetSuggestion: %v", err)
	}
	if sug.Status != model.SuggestionAccepted {
		t.Fatalf("expected the first response to stick, got %s", sug.Status)
	}
}

func TestRespondRestSuggestionUnknownIDIsNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	if err := svc.RespondRestSuggestion(context.Background(), 999, true); !model.Is(err, model.KindNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}
