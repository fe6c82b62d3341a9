package taskengine

import (
	"context"

	"github.com/untoldecay/timetrack/internal/model"
	"github.com/untoldecay/timetrack/internal/store"
)

// AddTagToTask implements add_tag_to_task. Tag names are matched
// case-insensitively and stored with first-seen casing.
func (s *Service) AddTagToTask(ctx context.Context, taskID, name string) error {
	name, err := cleanTag(name)
	if err != nil {
		return err
	}
	return s.store.RunInTransaction(ctx, func(tx store.Transaction) error {
		t, err := tx.GetTask(ctx, taskID)
		if err != nil {
			return err
		}
		if err := Exists()(taskID, t); err != nil {
			return err
		}

		tag, err := tx.FindTagByName(ctx, name)
		if err != nil {
			return err
		}
		if tag == nil {
			tag = &model.Tag{Name: name}
			if err := tx.InsertTag(ctx, tag); err != nil {
				return err
			}
		}
		created, err := tx.LinkTag(ctx, taskID, tag.ID, model.NowUnix())
		if err != nil {
			return err
		}
		if !created {
			return nil // link already existed; nothing changed, no event
		}
		_, err = tx.AppendEvent(ctx, &model.TimeEvent{
			TaskID: taskID, EventType: model.EventTagAdd, Ts: model.NowUnix(),
			Payload: map[string]string{model.PayloadTag: name},
		})
		return err
	})
}

// RemoveTagFromTask implements remove_tag_from_task, pruning the tag row
// itself once no task references it anymore.
func (s *Service) RemoveTagFromTask(ctx context.Context, taskID, name string) error {
	name, err := cleanTag(name)
	if err != nil {
		return err
	}
	return s.store.RunInTransaction(ctx, func(tx store.Transaction) error {
		t, err := tx.GetTask(ctx, taskID)
		if err != nil {
			return err
		}
		if err := Exists()(taskID, t); err != nil {
			return err
		}

		tag, err := tx.FindTagByName(ctx, name)
		if err != nil {
			return err
		}
		if tag == nil {
			return nil // nothing to remove, idempotent
		}
		removed, err := tx.UnlinkTag(ctx, taskID, tag.ID)
		if err != nil {
			return err
		}
		if !removed {
			return nil // link didn't exist; nothing changed, no event
		}
		if err := tx.PruneUnreferencedTags(ctx); err != nil {
			return err
		}
		_, err = tx.AppendEvent(ctx, &model.TimeEvent{
			TaskID: taskID, EventType: model.EventTagRemove, Ts: model.NowUnix(),
			Payload: map[string]string{model.PayloadTag: name},
		})
		return err
	})
}

// RespondRestSuggestion implements respond_rest_suggestion.
func (s *Service) RespondRestSuggestion(ctx context.Context, id int64, accept bool) error {
	if id <= 0 {
		return model.InvalidInput("suggestion id must be positive")
	}
	now := model.NowUnix()
	return s.store.RunInTransaction(ctx, func(tx store.Transaction) error {
		sug, err := tx.GetSuggestion(ctx, id)
		if err != nil {
			return err
		}
		if sug == nil {
			return model.NotFound("rest suggestion %d not found", id)
		}
		if sug.Status != model.SuggestionPending {
			return nil // already responded to; idempotent
		}
		status := model.SuggestionIgnored
		if accept {
			status = model.SuggestionAccepted
		}
		return tx.UpdateSuggestionResponse(ctx, id, status, now)
	})
}
