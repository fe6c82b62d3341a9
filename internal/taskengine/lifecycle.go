package taskengine

import (
	"context"

	"github.com/untoldecay/timetrack/internal/model"
	"github.com/untoldecay/timetrack/internal/store"
)

// StartTask implements start_task.
func (s *Service) StartTask(ctx context.Context, taskID string) error {
	var prevFocus *string
	var fired bool
	now := model.NowUnix()

	err := s.store.RunInTransaction(ctx, func(tx store.Transaction) error {
		prev, err := tx.LatestFocusEvent(ctx)
		if err != nil {
			return err
		}
		if prev != nil {
			prevFocus = &prev.TaskID
		}

		t, err := tx.GetTask(ctx, taskID)
		if err != nil {
			return err
		}
		if err := Exists()(taskID, t); err != nil {
			return err
		}

		switch t.Status {
		case model.StatusRunning:
			return nil // no-op
		case model.StatusPaused:
			return model.InvalidState("task %s is paused; use resume instead", taskID)
		}

		if other, err := tx.RunningTask(ctx); err != nil {
			return err
		} else if other != nil && other.ID != taskID {
			return model.Conflict("task %s is already running", other.ID)
		}

		if err := tx.UpdateTaskStatus(ctx, taskID, model.StatusRunning); err != nil {
			return err
		}
		if _, err := tx.AppendEvent(ctx, &model.TimeEvent{
			TaskID: taskID, EventType: model.EventStart, Ts: now,
		}); err != nil {
			return err
		}
		fired = prevFocus != nil && *prevFocus != taskID
		return nil
	})
	if err != nil {
		return err
	}
	if fired {
		s.fireAdvisor(ctx, model.TriggerTaskSwitch, prevFocus, now)
	}
	return nil
}

// ResumeTask implements resume_task, symmetric to StartTask for a paused task.
func (s *Service) ResumeTask(ctx context.Context, taskID string) error {
	var prevFocus *string
	var fired bool
	now := model.NowUnix()

	err := s.store.RunInTransaction(ctx, func(tx store.Transaction) error {
		prev, err := tx.LatestFocusEvent(ctx)
		if err != nil {
			return err
		}
		if prev != nil {
			prevFocus = &prev.TaskID
		}

		t, err := tx.GetTask(ctx, taskID)
		if err != nil {
			return err
		}
		if err := Exists()(taskID, t); err != nil {
			return err
		}

		if t.Status == model.StatusRunning {
			return nil // no-op
		}
		if t.Status != model.StatusPaused {
			return model.InvalidState("task %s is %s; cannot resume", taskID, t.Status)
		}

		if other, err := tx.RunningTask(ctx); err != nil {
			return err
		} else if other != nil && other.ID != taskID {
			return model.Conflict("task %s is already running", other.ID)
		}

		if err := tx.UpdateTaskStatus(ctx, taskID, model.StatusRunning); err != nil {
			return err
		}
		if _, err := tx.AppendEvent(ctx, &model.TimeEvent{
			TaskID: taskID, EventType: model.EventResume, Ts: now,
		}); err != nil {
			return err
		}
		fired = prevFocus != nil && *prevFocus != taskID
		return nil
	})
	if err != nil {
		return err
	}
	if fired {
		s.fireAdvisor(ctx, model.TriggerTaskSwitch, prevFocus, now)
	}
	return nil
}

// PauseTask implements pause_task.
func (s *Service) PauseTask(ctx context.Context, taskID string) error {
	now := model.NowUnix()
	return s.store.RunInTransaction(ctx, func(tx store.Transaction) error {
		t, err := tx.GetTask(ctx, taskID)
		if err != nil {
			return err
		}
		if err := Exists()(taskID, t); err != nil {
			return err
		}
		if t.Status == model.StatusPaused {
			return nil // no-op
		}
		if t.Status != model.StatusRunning {
			return model.InvalidState("task %s is %s; cannot pause", taskID, t.Status)
		}
		if err := tx.UpdateTaskStatus(ctx, taskID, model.StatusPaused); err != nil {
			return err
		}
		_, err = tx.AppendEvent(ctx, &model.TimeEvent{
			TaskID: taskID, EventType: model.EventPause, Ts: now,
		})
		return err
	})
}

// StopTask implements stop_task, including the parent auto-resume check.
func (s *Service) StopTask(ctx context.Context, taskID string) error {
	var autoResumed bool
	now := model.NowUnix()

	err := s.store.RunInTransaction(ctx, func(tx store.Transaction) error {
		t, err := tx.GetTask(ctx, taskID)
		if err != nil {
			return err
		}
		if err := Exists()(taskID, t); err != nil {
			return err
		}
		if t.Status == model.StatusStopped {
			return nil // no-op
		}
		if t.Status == model.StatusIdle {
			return model.InvalidState("task %s was never started", taskID)
		}

		if err := tx.UpdateTaskStatus(ctx, taskID, model.StatusStopped); err != nil {
			return err
		}
		if _, err := tx.AppendEvent(ctx, &model.TimeEvent{
			TaskID: taskID, EventType: model.EventStop, Ts: now,
		}); err != nil {
			return err
		}

		if t.ParentID == nil {
			return nil
		}
		resumed, err := maybeAutoResumeParent(ctx, tx, *t.ParentID, taskID, now)
		if err != nil {
			return err
		}
		autoResumed = resumed
		return nil
	})
	if err != nil {
		return err
	}
	if autoResumed {
		sourceID := taskID
		s.fireAdvisor(ctx, model.TriggerSubtaskEnd, &sourceID, now)
	}
	return nil
}

// maybeAutoResumeParent implements the auto-resume rule: a parent that
// was paused specifically to make room for childID resumes automatically
// once childID stops, provided no other task is now running.
func maybeAutoResumeParent(ctx context.Context, tx store.Transaction, parentID, childID string, now int64) (bool, error) {
	parent, err := tx.GetTask(ctx, parentID)
	if err != nil || parent == nil || parent.Status != model.StatusPaused {
		return false, err
	}

	latest, err := tx.LatestEvent(ctx, parentID)
	if err != nil {
		return false, err
	}
	if latest == nil || latest.EventType != model.EventPause {
		return false, nil
	}
	// A parent paused manually (no matching child_id) never auto-resumes.
	if latest.Payload[model.PayloadChildID] != childID {
		return false, nil
	}

	if other, err := tx.RunningTask(ctx); err != nil {
		return false, err
	} else if other != nil {
		return false, nil
	}

	if err := tx.UpdateTaskStatus(ctx, parentID, model.StatusRunning); err != nil {
		return false, err
	}
	_, err = tx.AppendEvent(ctx, &model.TimeEvent{
		TaskID: parentID, EventType: model.EventResume, Ts: now,
		Payload: map[string]string{model.PayloadReason: model.ReasonChildStopped, model.PayloadChildID: childID},
	})
	return err == nil, err
}

// InsertSubtaskAndStart implements insert_subtask_and_start.
func (s *Service) InsertSubtaskAndStart(ctx context.Context, parentID, title string) (string, error) {
	title, err := cleanTitle(title)
	if err != nil {
		return "", err
	}

	var childID string
	now := model.NowUnix()
	err = s.store.RunInTransaction(ctx, func(tx store.Transaction) error {
		parent, err := tx.GetTask(ctx, parentID)
		if err != nil {
			return err
		}
		if err := Exists()(parentID, parent); err != nil {
			return err
		}
		if parent.Status != model.StatusRunning {
			return model.InvalidState("task %s is not running", parentID)
		}
		if running, err := tx.RunningTask(ctx); err != nil {
			return err
		} else if running == nil || running.ID != parentID {
			return model.Conflict("task %s is not the uniquely running task", parentID)
		}

		if err := tx.UpdateTaskStatus(ctx, parentID, model.StatusPaused); err != nil {
			return err
		}
		child := &model.Task{ParentID: &parentID, Title: title, Status: model.StatusRunning, CreatedAt: now}
		if err := tx.InsertTask(ctx, child); err != nil {
			return err
		}
		childID = child.ID

		if _, err := tx.AppendEvent(ctx, &model.TimeEvent{
			TaskID: parentID, EventType: model.EventPause, Ts: now,
			Payload: map[string]string{model.PayloadReason: model.ReasonInsertSubtask, model.PayloadChildID: childID},
		}); err != nil {
			return err
		}
		_, err = tx.AppendEvent(ctx, &model.TimeEvent{
			TaskID: childID, EventType: model.EventStart, Ts: now,
			Payload: map[string]string{model.PayloadReason: model.ReasonInsertSubtask, model.PayloadParentID: parentID},
		})
		return err
	})
	if err != nil {
		return "", err
	}
	sourceID := parentID
	s.fireAdvisor(ctx, model.TriggerTaskSwitch, &sourceID, now)
	return childID, nil
}
