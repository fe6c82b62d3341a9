// Package taskengine implements the hierarchical task state machine and
// its lifecycle operations: one exported Service type wrapping a
// store.Storage, every mutating call running inside a single
// RunInTransaction, with post-commit side effects returned as explicit
// booleans rather than hidden in a callback.
package taskengine

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/untoldecay/timetrack/internal/model"
	"github.com/untoldecay/timetrack/internal/store"
)

// RestAdvisor is the subset of the rest advisor's public surface the task
// engine needs. Declaring it here (rather than importing
// internal/restadvisor) keeps the dependency pointing one way: the
// advisor consumes the event log the task engine writes, it is not part
// of the task engine's own package graph.
type RestAdvisor interface {
	Fire(ctx context.Context, trigger model.TriggerType, sourceTaskID *string, triggerTs int64) error
}

// Service exposes the public task operations: CRUD, lifecycle
// transitions, tagging, and rest-suggestion responses.
type Service struct {
	store   store.Storage
	advisor RestAdvisor
}

// New builds a Service. advisor may be nil, in which case post-commit
// rest-advisor invocations are skipped — useful for tests that only
// exercise the state machine.
func New(s store.Storage, advisor RestAdvisor) *Service {
	return &Service{store: s, advisor: advisor}
}

func (s *Service) fireAdvisor(ctx context.Context, trigger model.TriggerType, sourceTaskID *string, triggerTs int64) {
	if s.advisor == nil {
		return
	}
	// Post-commit side effects run as an independent transaction; an
	// advisor failure is reported but never unwinds the prior committed
	// mutation.
	if err := s.advisor.Fire(ctx, trigger, sourceTaskID, triggerTs); err != nil {
		fmt.Fprintf(os.Stderr, "rest advisor: %v\n", err)
	}
}

// CreateTask implements create_task.
func (s *Service) CreateTask(ctx context.Context, title string, parentID *string) (string, error) {
	title, err := cleanTitle(title)
	if err != nil {
		return "", err
	}

	var id string
	err = s.store.RunInTransaction(ctx, func(tx store.Transaction) error {
		if parentID != nil {
			parent, err := tx.GetTask(ctx, *parentID)
			if err != nil {
				return err
			}
			if parent == nil {
				return model.NotFound("parent task %s not found", *parentID)
			}
		}
		now := model.NowUnix()
		t := &model.Task{ParentID: parentID, Title: title, Status: model.StatusIdle, CreatedAt: now}
		if err := tx.InsertTask(ctx, t); err != nil {
			return err
		}
		id = t.ID
		return nil
	})
	return id, err
}

// RenameTask implements rename_task.
func (s *Service) RenameTask(ctx context.Context, taskID, title string) error {
	title, err := cleanTitle(title)
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
		return tx.UpdateTaskTitle(ctx, taskID, title)
	})
}

// ArchiveTask is shorthand for DeleteTasks([taskID], hardDelete=false).
func (s *Service) ArchiveTask(ctx context.Context, taskID string) error {
	return s.DeleteTasks(ctx, []string{taskID}, false)
}

func dedupeTrimmed(ids []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// DeleteTasks implements delete_tasks.
func (s *Service) DeleteTasks(ctx context.Context, taskIDs []string, hardDelete bool) error {
	taskIDs = dedupeTrimmed(taskIDs)
	if len(taskIDs) == 0 {
		return model.InvalidInput("task id list must not be empty")
	}

	return s.store.RunInTransaction(ctx, func(tx store.Transaction) error {
		seen := make(map[string]bool)
		var expanded []string
		for _, rootID := range taskIDs {
			root, err := tx.GetTask(ctx, rootID)
			if err != nil {
				return err
			}
			if root == nil {
				return model.NotFound("task %s not found", rootID)
			}
			ids, err := subtree(ctx, tx, rootID)
			if err != nil {
				return err
			}
			for _, id := range ids {
				if seen[id] {
					continue
				}
				seen[id] = true
				expanded = append(expanded, id)
			}
		}

		if blocker, err := tx.RunningOrPausedTask(ctx, expanded); err != nil {
			return err
		} else if blocker != nil {
			return model.Conflict("task %s is %s and cannot be deleted", blocker.ID, blocker.Status)
		}

		now := model.NowUnix()
		if !hardDelete {
			return tx.ArchiveTasks(ctx, expanded, now)
		}

		if err := tx.DeleteSuggestionsForTasks(ctx, expanded); err != nil {
			return err
		}
		if err := tx.DeleteEventsForTasks(ctx, expanded); err != nil {
			return err
		}
		if err := tx.DeleteTaskTagsForTasks(ctx, expanded); err != nil {
			return err
		}
		// Children before parents.
		if err := tx.DeleteTasks(ctx, reversed(expanded)); err != nil {
			return err
		}
		return tx.PruneUnreferencedTags(ctx)
	})
}

// ReparentTask implements reparent_task.
func (s *Service) ReparentTask(ctx context.Context, taskID string, newParentID *string) error {
	if newParentID != nil && *newParentID == taskID {
		return model.InvalidInput("a task cannot be its own parent")
	}

	return s.store.RunInTransaction(ctx, func(tx store.Transaction) error {
		t, err := tx.GetTask(ctx, taskID)
		if err != nil {
			return err
		}
		if err := Exists()(taskID, t); err != nil {
			return err
		}

		sameParent := (t.ParentID == nil && newParentID == nil) ||
			(t.ParentID != nil && newParentID != nil && *t.ParentID == *newParentID)
		if sameParent {
			return nil
		}

		ids, err := subtree(ctx, tx, taskID)
		if err != nil {
			return err
		}
		if blocker, err := tx.RunningOrPausedTask(ctx, ids); err != nil {
			return err
		} else if blocker != nil {
			return model.Conflict("task %s is %s and blocks reparenting", blocker.ID, blocker.Status)
		}

		if newParentID != nil {
			newParent, err := tx.GetTask(ctx, *newParentID)
			if err != nil {
				return err
			}
			if newParent == nil {
				return model.NotFound("parent task %s not found", *newParentID)
			}
			inSubtree := false
			for _, id := range ids {
				if id == *newParentID {
					inSubtree = true
					break
				}
			}
			if inSubtree {
				return model.Conflict("cannot reparent %s under its own descendant %s", taskID, *newParentID)
			}
			ancestors, err := ancestorChain(ctx, tx.GetTask, *newParentID)
			if err != nil {
				return err
			}
			for _, id := range ancestors {
				if id == taskID {
					return model.Conflict("reparenting %s under %s would create a cycle", taskID, *newParentID)
				}
			}
		}

		oldParentID := t.ParentID
		if err := tx.UpdateTaskParent(ctx, taskID, newParentID); err != nil {
			return err
		}
		payload := map[string]string{}
		if oldParentID != nil {
			payload[model.PayloadOldParentID] = *oldParentID
		}
		if newParentID != nil {
			payload[model.PayloadNewParentID] = *newParentID
		}
		_, err = tx.AppendEvent(ctx, &model.TimeEvent{
			TaskID: taskID, EventType: model.EventReparent, Ts: model.NowUnix(), Payload: payload,
		})
		return err
	})
}
