package rpc

import (
	"context"
	"encoding/json"

	"github.com/untoldecay/timetrack/internal/aggregator"
	"github.com/untoldecay/timetrack/internal/model"
	"github.com/untoldecay/timetrack/internal/taskengine"
)

// Server dispatches Requests to a task Service and Aggregator in-process.
// There is no socket transport — an out-of-process host frames
// Request/Response over whatever channel it owns (pipe, HTTP body, IPC
// message) and calls Dispatch directly.
type Server struct {
	svc *taskengine.Service
	agg *aggregator.Aggregator
	now func() int64
}

func NewServer(svc *taskengine.Service, agg *aggregator.Aggregator) *Server {
	return &Server{svc: svc, agg: agg, now: model.NowUnix}
}

// Dispatch executes req and always returns a well-formed Response, never
// an error — failures are reported through Response.Error.
func (s *Server) Dispatch(ctx context.Context, req Request) Response {
	data, err := s.handle(ctx, req)
	if err != nil {
		return Response{Success: false, Error: err.Error()}
	}
	if data == nil {
		return Response{Success: true}
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return Response{Success: false, Error: err.Error()}
	}
	return Response{Success: true, Data: raw}
}

func (s *Server) handle(ctx context.Context, req Request) (interface{}, error) {
	switch req.Operation {
	case OpCreateTask:
		var args CreateTaskArgs
		if err := json.Unmarshal(req.Args, &args); err != nil {
			return nil, model.InvalidInput("decoding create_task args: %v", err)
		}
		id, err := s.svc.CreateTask(ctx, args.Title, args.ParentID)
		if err != nil {
			return nil, err
		}
		return CreateTaskResult{ID: id}, nil

	case OpRenameTask:
		var args RenameTaskArgs
		if err := json.Unmarshal(req.Args, &args); err != nil {
			return nil, model.InvalidInput("decoding rename_task args: %v", err)
		}
		return nil, s.svc.RenameTask(ctx, args.TaskID, args.Title)

	case OpArchiveTask:
		var args TaskIDArgs
		if err := json.Unmarshal(req.Args, &args); err != nil {
			return nil, model.InvalidInput("decoding archive_task args: %v", err)
		}
		return nil, s.svc.ArchiveTask(ctx, args.TaskID)

	case OpDeleteTasks:
		var args DeleteTasksArgs
		if err := json.Unmarshal(req.Args, &args); err != nil {
			return nil, model.InvalidInput("decoding delete_tasks args: %v", err)
		}
		return nil, s.svc.DeleteTasks(ctx, args.TaskIDs, args.HardDelete)

	case OpReparentTask:
		var args ReparentTaskArgs
		if err := json.Unmarshal(req.Args, &args); err != nil {
			return nil, model.InvalidInput("decoding reparent_task args: %v", err)
		}
		return nil, s.svc.ReparentTask(ctx, args.TaskID, args.NewParentID)

	case OpStartTask:
		var args TaskIDArgs
		if err := json.Unmarshal(req.Args, &args); err != nil {
			return nil, model.InvalidInput("decoding start_task args: %v", err)
		}
		return nil, s.svc.StartTask(ctx, args.TaskID)

	case OpPauseTask:
		var args TaskIDArgs
		if err := json.Unmarshal(req.Args, &args); err != nil {
			return nil, model.InvalidInput("decoding pause_task args: %v", err)
		}
		return nil, s.svc.PauseTask(ctx, args.TaskID)

	case OpResumeTask:
		var args TaskIDArgs
		if err := json.Unmarshal(req.Args, &args); err != nil {
			return nil, model.InvalidInput("decoding resume_task args: %v", err)
		}
		return nil, s.svc.ResumeTask(ctx, args.TaskID)

	case OpStopTask:
		var args TaskIDArgs
		if err := json.Unmarshal(req.Args, &args); err != nil {
			return nil, model.InvalidInput("decoding stop_task args: %v", err)
		}
		return nil, s.svc.StopTask(ctx, args.TaskID)

	case OpInsertSubtaskAndStart:
		var args InsertSubtaskArgs
		if err := json.Unmarshal(req.Args, &args); err != nil {
			return nil, model.InvalidInput("decoding insert_subtask_and_start args: %v", err)
		}
		childID, err := s.svc.InsertSubtaskAndStart(ctx, args.ParentID, args.Title)
		if err != nil {
			return nil, err
		}
		return InsertSubtaskResult{ChildID: childID}, nil

	case OpAddTagToTask:
		var args TagArgs
		if err := json.Unmarshal(req.Args, &args); err != nil {
			return nil, model.InvalidInput("decoding add_tag_to_task args: %v", err)
		}
		return nil, s.svc.AddTagToTask(ctx, args.TaskID, args.Name)

	case OpRemoveTagFromTask:
		var args TagArgs
		if err := json.Unmarshal(req.Args, &args); err != nil {
			return nil, model.InvalidInput("decoding remove_tag_from_task args: %v", err)
		}
		return nil, s.svc.RemoveTagFromTask(ctx, args.TaskID, args.Name)

	case OpRespondRestSuggestion:
		var args RespondRestSuggestionArgs
		if err := json.Unmarshal(req.Args, &args); err != nil {
			return nil, model.InvalidInput("decoding respond_rest_suggestion args: %v", err)
		}
		return nil, s.svc.RespondRestSuggestion(ctx, args.ID, args.Accept)

	case OpOverview:
		var args OverviewArgs
		if len(req.Args) > 0 {
			if err := json.Unmarshal(req.Args, &args); err != nil {
				return nil, model.InvalidInput("decoding overview args: %v", err)
			}
		}
		return s.agg.Overview(ctx, args.Range, s.now(), nil)

	default:
		return nil, model.InvalidInput("unknown operation %q", req.Operation)
	}
}
