// Package rpc defines the JSON request/response envelope an out-of-process
// host (a GUI wrapper, typically) uses to drive the engine: one operation
// per task-service call plus the overview query. No socket transport is
// implemented; this package is the wire contract only.
package rpc

import "encoding/json"

// Operation names, one per Task Service call plus the overview query.
const (
	OpCreateTask            = "create_task"
	OpRenameTask            = "rename_task"
	OpArchiveTask           = "archive_task"
	OpDeleteTasks           = "delete_tasks"
	OpReparentTask          = "reparent_task"
	OpStartTask             = "start_task"
	OpPauseTask             = "pause_task"
	OpResumeTask            = "resume_task"
	OpStopTask              = "stop_task"
	OpInsertSubtaskAndStart = "insert_subtask_and_start"
	OpAddTagToTask          = "add_tag_to_task"
	OpRemoveTagFromTask     = "remove_tag_from_task"
	OpRespondRestSuggestion = "respond_rest_suggestion"
	OpOverview              = "overview"
)

// Request is the envelope a client sends for any operation above.
type Request struct {
	Operation string          `json:"operation"`
	Args      json.RawMessage `json:"args"`
}

// Response is the envelope returned for any operation above: Error is set
// on failure, Data on a success that returns a value, and neither on a
// success without one.
type Response struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// CreateTaskArgs is the argument struct for OpCreateTask.
type CreateTaskArgs struct {
	Title    string  `json:"title"`
	ParentID *string `json:"parent_id,omitempty"`
}

// CreateTaskResult is the result of OpCreateTask.
type CreateTaskResult struct {
	ID string `json:"id"`
}

// RenameTaskArgs is the argument struct for OpRenameTask.
type RenameTaskArgs struct {
	TaskID string `json:"task_id"`
	Title  string `json:"title"`
}

// TaskIDArgs covers the single-id operations: archive_task, start_task,
// pause_task, resume_task, stop_task.
type TaskIDArgs struct {
	TaskID string `json:"task_id"`
}

// DeleteTasksArgs is the argument struct for OpDeleteTasks.
type DeleteTasksArgs struct {
	TaskIDs    []string `json:"task_ids"`
	HardDelete bool     `json:"hard_delete"`
}

// ReparentTaskArgs is the argument struct for OpReparentTask.
type ReparentTaskArgs struct {
	TaskID      string  `json:"task_id"`
	NewParentID *string `json:"new_parent_id,omitempty"`
}

// InsertSubtaskArgs is the argument struct for OpInsertSubtaskAndStart.
type InsertSubtaskArgs struct {
	ParentID string `json:"parent_id"`
	Title    string `json:"title"`
}

// InsertSubtaskResult is the result of OpInsertSubtaskAndStart.
type InsertSubtaskResult struct {
	ChildID string `json:"child_id"`
}

// TagArgs covers OpAddTagToTask and OpRemoveTagFromTask.
type TagArgs struct {
	TaskID string `json:"task_id"`
	Name   string `json:"name"`
}

// RespondRestSuggestionArgs is the argument struct for
// OpRespondRestSuggestion.
type RespondRestSuggestionArgs struct {
	ID     int64 `json:"id"`
	Accept bool  `json:"accept"`
}

// OverviewArgs is the argument struct for OpOverview.
type OverviewArgs struct {
	Range string `json:"range,omitempty"`
}
