// Package model holds the domain types shared by the store, task engine,
// aggregator and rest advisor. It has no dependencies on any of them.
package model

import "time"

// Status is a task's position in its lifecycle.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusRunning Status = "running"
	StatusPaused  Status = "paused"
	StatusStopped Status = "stopped"
)

// EventType enumerates the kinds of entries appended to the time-event log.
type EventType string

const (
	EventStart     EventType = "start"
	EventPause     EventType = "pause"
	EventResume    EventType = "resume"
	EventStop      EventType = "stop"
	EventReparent  EventType = "reparent"
	EventTagAdd    EventType = "tag_add"
	EventTagRemove EventType = "tag_remove"
)

// TriggerType identifies what caused a rest suggestion to be generated.
type TriggerType string

const (
	TriggerSubtaskEnd TriggerType = "subtask_end"
	TriggerTaskSwitch TriggerType = "task_switch"
)

// SuggestionStatus is the response lifecycle of a rest suggestion.
type SuggestionStatus string

const (
	SuggestionPending  SuggestionStatus = "pending"
	SuggestionAccepted SuggestionStatus = "accepted"
	SuggestionIgnored  SuggestionStatus = "ignored"
)

// Task is one node in the hierarchical forest of tracked work.
type Task struct {
	ID         string  `json:"id"`
	ParentID   *string `json:"parent_id,omitempty"`
	Title      string  `json:"title"`
	Status     Status  `json:"status"`
	CreatedAt  int64   `json:"created_at"`
	ArchivedAt *int64  `json:"archived_at,omitempty"`
}

// Tag is a shared, case-insensitively-unique label.
type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TimeEvent is one immutable entry in the append-only lifecycle log.
type TimeEvent struct {
	ID        int64             `json:"id"`
	TaskID    string            `json:"task_id"`
	EventType EventType         `json:"event_type"`
	Ts        int64             `json:"ts"`
	Payload   map[string]string `json:"payload,omitempty"`
}

// Recognized payload keys. Anything else found in a stored payload is
// preserved but ignored on read.
const (
	PayloadReason      = "reason"
	PayloadChildID     = "child_id"
	PayloadParentID    = "parent_id"
	PayloadTag         = "tag"
	PayloadOldParentID = "old_parent_id"
	PayloadNewParentID = "new_parent_id"
)

// Known reason values stamped into a payload's "reason" key.
const (
	ReasonChildStopped  = "child_stopped"
	ReasonInsertSubtask = "insert_subtask"
)

// RestSuggestion is a single scored advisory row.
type RestSuggestion struct {
	ID               int64            `json:"id"`
	TriggerType      TriggerType      `json:"trigger_type"`
	TaskID           *string          `json:"task_id,omitempty"`
	FocusSeconds     int64            `json:"focus_seconds"`
	SwitchCount30m   int              `json:"switch_count_30m"`
	DeviationRatio   float64          `json:"deviation_ratio"`
	SuggestedMinutes int              `json:"suggested_minutes"`
	Reasons          []string         `json:"reasons"`
	Status           SuggestionStatus `json:"status"`
	CreatedAt        int64            `json:"created_at"`
	RespondedAt      *int64           `json:"responded_at,omitempty"`
}

// TaskRecord is one row of an overview response.
type TaskRecord struct {
	ID               string   `json:"id"`
	ParentID         *string  `json:"parent_id,omitempty"`
	Title            string   `json:"title"`
	Status           Status   `json:"status"`
	CreatedAt        int64    `json:"created_at"`
	Tags             []string `json:"tags"`
	InclusiveSeconds int64    `json:"inclusive_seconds"`
	ExclusiveSeconds int64    `json:"exclusive_seconds"`
}

// Overview is the full response of the aggregator's window query.
type Overview struct {
	Range          string          `json:"range"`
	GeneratedAt    int64           `json:"generated_at"`
	ActiveTaskID   *string         `json:"active_task_id,omitempty"`
	RestSuggestion *RestSuggestion `json:"rest_suggestion,omitempty"`
	Tasks          []TaskRecord    `json:"tasks"`
}

// Now is overridable in tests; production code always calls time.Now().
var Now = func() time.Time { return time.Now() }

// NowUnix returns the current time as seconds since epoch.
func NowUnix() int64 { return Now().Unix() }
