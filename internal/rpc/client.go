package rpc

import (
	"context"
	"encoding/json"
	"fmt"
)

// Client wraps a Server with typed helpers, round-tripping every call
// through the JSON envelope so the contract stays exercised even when the
// host is embedding this package in-process (no socket involved).
type Client struct {
	server *Server
}

func NewClient(server *Server) *Client {
	return &Client{server: server}
}

func (c *Client) call(ctx context.Context, op string, args interface{}, out interface{}) error {
	raw, err := json.Marshal(args)
	if err != nil {
		return err
	}
	resp := c.server.Dispatch(ctx, Request{Operation: op, Args: raw})
	if !resp.Success {
		return fmt.Errorf("%s: %s", op, resp.Error)
	}
	if out == nil || len(resp.Data) == 0 {
		return nil
	}
	return json.Unmarshal(resp.Data, out)
}

func (c *Client) CreateTask(ctx context.Context, title string, parentID *string) (string, error) {
	var result CreateTaskResult
	err := c.call(ctx, OpCreateTask, CreateTaskArgs{Title: title, ParentID: parentID}, &result)
	return result.ID, err
}

func (c *Client) RenameTask(ctx context.Context, taskID, title string) error {
	return c.call(ctx, OpRenameTask, RenameTaskArgs{TaskID: taskID, Title: title}, nil)
}

func (c *Client) ArchiveTask(ctx context.Context, taskID string) error {
	return c.call(ctx, OpArchiveTask, TaskIDArgs{TaskID: taskID}, nil)
}

func (c *Client) DeleteTasks(ctx context.Context, taskIDs []string, hardDelete bool) error {
	return c.call(ctx, OpDeleteTasks, DeleteTasksArgs{TaskIDs: taskIDs, HardDelete: hardDelete}, nil)
}

func (c *Client) ReparentTask(ctx context.Context, taskID string, newParentID *string) error {
	return c.call(ctx, OpReparentTask, ReparentTaskArgs{TaskID: taskID, NewParentID: newParentID}, nil)
}

func (c *Client) StartTask(ctx context.Context, taskID string) error {
	return c.call(ctx, OpStartTask, TaskIDArgs{TaskID: taskID}, nil)
}

func (c *Client) PauseTask(ctx context.Context, taskID string) error {
	return c.call(ctx, OpPauseTask, TaskIDArgs{TaskID: taskID}, nil)
}

func (c *Client) ResumeTask(ctx context.Context, taskID string) error {
	return c.call(ctx, OpResumeTask, TaskIDArgs{TaskID: taskID}, nil)
}

func (c *Client) StopTask(ctx context.Context, taskID string) error {
	return c.call(ctx, OpStopTask, TaskIDArgs{TaskID: taskID}, nil)
}

func (c *Client) InsertSubtaskAndStart(ctx context.Context, parentID, title string) (string, error) {
	var result InsertSubtaskResult
	err := c.call(ctx, OpInsertSubtaskAndStart, InsertSubtaskArgs{ParentID: parentID, Title: title}, &result)
	return result.ChildID, err
}

func (c *Client) AddTagToTask(ctx context.Context, taskID, name string) error {
	return c.call(ctx, OpAddTagToTask, TagArgs{TaskID: taskID, Name: name}, nil)
}

func (c *Client) RemoveTagFromTask(ctx context.Context, taskID, name string) error {
	return c.call(ctx, OpRemoveTagFromTask, TagArgs{TaskID: taskID, Name: name}, nil)
}

func (c *Client) RespondRestSuggestion(ctx context.Context, id int64, accept bool) error {
	return c.call(ctx, OpRespondRestSuggestion, RespondRestSuggestionArgs{ID: id, Accept: accept}, nil)
}
