package services

import (
	"context"
	"fmt"
	"log"

	model "github.com/jiawen-jasmine-chen/todosync/internal/models"
	"github.com/jiawen-jasmine-chen/todosync/internal/normalize"
	"github.com/jiawen-jasmine-chen/todosync/internal/transport"
)

type TaskService struct {
	client *transport.Client
}

func NewTaskService(client *transport.Client) *TaskService {
	return &TaskService{client: client}
}

// NewTask is the create-task input. Progress defaults to Uncompleted
// when left empty.
type NewTask struct {
	Description string
	Assignee    int64
	DueDate     string
	TodoListID  int64
	OwnerID     int64
	Progress    model.Progress
}

// TaskPatch is a partial update; nil fields are left untouched by the
// server. Completed is derived and deliberately absent.
type TaskPatch struct {
	Description *string         `json:"description,omitempty"`
	Progress    *model.Progress `json:"progress,omitempty"`
	Assignee    *int64          `json:"assignee,omitempty"`
	DueDate     *string         `json:"due_date,omitempty"`
}

// FetchTasks degrades to an empty slice on network or parse failure so
// the caller can always render an empty state.
func (s *TaskService) FetchTasks(ctx context.Context, todoListID int64) []model.Task {
	var resp struct {
		Tasks []any `json:"tasks"`
	}
	if err := s.client.Get(ctx, fmt.Sprintf("/tasks/%d", todoListID), &resp); err != nil {
		log.Printf("fetch tasks for list %d: %v", todoListID, err)
		return []model.Task{}
	}

	tasks, err := normalize.Tasks(resp.Tasks)
	if err != nil {
		log.Printf("fetch tasks for list %d: %v", todoListID, err)
		return []model.Task{}
	}
	return tasks
}

// AddTask returns nil on failure. The classified cause, including any
// response body the server sent, is logged for diagnostics.
func (s *TaskService) AddTask(ctx context.Context, input NewTask) *model.Task {
	if input.Progress == "" {
		input.Progress = model.ProgressUncompleted
	}

	body := map[string]any{
		"description": input.Description,
		"assignee":    input.Assignee,
		"due_date":    input.DueDate,
		"todolist_id": input.TodoListID,
		"owner_id":    input.OwnerID,
		"progress":    string(input.Progress),
	}

	var resp struct {
		Task map[string]any `json:"task"`
	}
	if err := s.client.Post(ctx, "/tasks", nil, body, &resp); err != nil {
		log.Printf("add task to list %d: %v", input.TodoListID, err)
		return nil
	}

	task, err := normalize.Task(resp.Task)
	if err != nil {
		log.Printf("add task to list %d: %v", input.TodoListID, err)
		return nil
	}
	return &task
}

func (s *TaskService) UpdateTask(ctx context.Context, taskID int64, patch TaskPatch) *model.Task {
	var resp struct {
		Task map[string]any `json:"task"`
	}
	if err := s.client.Put(ctx, fmt.Sprintf("/tasks/%d", taskID), patch, &resp); err != nil {
		log.Printf("update task %d: %v", taskID, err)
		return nil
	}

	task, err := normalize.Task(resp.Task)
	if err != nil {
		log.Printf("update task %d: %v", taskID, err)
		return nil
	}
	return &task
}

func (s *TaskService) DeleteTask(ctx context.Context, taskID int64) bool {
	if err := s.client.Delete(ctx, fmt.Sprintf("/tasks/%d", taskID)); err != nil {
		log.Printf("delete task %d: %v", taskID, err)
		return false
	}
	return true
}
