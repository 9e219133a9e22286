// Package normalize is the single boundary between raw server payloads
// and the canonical local entity model. Server responses have drifted
// across backend versions (shared vs share, TaskID vs id, numeric vs
// string ids); nothing outside this package may depend on a raw shape.
//
// All functions are pure and idempotent: feeding an already-normalized
// entity back through yields the same entity.
package normalize

import (
	errs "github.com/jiawen-jasmine-chen/todosync/internal/errors"
	model "github.com/jiawen-jasmine-chen/todosync/internal/models"
)

var taskIDKeys = []string{"id", "task_id", "TaskID"}

// Task converts a raw task payload to the canonical shape. The id and a
// non-empty description are required; absent references default to the
// unassigned sentinel; Completed is always recomputed from Progress.
func Task(raw map[string]any) (model.Task, error) {
	id, ok := ID(raw, taskIDKeys...)
	if !ok {
		return model.Task{}, errs.ErrNormalization.WithMessage("task payload missing id")
	}

	description, ok := Str(raw, "description", "Description")
	if !ok || description == "" {
		return model.Task{}, errs.ErrNormalization.WithMessage("task payload missing description")
	}

	progress := model.ProgressNotStarted
	if p, ok := Str(raw, "progress", "Progress"); ok && p != "" {
		progress = model.Progress(p)
		if !progress.Valid() {
			return model.Task{}, errs.ErrNormalization.WithMessage("unknown progress value: " + p)
		}
	}

	task := model.Task{
		ID:          id,
		Description: description,
		Progress:    progress,
		Assignee:    model.Unassigned,
		OwnerID:     model.Unassigned,
		TodoListID:  model.Unassigned,
		Completed:   progress.IsCompleted(),
	}

	if v, ok := ID(raw, "assignee", "assignee_id", "Assignee"); ok {
		task.Assignee = v
	}
	if v, ok := ID(raw, "owner_id", "OwnerID", "owner"); ok {
		task.OwnerID = v
	}
	if v, ok := ID(raw, "todolist_id", "todo_list_id", "TodoListID"); ok {
		task.TodoListID = v
	}
	if v, ok := Str(raw, "due_date", "DueDate"); ok {
		task.DueDate = v
	}
	if v, ok := Str(raw, "created_at", "CreatedAt"); ok {
		task.CreatedAt = v
	}

	return task, nil
}

// Tasks normalizes a raw task array. The first malformed element fails
// the whole batch; read paths log and degrade on that error.
func Tasks(raw []any) ([]model.Task, error) {
	tasks := make([]model.Task, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, errs.ErrNormalization.WithMessage("task array element is not an object")
		}
		task, err := Task(m)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// TodoList converts a raw list payload. Only the id is required: the
// create-list response carries just {todolist_id, inviteCode?}, so
// callers merge in the fields they authored.
func TodoList(raw map[string]any) (model.TodoList, error) {
	id, ok := ID(raw, "id", "todolist_id", "list_id", "TodoListID")
	if !ok {
		return model.TodoList{}, errs.ErrNormalization.WithMessage("todolist payload missing id")
	}

	list := model.TodoList{ID: id, OwnerID: model.Unassigned}

	if v, ok := Str(raw, "name", "Name"); ok {
		list.Name = v
	}
	if v, ok := Flag(raw, "shared", "share", "Shared"); ok {
		list.Shared = v
	}
	if v, ok := ID(raw, "owner_id", "user_id", "OwnerID"); ok {
		list.OwnerID = v
	}
	if v, ok := Str(raw, "inviteCode", "invite_code", "InviteCode"); ok {
		list.InviteCode = v
	}

	return list, nil
}

func TodoLists(raw []any) ([]model.TodoList, error) {
	lists := make([]model.TodoList, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, errs.ErrNormalization.WithMessage("todolist array element is not an object")
		}
		list, err := TodoList(m)
		if err != nil {
			return nil, err
		}
		lists = append(lists, list)
	}
	return lists, nil
}

func User(raw map[string]any) (model.User, error) {
	id, ok := ID(raw, "id", "user_id", "UserID")
	if !ok {
		return model.User{}, errs.ErrNormalization.WithMessage("user payload missing id")
	}
	username, _ := Str(raw, "username", "Username")
	return model.User{ID: id, Username: username}, nil
}

func Users(raw []any) ([]model.User, error) {
	users := make([]model.User, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, errs.ErrNormalization.WithMessage("user array element is not an object")
		}
		user, err := User(m)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func ListMember(raw map[string]any) (model.ListMember, error) {
	id, ok := ID(raw, "id", "user_id", "UserID")
	if !ok {
		return model.ListMember{}, errs.ErrNormalization.WithMessage("member payload missing id")
	}
	username, _ := Str(raw, "username", "Username")
	role, _ := Str(raw, "role", "Role")
	return model.ListMember{ID: id, Username: username, Role: role}, nil
}

func ListMembers(raw []any) ([]model.ListMember, error) {
	members := make([]model.ListMember, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, errs.ErrNormalization.WithMessage("member array element is not an object")
		}
		member, err := ListMember(m)
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return members, nil
}
