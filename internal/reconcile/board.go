// Package reconcile keeps a screen's in-memory lists and tasks in
// agreement with server state. Each mutation uses one of two
// strategies: a full refetch when the server may change fields the
// client did not author, or a local patch when the outcome is fully
// client-determined (completion toggles, list-creation appends).
package reconcile

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	errs "github.com/jiawen-jasmine-chen/todosync/internal/errors"
	model "github.com/jiawen-jasmine-chen/todosync/internal/models"
	"github.com/jiawen-jasmine-chen/todosync/internal/services"
)

const maxDescriptionLength = 50

// ListAPI and TaskAPI are the slices of the remote services the board
// consumes; tests substitute slow or failing implementations.
type ListAPI interface {
	FetchTodoLists(ctx context.Context, userID int64) []model.TodoList
	CreateTodoList(ctx context.Context, ownerID int64, shared bool, name string) (*model.TodoList, error)
	JoinTodoList(ctx context.Context, userID int64, inviteCode string) (string, error)
	DeleteTodoList(ctx context.Context, listID int64) bool
	LeaveSharedList(ctx context.Context, listID, userID int64) bool
}

type TaskAPI interface {
	FetchTasks(ctx context.Context, todoListID int64) []model.Task
	AddTask(ctx context.Context, input services.NewTask) *model.Task
	UpdateTask(ctx context.Context, taskID int64, patch services.TaskPatch) *model.Task
	DeleteTask(ctx context.Context, taskID int64) bool
}

// Board owns one screen's view state: the user's lists, a selected
// list, expand/collapse flags, and tasks keyed by list id. All state
// is guarded by a single mutex; remote calls never hold it.
type Board struct {
	userID  int64
	listSvc ListAPI
	taskSvc TaskAPI

	mu       sync.Mutex
	lists    []model.TodoList
	selected int64
	expanded map[int64]bool
	tasks    map[int64][]model.Task
	taskGen  map[int64]uint64
	inflight map[string]struct{}
}

func NewBoard(userID int64, listSvc ListAPI, taskSvc TaskAPI) *Board {
	return &Board{
		userID:   userID,
		listSvc:  listSvc,
		taskSvc:  taskSvc,
		selected: model.Unassigned,
		expanded: make(map[int64]bool),
		tasks:    make(map[int64][]model.Task),
		taskGen:  make(map[int64]uint64),
		inflight: make(map[string]struct{}),
	}
}

// Refresh re-fetches the user's lists and the tasks of every list,
// replacing local state wholesale. The hosting UI invokes it on its
// screen-focus lifecycle event; it is never called from within the
// board's own control flow.
func (b *Board) Refresh(ctx context.Context) {
	lists := b.listSvc.FetchTodoLists(ctx, b.userID)

	b.mu.Lock()
	b.lists = lists
	if !b.hasListLocked(b.selected) {
		b.selected = model.Unassigned
		if len(lists) > 0 {
			b.selected = lists[0].ID
		}
	}
	known := make(map[int64]bool, len(lists))
	for _, list := range lists {
		known[list.ID] = true
	}
	for id := range b.tasks {
		if !known[id] {
			delete(b.tasks, id)
			delete(b.expanded, id)
		}
	}
	ids := make([]int64, 0, len(lists))
	for _, list := range lists {
		ids = append(ids, list.ID)
	}
	b.mu.Unlock()

	for _, id := range ids {
		b.ReloadTasks(ctx, id)
	}
}

// ReloadTasks replaces the task collection of one list with the
// server's. Each fetch is tagged with a per-list generation; if a
// newer fetch for the same list was issued while this one was in
// flight, the stale result is dropped.
func (b *Board) ReloadTasks(ctx context.Context, listID int64) {
	b.mu.Lock()
	b.taskGen[listID]++
	gen := b.taskGen[listID]
	b.mu.Unlock()

	tasks := b.taskSvc.FetchTasks(ctx, listID)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.taskGen[listID] != gen {
		return
	}
	b.tasks[listID] = tasks
}

func (b *Board) Lists() []model.TodoList {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]model.TodoList, len(b.lists))
	copy(out, b.lists)
	return out
}

func (b *Board) Tasks(listID int64) []model.Task {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]model.Task, len(b.tasks[listID]))
	copy(out, b.tasks[listID])
	return out
}

// SelectedList returns the id of the selected list, or
// model.Unassigned when no list has been fetched yet.
func (b *Board) SelectedList() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.selected
}

func (b *Board) Select(listID int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.hasListLocked(listID) {
		return false
	}
	b.selected = listID
	return true
}

func (b *Board) SetExpanded(listID int64, expanded bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.expanded[listID] = expanded
}

func (b *Board) IsExpanded(listID int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.expanded[listID]
}

// CreateList creates a list and appends it locally. The append is a
// safe local patch: the create response is authoritative for every
// field the server owns (id, invite code).
func (b *Board) CreateList(ctx context.Context, name string, shared bool) (*model.TodoList, error) {
	if !b.begin("create-list") {
		return nil, errs.ErrValidation.WithMessage("a list creation is already in progress")
	}
	defer b.end("create-list")

	list, err := b.listSvc.CreateTodoList(ctx, b.userID, shared, name)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.lists = append(b.lists, *list)
	b.tasks[list.ID] = []model.Task{}
	if b.selected == model.Unassigned {
		b.selected = list.ID
	}
	return list, nil
}

// Join consumes an invite code, then refetches everything: joining
// changes membership the client cannot compute locally.
func (b *Board) Join(ctx context.Context, inviteCode string) (string, error) {
	if !b.begin("join") {
		return "", errs.ErrValidation.WithMessage("a join is already in progress")
	}
	defer b.end("join")

	message, err := b.listSvc.JoinTodoList(ctx, b.userID, inviteCode)
	if err != nil {
		return "", err
	}

	b.Refresh(ctx)
	return message, nil
}

func (b *Board) DeleteList(ctx context.Context, listID int64) bool {
	if !b.listSvc.DeleteTodoList(ctx, listID) {
		return false
	}
	b.removeListLocally(listID)
	return true
}

func (b *Board) LeaveList(ctx context.Context, listID int64) bool {
	if !b.listSvc.LeaveSharedList(ctx, listID, b.userID) {
		return false
	}
	b.removeListLocally(listID)
	return true
}

// AddTask validates input, submits, then refetches the affected list:
// the server assigns the id and timestamps, so the echo is not
// appended locally.
func (b *Board) AddTask(ctx context.Context, listID int64, description, dueDate string) error {
	description = strings.TrimSpace(description)
	if description == "" {
		return errs.ErrValidation.WithMessage("task cannot be empty")
	}
	if utf8.RuneCountInString(description) > maxDescriptionLength {
		return errs.ErrValidation.WithMessage("task text is too long, keep it under 50 characters")
	}
	if dueDate == "" {
		dueDate = time.Now().Format("2006-01-02")
	}

	key := fmt.Sprintf("add:%d", listID)
	if !b.begin(key) {
		return errs.ErrValidation.WithMessage("a submission for this list is already in progress")
	}
	defer b.end(key)

	created := b.taskSvc.AddTask(ctx, services.NewTask{
		Description: description,
		Assignee:    b.userID,
		DueDate:     dueDate,
		TodoListID:  listID,
		OwnerID:     b.userID,
		Progress:    model.ProgressUncompleted,
	})
	if created == nil {
		return errs.ErrServer.WithMessage("failed to add task")
	}

	b.ReloadTasks(ctx, listID)
	return nil
}

// UpdateDescription edits a task's text and refetches the list.
func (b *Board) UpdateDescription(ctx context.Context, listID, taskID int64, description string) error {
	description = strings.TrimSpace(description)
	if description == "" {
		return errs.ErrValidation.WithMessage("task cannot be empty")
	}
	if utf8.RuneCountInString(description) > maxDescriptionLength {
		return errs.ErrValidation.WithMessage("task text is too long, keep it under 50 characters")
	}

	if b.taskSvc.UpdateTask(ctx, taskID, services.TaskPatch{Description: &description}) == nil {
		return errs.ErrServer.WithMessage("failed to update task")
	}

	b.ReloadTasks(ctx, listID)
	return nil
}

// ToggleCompletion flips a task between its incomplete state and
// Completed, patching local state in place on success. The outcome is
// fully client-determined, so no refetch; the next Refresh reconciles.
func (b *Board) ToggleCompletion(ctx context.Context, listID, taskID int64) error {
	b.mu.Lock()
	task, ok := b.findTaskLocked(listID, taskID)
	if !ok {
		b.mu.Unlock()
		return errs.ErrNotFound.WithMessage("task not found")
	}
	next := task.Progress.Toggled()
	b.mu.Unlock()

	if b.taskSvc.UpdateTask(ctx, taskID, services.TaskPatch{Progress: &next}) == nil {
		return errs.ErrServer.WithMessage("failed to update task")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if task, ok := b.findTaskLocked(listID, taskID); ok {
		task.Progress = next
		task.Completed = next.IsCompleted()
	}
	return nil
}

// DeleteTask removes the task locally once the server confirms.
func (b *Board) DeleteTask(ctx context.Context, listID, taskID int64) bool {
	if !b.taskSvc.DeleteTask(ctx, taskID) {
		return false
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	tasks := b.tasks[listID]
	for i, task := range tasks {
		if task.ID == taskID {
			b.tasks[listID] = append(tasks[:i], tasks[i+1:]...)
			break
		}
	}
	return true
}

func (b *Board) removeListLocally(listID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, list := range b.lists {
		if list.ID == listID {
			b.lists = append(b.lists[:i], b.lists[i+1:]...)
			break
		}
	}
	delete(b.tasks, listID)
	delete(b.expanded, listID)
	delete(b.taskGen, listID)
	if b.selected == listID {
		b.selected = model.Unassigned
		if len(b.lists) > 0 {
			b.selected = b.lists[0].ID
		}
	}
}

func (b *Board) hasListLocked(listID int64) bool {
	for _, list := range b.lists {
		if list.ID == listID {
			return true
		}
	}
	return false
}

func (b *Board) findTaskLocked(listID, taskID int64) (*model.Task, bool) {
	tasks := b.tasks[listID]
	for i := range tasks {
		if tasks[i].ID == taskID {
			return &tasks[i], true
		}
	}
	return nil, false
}

// begin marks an operation key in flight; it returns false when the
// same key is already running (double-tap guard).
func (b *Board) begin(key string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, busy := b.inflight[key]; busy {
		return false
	}
	b.inflight[key] = struct{}{}
	return true
}

func (b *Board) end(key string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.inflight, key)
}
