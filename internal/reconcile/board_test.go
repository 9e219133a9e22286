package reconcile

import (
	"context"
	"errors"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	errs "github.com/jiawen-jasmine-chen/todosync/internal/errors"
	"github.com/jiawen-jasmine-chen/todosync/internal/fakeserver"
	model "github.com/jiawen-jasmine-chen/todosync/internal/models"
	"github.com/jiawen-jasmine-chen/todosync/internal/services"
	"github.com/jiawen-jasmine-chen/todosync/internal/transport"
)

type listAPIStub struct {
	fetchFn  func(ctx context.Context, userID int64) []model.TodoList
	createFn func(ctx context.Context, ownerID int64, shared bool, name string) (*model.TodoList, error)
	joinFn   func(ctx context.Context, userID int64, inviteCode string) (string, error)
	deleteFn func(ctx context.Context, listID int64) bool
	leaveFn  func(ctx context.Context, listID, userID int64) bool
}

func (s *listAPIStub) FetchTodoLists(ctx context.Context, userID int64) []model.TodoList {
	if s.fetchFn == nil {
		return []model.TodoList{}
	}
	return s.fetchFn(ctx, userID)
}

func (s *listAPIStub) CreateTodoList(ctx context.Context, ownerID int64, shared bool, name string) (*model.TodoList, error) {
	return s.createFn(ctx, ownerID, shared, name)
}

func (s *listAPIStub) JoinTodoList(ctx context.Context, userID int64, inviteCode string) (string, error) {
	return s.joinFn(ctx, userID, inviteCode)
}

func (s *listAPIStub) DeleteTodoList(ctx context.Context, listID int64) bool {
	return s.deleteFn(ctx, listID)
}

func (s *listAPIStub) LeaveSharedList(ctx context.Context, listID, userID int64) bool {
	return s.leaveFn(ctx, listID, userID)
}

type taskAPIStub struct {
	fetchFn  func(ctx context.Context, todoListID int64) []model.Task
	addFn    func(ctx context.Context, input services.NewTask) *model.Task
	updateFn func(ctx context.Context, taskID int64, patch services.TaskPatch) *model.Task
	deleteFn func(ctx context.Context, taskID int64) bool
}

func (s *taskAPIStub) FetchTasks(ctx context.Context, todoListID int64) []model.Task {
	if s.fetchFn == nil {
		return []model.Task{}
	}
	return s.fetchFn(ctx, todoListID)
}

func (s *taskAPIStub) AddTask(ctx context.Context, input services.NewTask) *model.Task {
	return s.addFn(ctx, input)
}

func (s *taskAPIStub) UpdateTask(ctx context.Context, taskID int64, patch services.TaskPatch) *model.Task {
	return s.updateFn(ctx, taskID, patch)
}

func (s *taskAPIStub) DeleteTask(ctx context.Context, taskID int64) bool {
	return s.deleteFn(ctx, taskID)
}

func uncompletedTask(id, listID int64, description string) model.Task {
	return model.Task{
		ID:          id,
		Description: description,
		Progress:    model.ProgressUncompleted,
		Assignee:    7,
		OwnerID:     7,
		TodoListID:  listID,
	}
}

func TestRefreshSelectsFirstListAndPreloadsTasks(t *testing.T) {
	lists := []model.TodoList{
		{ID: 1, Name: "A", OwnerID: 7},
		{ID: 2, Name: "B", OwnerID: 7, Shared: true},
	}
	listAPI := &listAPIStub{
		fetchFn: func(ctx context.Context, userID int64) []model.TodoList { return lists },
	}
	taskAPI := &taskAPIStub{
		fetchFn: func(ctx context.Context, listID int64) []model.Task {
			return []model.Task{uncompletedTask(listID*10, listID, "task")}
		},
	}

	board := NewBoard(7, listAPI, taskAPI)
	board.Refresh(context.Background())

	if board.SelectedList() != 1 {
		t.Errorf("selected = %d, want first list 1", board.SelectedList())
	}
	if len(board.Tasks(1)) != 1 || len(board.Tasks(2)) != 1 {
		t.Errorf("expected tasks preloaded for every list")
	}

	// List 1 disappears server-side: its state is dropped and the
	// selection moves to the first remaining list.
	lists = lists[1:]
	board.Refresh(context.Background())
	if board.SelectedList() != 2 {
		t.Errorf("selected = %d, want 2 after list 1 vanished", board.SelectedList())
	}
	if len(board.Tasks(1)) != 0 {
		t.Errorf("tasks of a vanished list should be dropped")
	}
}

// Adding a task must replace local state with a refetch; the add echo
// itself is never appended.
func TestAddTaskRefetches(t *testing.T) {
	var fetches int32
	taskAPI := &taskAPIStub{
		addFn: func(ctx context.Context, input services.NewTask) *model.Task {
			echo := uncompletedTask(101, input.TodoListID, "echo copy")
			return &echo
		},
		fetchFn: func(ctx context.Context, listID int64) []model.Task {
			atomic.AddInt32(&fetches, 1)
			return []model.Task{uncompletedTask(101, listID, "Buy milk")}
		},
	}
	board := NewBoard(7, &listAPIStub{}, taskAPI)

	if err := board.AddTask(context.Background(), 42, "Buy milk", "2024-06-01"); err != nil {
		t.Fatalf("add: %v", err)
	}

	tasks := board.Tasks(42)
	if len(tasks) != 1 || tasks[0].Description != "Buy milk" {
		t.Fatalf("board should hold the refetched task, got %+v", tasks)
	}
	if atomic.LoadInt32(&fetches) != 1 {
		t.Errorf("expected exactly one refetch, got %d", fetches)
	}
}

func TestAddTaskValidation(t *testing.T) {
	var calls int32
	taskAPI := &taskAPIStub{
		addFn: func(ctx context.Context, input services.NewTask) *model.Task {
			atomic.AddInt32(&calls, 1)
			return nil
		},
	}
	board := NewBoard(7, &listAPIStub{}, taskAPI)
	ctx := context.Background()

	if err := board.AddTask(ctx, 1, "   ", ""); !errors.Is(err, errs.ErrValidation) {
		t.Errorf("empty description: expected ErrValidation, got %v", err)
	}

	long := make([]byte, 51)
	for i := range long {
		long[i] = 'x'
	}
	if err := board.AddTask(ctx, 1, string(long), ""); !errors.Is(err, errs.ErrValidation) {
		t.Errorf("long description: expected ErrValidation, got %v", err)
	}

	if atomic.LoadInt32(&calls) != 0 {
		t.Errorf("invalid input must not reach the server, got %d calls", calls)
	}
}

func TestAddTaskDuplicateSubmissionGuard(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	taskAPI := &taskAPIStub{
		addFn: func(ctx context.Context, input services.NewTask) *model.Task {
			close(started)
			<-release
			echo := uncompletedTask(1, input.TodoListID, input.Description)
			return &echo
		},
	}
	board := NewBoard(7, &listAPIStub{}, taskAPI)
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(1)
	var firstErr error
	go func() {
		defer wg.Done()
		firstErr = board.AddTask(ctx, 1, "slow add", "")
	}()

	<-started
	if err := board.AddTask(ctx, 1, "double tap", ""); !errors.Is(err, errs.ErrValidation) {
		t.Errorf("expected the second submission to be rejected, got %v", err)
	}

	close(release)
	wg.Wait()
	if firstErr != nil {
		t.Errorf("first submission should succeed, got %v", firstErr)
	}
}

func TestToggleCompletionPatchesLocally(t *testing.T) {
	var fetches int32
	var lastPatch services.TaskPatch
	taskAPI := &taskAPIStub{
		fetchFn: func(ctx context.Context, listID int64) []model.Task {
			atomic.AddInt32(&fetches, 1)
			return []model.Task{uncompletedTask(7, listID, "Stretch")}
		},
		updateFn: func(ctx context.Context, taskID int64, patch services.TaskPatch) *model.Task {
			lastPatch = patch
			updated := uncompletedTask(taskID, 1, "Stretch")
			updated.Progress = *patch.Progress
			updated.Completed = updated.Progress.IsCompleted()
			return &updated
		},
	}
	board := NewBoard(7, &listAPIStub{}, taskAPI)
	ctx := context.Background()

	board.ReloadTasks(ctx, 1)

	if err := board.ToggleCompletion(ctx, 1, 7); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if lastPatch.Progress == nil || *lastPatch.Progress != model.ProgressCompleted {
		t.Errorf("expected progress=Completed in patch, got %+v", lastPatch)
	}
	if task := board.Tasks(1)[0]; !task.Completed || task.Progress != model.ProgressCompleted {
		t.Errorf("local state not patched: %+v", task)
	}
	if atomic.LoadInt32(&fetches) != 1 {
		t.Errorf("toggle must not refetch, got %d fetches", fetches)
	}

	// Toggling back sends Uncompleted.
	if err := board.ToggleCompletion(ctx, 1, 7); err != nil {
		t.Fatalf("toggle back: %v", err)
	}
	if *lastPatch.Progress != model.ProgressUncompleted {
		t.Errorf("expected progress=Uncompleted in second patch, got %v", *lastPatch.Progress)
	}
	if task := board.Tasks(1)[0]; task.Completed {
		t.Errorf("task should be uncompleted again: %+v", task)
	}
}

func TestToggleFailureLeavesStateUntouched(t *testing.T) {
	taskAPI := &taskAPIStub{
		fetchFn: func(ctx context.Context, listID int64) []model.Task {
			return []model.Task{uncompletedTask(7, listID, "Stretch")}
		},
		updateFn: func(ctx context.Context, taskID int64, patch services.TaskPatch) *model.Task {
			return nil
		},
	}
	board := NewBoard(7, &listAPIStub{}, taskAPI)
	ctx := context.Background()

	board.ReloadTasks(ctx, 1)
	if err := board.ToggleCompletion(ctx, 1, 7); !errors.Is(err, errs.ErrServer) {
		t.Fatalf("expected ErrServer, got %v", err)
	}
	if task := board.Tasks(1)[0]; task.Completed {
		t.Errorf("failed toggle must not patch local state: %+v", task)
	}
}

func TestDeleteTaskRemovesLocally(t *testing.T) {
	deleteOK := true
	taskAPI := &taskAPIStub{
		fetchFn: func(ctx context.Context, listID int64) []model.Task {
			return []model.Task{
				uncompletedTask(100, listID, "keep"),
				uncompletedTask(101, listID, "drop"),
			}
		},
		deleteFn: func(ctx context.Context, taskID int64) bool { return deleteOK },
	}
	board := NewBoard(7, &listAPIStub{}, taskAPI)
	ctx := context.Background()

	board.ReloadTasks(ctx, 42)
	if !board.DeleteTask(ctx, 42, 101) {
		t.Fatal("delete should report success")
	}
	tasks := board.Tasks(42)
	if len(tasks) != 1 || tasks[0].ID != 100 {
		t.Errorf("task 101 should be gone, got %+v", tasks)
	}

	deleteOK = false
	if board.DeleteTask(ctx, 42, 100) {
		t.Error("delete should report failure")
	}
	if len(board.Tasks(42)) != 1 {
		t.Errorf("failed delete must not remove local state")
	}
}

// Two fetches for the same list racing: the one issued last wins even
// when the earlier one completes later.
func TestStaleFetchResultDropped(t *testing.T) {
	oldSnapshot := []model.Task{uncompletedTask(1, 5, "stale")}
	newSnapshot := []model.Task{uncompletedTask(2, 5, "fresh")}

	var calls int32
	block := make(chan struct{})
	taskAPI := &taskAPIStub{
		fetchFn: func(ctx context.Context, listID int64) []model.Task {
			if atomic.AddInt32(&calls, 1) == 1 {
				<-block
				return oldSnapshot
			}
			return newSnapshot
		},
	}
	board := NewBoard(7, &listAPIStub{}, taskAPI)
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		board.ReloadTasks(ctx, 5)
	}()

	for atomic.LoadInt32(&calls) == 0 {
		time.Sleep(time.Millisecond)
	}

	board.ReloadTasks(ctx, 5)
	close(block)
	wg.Wait()

	tasks := board.Tasks(5)
	if len(tasks) != 1 || tasks[0].Description != "fresh" {
		t.Errorf("stale fetch result should be dropped, got %+v", tasks)
	}
}

func TestCreateListAppendsAndSelects(t *testing.T) {
	listAPI := &listAPIStub{
		createFn: func(ctx context.Context, ownerID int64, shared bool, name string) (*model.TodoList, error) {
			return &model.TodoList{ID: 42, Name: name, Shared: shared, OwnerID: ownerID, InviteCode: "AB12CD"}, nil
		},
	}
	board := NewBoard(7, listAPI, &taskAPIStub{})

	list, err := board.CreateList(context.Background(), "Groceries", true)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if list.InviteCode != "AB12CD" {
		t.Errorf("unexpected list: %+v", list)
	}

	lists := board.Lists()
	if len(lists) != 1 || lists[0].ID != 42 || lists[0].Name != "Groceries" {
		t.Errorf("list should be appended locally, got %+v", lists)
	}
	if board.SelectedList() != 42 {
		t.Errorf("first created list should become the selection")
	}
}

func TestExpandCollapseFlags(t *testing.T) {
	board := NewBoard(7, &listAPIStub{}, &taskAPIStub{})
	if board.IsExpanded(3) {
		t.Error("lists default to collapsed")
	}
	board.SetExpanded(3, true)
	if !board.IsExpanded(3) {
		t.Error("expected list 3 expanded")
	}
}

// End-to-end against the in-memory backend: two users share a list.
func TestBoardAgainstFakeBackend(t *testing.T) {
	srv := httptest.NewServer(fakeserver.Handler(fakeserver.New()))
	defer srv.Close()

	client := transport.New(srv.URL, 5*time.Second)
	auth := services.NewAuthService(client)
	listSvc := services.NewTodoListService(client)
	taskSvc := services.NewTaskService(client)
	ctx := context.Background()

	alice, err := auth.Register(ctx, "alice")
	if err != nil {
		t.Fatalf("register alice: %v", err)
	}
	bob, err := auth.Register(ctx, "bob")
	if err != nil {
		t.Fatalf("register bob: %v", err)
	}

	aliceBoard := NewBoard(alice.UserID, listSvc, taskSvc)
	list, err := aliceBoard.CreateList(ctx, "Groceries", true)
	if err != nil {
		t.Fatalf("create list: %v", err)
	}

	if err := aliceBoard.AddTask(ctx, list.ID, "Buy milk", "2024-06-01"); err != nil {
		t.Fatalf("add task: %v", err)
	}
	tasks := aliceBoard.Tasks(list.ID)
	if len(tasks) != 1 || tasks[0].Description != "Buy milk" || tasks[0].Completed {
		t.Fatalf("unexpected tasks after add: %+v", tasks)
	}

	if err := aliceBoard.ToggleCompletion(ctx, list.ID, tasks[0].ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if got := aliceBoard.Tasks(list.ID)[0]; !got.Completed {
		t.Errorf("task should be completed locally: %+v", got)
	}

	bobBoard := NewBoard(bob.UserID, listSvc, taskSvc)
	if _, err := bobBoard.Join(ctx, list.InviteCode); err != nil {
		t.Fatalf("join: %v", err)
	}
	bobLists := bobBoard.Lists()
	if len(bobLists) != 1 || bobLists[0].ID != list.ID {
		t.Fatalf("bob should see the shared list, got %+v", bobLists)
	}
	if got := bobBoard.Tasks(list.ID); len(got) != 1 || !got[0].Completed {
		t.Errorf("bob should see the completed task, got %+v", got)
	}

	if !bobBoard.LeaveList(ctx, list.ID) {
		t.Error("bob should be able to leave")
	}
	if len(bobBoard.Lists()) != 0 {
		t.Errorf("leaving should remove the list locally")
	}

	if !aliceBoard.DeleteList(ctx, list.ID) {
		t.Error("alice should be able to delete her list")
	}
	if len(aliceBoard.Lists()) != 0 {
		t.Errorf("deletion should remove the list locally")
	}
}
