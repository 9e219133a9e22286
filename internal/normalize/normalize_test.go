package normalize

import (
	"encoding/json"
	"testing"

	errs "github.com/jiawen-jasmine-chen/todosync/internal/errors"
	model "github.com/jiawen-jasmine-chen/todosync/internal/models"
)

func TestTaskCompletedDerivation(t *testing.T) {
	cases := []struct {
		progress  string
		completed bool
	}{
		{"Completed", true},
		{"Uncompleted", false},
		{"Not Started", false},
	}

	for _, tc := range cases {
		raw := map[string]any{
			"id":          float64(1),
			"description": "Buy milk",
			"progress":    tc.progress,
		}
		task, err := Task(raw)
		if err != nil {
			t.Fatalf("progress %q: unexpected error: %v", tc.progress, err)
		}
		if task.Completed != tc.completed {
			t.Errorf("progress %q: completed = %v, want %v", tc.progress, task.Completed, tc.completed)
		}
	}
}

func TestTaskUnknownProgressRejected(t *testing.T) {
	raw := map[string]any{
		"id":          float64(1),
		"description": "Buy milk",
		"progress":    "Done",
	}
	if _, err := Task(raw); errs.KindOf(err) != errs.KindNormalization {
		t.Fatalf("expected normalization error, got %v", err)
	}
}

func TestTaskRequiredFields(t *testing.T) {
	if _, err := Task(map[string]any{"description": "x"}); errs.KindOf(err) != errs.KindNormalization {
		t.Errorf("missing id: expected normalization error, got %v", err)
	}
	if _, err := Task(map[string]any{"id": float64(1)}); errs.KindOf(err) != errs.KindNormalization {
		t.Errorf("missing description: expected normalization error, got %v", err)
	}
}

func TestTaskCoercesStringIDsAndLegacyKeys(t *testing.T) {
	raw := map[string]any{
		"task_id":     "101",
		"description": "Buy milk",
		"progress":    "Uncompleted",
		"assignee":    "7",
		"owner_id":    float64(7),
		"todolist_id": float64(42),
	}
	task, err := Task(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.ID != 101 || task.Assignee != 7 || task.OwnerID != 7 || task.TodoListID != 42 {
		t.Errorf("unexpected ids: %+v", task)
	}
}

func TestTaskDefaultsUnassignedReferences(t *testing.T) {
	task, err := Task(map[string]any{
		"id":          float64(5),
		"description": "Water plants",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.Assignee != model.Unassigned || task.OwnerID != model.Unassigned || task.TodoListID != model.Unassigned {
		t.Errorf("expected unassigned sentinels, got %+v", task)
	}
	if task.Progress != model.ProgressNotStarted || task.Completed {
		t.Errorf("expected default progress Not Started, got %+v", task)
	}
}

// Normalization is idempotent: feeding a normalized task back through
// yields the same task.
func TestTaskIdempotent(t *testing.T) {
	raw := map[string]any{
		"task_id":     "101",
		"description": "Buy milk",
		"progress":    "Completed",
		"assignee":    float64(7),
		"owner_id":    float64(7),
		"todolist_id": float64(42),
		"due_date":    "2024-06-01",
	}
	first, err := Task(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	encoded, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var roundTripped map[string]any
	if err := json.Unmarshal(encoded, &roundTripped); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	second, err := Task(roundTripped)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Errorf("not idempotent:\nfirst  %+v\nsecond %+v", first, second)
	}
}

func TestTodoListSharedVariants(t *testing.T) {
	shared, err := TodoList(map[string]any{"id": float64(1), "name": "a", "shared": true})
	if err != nil || !shared.Shared {
		t.Errorf("shared key: got %+v, %v", shared, err)
	}
	legacy, err := TodoList(map[string]any{"id": float64(2), "name": "b", "share": float64(1)})
	if err != nil || !legacy.Shared {
		t.Errorf("share key: got %+v, %v", legacy, err)
	}
	absent, err := TodoList(map[string]any{"id": float64(3), "name": "c"})
	if err != nil || absent.Shared {
		t.Errorf("absent flag should default to false: got %+v, %v", absent, err)
	}
}

func TestTodoListCreateResponseShape(t *testing.T) {
	list, err := TodoList(map[string]any{
		"todolist_id": float64(42),
		"inviteCode":  "AB12CD",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if list.ID != 42 || list.InviteCode != "AB12CD" {
		t.Errorf("unexpected list: %+v", list)
	}
	if list.OwnerID != model.Unassigned {
		t.Errorf("owner should default to unassigned, got %d", list.OwnerID)
	}
}

func TestUserLegacyCapitalizedKeys(t *testing.T) {
	users, err := Users([]any{
		map[string]any{"UserID": float64(1), "Username": "alice"},
		map[string]any{"user_id": float64(2), "username": "bob"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 2 || users[0].Username != "alice" || users[1].ID != 2 {
		t.Errorf("unexpected users: %+v", users)
	}
}
