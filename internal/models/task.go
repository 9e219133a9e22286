package model

// Unassigned is the sentinel for absent assignee/owner/list references.
const Unassigned int64 = -1

// Task is the canonical local task shape. Completed is derived from
// Progress by the normalizer and is never sent to the server.
type Task struct {
	ID          int64    `json:"id"`
	Description string   `json:"description"`
	Progress    Progress `json:"progress"`
	Assignee    int64    `json:"assignee"`
	OwnerID     int64    `json:"owner_id"`
	TodoListID  int64    `json:"todolist_id"`
	DueDate     string   `json:"due_date,omitempty"`
	CreatedAt   string   `json:"created_at,omitempty"`
	Completed   bool     `json:"completed"`
}
