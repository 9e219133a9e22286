package model

// TodoList is the canonical local list shape. InviteCode is only
// populated from the create-list response of a shared list.
type TodoList struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Shared     bool   `json:"shared"`
	OwnerID    int64  `json:"owner_id"`
	InviteCode string `json:"invite_code,omitempty"`
}
