package fakeserver

import "sync"

type user struct {
	ID       int64
	Username string
}

type todoList struct {
	ID         int64
	Name       string
	Shared     bool
	OwnerID    int64
	InviteCode string
	// userID -> role ("owner" or "member")
	Members map[int64]string
}

type task struct {
	ID          int64
	Description string
	Progress    string
	Assignee    int64
	OwnerID     int64
	TodoListID  int64
	DueDate     string
	CreatedAt   string
}

type store struct {
	mu         sync.Mutex
	users      map[int64]*user
	userByName map[string]int64
	lists      map[int64]*todoList
	tasks      map[int64]*task
	lastID     int64
}

func newStore() *store {
	return &store{
		users:      make(map[int64]*user),
		userByName: make(map[string]int64),
		lists:      make(map[int64]*todoList),
		tasks:      make(map[int64]*task),
	}
}

// nextID must be called with mu held.
func (s *store) nextID() int64 {
	s.lastID++
	return s.lastID
}

// listsForUser must be called with mu held.
func (s *store) listsForUser(userID int64) []*todoList {
	var out []*todoList
	for _, list := range s.lists {
		if _, member := list.Members[userID]; member {
			out = append(out, list)
		}
	}
	return out
}
