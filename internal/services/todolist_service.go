package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"strings"

	errs "github.com/jiawen-jasmine-chen/todosync/internal/errors"
	model "github.com/jiawen-jasmine-chen/todosync/internal/models"
	"github.com/jiawen-jasmine-chen/todosync/internal/normalize"
	"github.com/jiawen-jasmine-chen/todosync/internal/transport"
)

type TodoListService struct {
	client *transport.Client
}

func NewTodoListService(client *transport.Client) *TodoListService {
	return &TodoListService{client: client}
}

// CreateTodoList creates a list owned by ownerID. The create response
// only carries the new id (and the invite code for shared lists), so
// the fields the caller authored are merged back in.
func (s *TodoListService) CreateTodoList(ctx context.Context, ownerID int64, shared bool, name string) (*model.TodoList, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errs.ErrValidation.WithMessage("list name cannot be empty")
	}

	sharedParam := "0"
	if shared {
		sharedParam = "1"
	}
	query := url.Values{
		"user_id": {strconv.FormatInt(ownerID, 10)},
		"shared":  {sharedParam},
		"name":    {name},
	}

	var raw map[string]any
	if err := s.client.Post(ctx, "/todolists", query, nil, &raw); err != nil {
		return nil, err
	}

	list, err := normalize.TodoList(raw)
	if err != nil {
		return nil, err
	}
	if list.Name == "" {
		list.Name = name
	}
	if list.OwnerID == model.Unassigned {
		list.OwnerID = ownerID
	}
	if _, ok := normalize.Flag(raw, "shared", "share", "Shared"); !ok {
		list.Shared = shared
	}
	return &list, nil
}

// FetchTodoLists degrades to an empty slice on every failure. A 404
// means the user simply has no lists yet and is not logged.
func (s *TodoListService) FetchTodoLists(ctx context.Context, userID int64) []model.TodoList {
	var resp struct {
		TodoLists []any `json:"todolists"`
	}
	if err := s.client.Get(ctx, fmt.Sprintf("/todolists/%d", userID), &resp); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return []model.TodoList{}
		}
		log.Printf("fetch todolists for user %d: %v", userID, err)
		return []model.TodoList{}
	}

	lists, err := normalize.TodoLists(resp.TodoLists)
	if err != nil {
		log.Printf("fetch todolists for user %d: %v", userID, err)
		return []model.TodoList{}
	}
	return lists
}

// JoinTodoList joins a shared list by invite code. Each failure mode
// stays distinguishable so the caller can show an actionable message:
// invalid code (404), service error (500), network unavailable, other.
func (s *TodoListService) JoinTodoList(ctx context.Context, userID int64, inviteCode string) (string, error) {
	inviteCode = strings.TrimSpace(inviteCode)
	if inviteCode == "" {
		return "", errs.ErrValidation.WithMessage("invite code cannot be empty")
	}

	query := url.Values{
		"user_id":     {strconv.FormatInt(userID, 10)},
		"invite_code": {inviteCode},
	}

	var raw map[string]any
	if err := s.client.Post(ctx, "/todolists/join", query, nil, &raw); err != nil {
		switch errs.KindOf(err) {
		case errs.KindNotFound:
			return "", errs.ErrInvalidInviteCode
		case errs.KindServer:
			return "", errs.ErrServer
		case errs.KindNetworkUnavailable:
			return "", err
		}
		return "", &errs.Exception{
			Kind:       errs.KindUnknown,
			Message:    err.Error(),
			StatusCode: errs.StatusCode(err),
		}
	}

	message, _ := normalize.Str(raw, "message")
	if message == "" {
		message = "joined the list"
	}
	return message, nil
}

// DeleteTodoList reports success as a bare flag; the cause of a
// failure is logged, not returned.
func (s *TodoListService) DeleteTodoList(ctx context.Context, listID int64) bool {
	if err := s.client.Delete(ctx, fmt.Sprintf("/todolists/%d", listID)); err != nil {
		log.Printf("delete todolist %d: %v", listID, err)
		return false
	}
	return true
}

func (s *TodoListService) LeaveSharedList(ctx context.Context, listID, userID int64) bool {
	body := map[string]int64{"user_id": userID}
	if err := s.client.Post(ctx, fmt.Sprintf("/todolists/%d/leave", listID), nil, body, nil); err != nil {
		log.Printf("leave todolist %d as user %d: %v", listID, userID, err)
		return false
	}
	return true
}

// GetListUsers is the one read that propagates failure: member lists
// back invite-management UI where an error must not render as "empty".
func (s *TodoListService) GetListUsers(ctx context.Context, listID int64) ([]model.ListMember, error) {
	var resp struct {
		Users []any `json:"users"`
	}
	if err := s.client.Get(ctx, fmt.Sprintf("/todolists/%d/users", listID), &resp); err != nil {
		return nil, err
	}
	return normalize.ListMembers(resp.Users)
}
