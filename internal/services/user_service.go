package services

import (
	"context"
	"fmt"
	"log"

	model "github.com/jiawen-jasmine-chen/todosync/internal/models"
	"github.com/jiawen-jasmine-chen/todosync/internal/normalize"
	"github.com/jiawen-jasmine-chen/todosync/internal/transport"
)

// UserService resolves user ids to usernames for display. Both
// operations are read-type: they degrade on failure and never return
// an error to the caller.
type UserService struct {
	client *transport.Client
}

func NewUserService(client *transport.Client) *UserService {
	return &UserService{client: client}
}

func (s *UserService) ListUsers(ctx context.Context) []model.User {
	var resp struct {
		Users []any `json:"users"`
	}
	if err := s.client.Get(ctx, "/users", &resp); err != nil {
		log.Printf("list users: %v", err)
		return []model.User{}
	}

	users, err := normalize.Users(resp.Users)
	if err != nil {
		log.Printf("list users: %v", err)
		return []model.User{}
	}
	return users
}

// GetUserDetails returns nil both when the user does not exist and on
// failure; the result only feeds assignee/owner display names.
func (s *UserService) GetUserDetails(ctx context.Context, userID int64) *model.User {
	var raw map[string]any
	if err := s.client.Get(ctx, fmt.Sprintf("/users/%d", userID), &raw); err != nil {
		log.Printf("get user %d: %v", userID, err)
		return nil
	}

	if exists, ok := normalize.Flag(raw, "exists"); ok && !exists {
		return nil
	}

	user, err := normalize.User(raw)
	if err != nil {
		log.Printf("get user %d: %v", userID, err)
		return nil
	}
	return &user
}
