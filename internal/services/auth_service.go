package services

import (
	"context"
	"net/url"
	"strings"

	errs "github.com/jiawen-jasmine-chen/todosync/internal/errors"
	"github.com/jiawen-jasmine-chen/todosync/internal/normalize"
	"github.com/jiawen-jasmine-chen/todosync/internal/transport"
)

// AuthService covers registration and login. Both are action-type
// operations: failures come back classified, never swallowed.
type AuthService struct {
	client *transport.Client
}

func NewAuthService(client *transport.Client) *AuthService {
	return &AuthService{client: client}
}

type AuthResult struct {
	UserID   int64
	Username string
	Message  string
}

func (s *AuthService) Register(ctx context.Context, username string) (*AuthResult, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errs.ErrValidation.WithMessage("username cannot be empty")
	}

	query := url.Values{"username": {username}}
	var raw map[string]any
	if err := s.client.Post(ctx, "/register", query, nil, &raw); err != nil {
		// The only client input is the username, so a 4xx from
		// this endpoint means the name is taken.
		if errs.KindOf(err) == errs.KindValidation {
			return nil, errs.ErrDuplicateUsername.WithMessage(err.Error())
		}
		return nil, err
	}

	if !successFlag(raw) {
		message, _ := normalize.Str(raw, "message", "detail")
		if message == "" {
			message = "username already taken"
		}
		return nil, errs.ErrDuplicateUsername.WithMessage(message)
	}

	userID, ok := normalize.ID(raw, "user_id", "id", "UserID")
	if !ok {
		return nil, errs.ErrNormalization.WithMessage("register response missing user_id")
	}

	message, _ := normalize.Str(raw, "message")
	return &AuthResult{UserID: userID, Username: username, Message: message}, nil
}

func (s *AuthService) Login(ctx context.Context, username string) (*AuthResult, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errs.ErrValidation.WithMessage("username cannot be empty")
	}

	query := url.Values{"username": {username}}
	var raw map[string]any
	if err := s.client.Post(ctx, "/login", query, nil, &raw); err != nil {
		if errs.KindOf(err) == errs.KindNotFound {
			return nil, errs.ErrNotFound.WithMessage("user not found")
		}
		return nil, err
	}

	if !successFlag(raw) {
		message, _ := normalize.Str(raw, "message", "detail")
		if message == "" {
			message = "user not found"
		}
		return nil, errs.ErrNotFound.WithMessage(message)
	}

	userID, ok := normalize.ID(raw, "user_id", "id", "UserID")
	if !ok {
		return nil, errs.ErrNormalization.WithMessage("login response missing user_id")
	}

	if name, ok := normalize.Str(raw, "username"); ok && name != "" {
		username = name
	}
	message, _ := normalize.Str(raw, "message")
	return &AuthResult{UserID: userID, Username: username, Message: message}, nil
}

// successFlag reads the result flag across both response generations:
// {success: bool} and the older {status: "..."}.
func successFlag(raw map[string]any) bool {
	if v, ok := normalize.Flag(raw, "success"); ok {
		return v
	}
	if s, ok := normalize.Str(raw, "status"); ok {
		return s == "ok" || s == "success" || s == "registered"
	}
	return false
}
