package errors

import (
	"errors"
	"net/http"
)

// Kind classifies a failure for user-facing messaging.
type Kind string

const (
	KindNetworkUnavailable Kind = "network_unavailable"
	KindServer             Kind = "server_error"
	KindValidation         Kind = "validation_error"
	KindNotFound           Kind = "not_found"
	KindDuplicateUsername  Kind = "duplicate_username"
	KindInvalidInviteCode  Kind = "invalid_invite_code"
	KindNormalization      Kind = "normalization_error"
	KindUnknown            Kind = "unknown"
)

type Exception struct {
	Kind       Kind
	Message    string
	StatusCode int
}

func (e *Exception) Error() string {
	return e.Message
}

// Is matches exceptions by kind so re-worded copies still compare
// equal to their sentinel under errors.Is.
func (e *Exception) Is(target error) bool {
	var other *Exception
	if errors.As(target, &other) {
		return e.Kind == other.Kind
	}
	return false
}

// WithMessage returns a copy of the exception carrying a specific message.
func (e *Exception) WithMessage(message string) *Exception {
	return &Exception{Kind: e.Kind, Message: message, StatusCode: e.StatusCode}
}

func KindOf(err error) Kind {
	var appErr *Exception
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

func StatusCode(err error) int {
	var appErr *Exception
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}
