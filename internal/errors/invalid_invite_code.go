package errors

import "net/http"

var ErrInvalidInviteCode = &Exception{
	Kind:       KindInvalidInviteCode,
	Message:    "invalid invite code",
	StatusCode: http.StatusNotFound,
}
