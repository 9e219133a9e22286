package errors

import "net/http"

var ErrDuplicateUsername = &Exception{
	Kind:       KindDuplicateUsername,
	Message:    "username already taken",
	StatusCode: http.StatusConflict,
}
