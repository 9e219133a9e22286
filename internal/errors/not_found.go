package errors

import "net/http"

var ErrNotFound = &Exception{
	Kind:       KindNotFound,
	Message:    "not found",
	StatusCode: http.StatusNotFound,
}
