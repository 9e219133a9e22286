package errors

import "net/http"

var ErrServer = &Exception{
	Kind:       KindServer,
	Message:    "service error, try again",
	StatusCode: http.StatusInternalServerError,
}
