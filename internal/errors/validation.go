package errors

import "net/http"

var ErrValidation = &Exception{
	Kind:       KindValidation,
	Message:    "invalid input",
	StatusCode: http.StatusBadRequest,
}
