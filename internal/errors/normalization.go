package errors

var ErrNormalization = &Exception{
	Kind:       KindNormalization,
	Message:    "unexpected response shape",
	StatusCode: 0,
}
