package errors

// StatusCode 0 means no response reached the client.
var ErrNetworkUnavailable = &Exception{
	Kind:       KindNetworkUnavailable,
	Message:    "unable to connect with the server",
	StatusCode: 0,
}
