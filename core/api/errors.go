package api

import "fmt"

// ValidationError is a local, pre-network rejection. No request was sent.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// RequestFailure is a non-2xx response. Message carries the server-supplied
// detail text when present, otherwise a generic "<Action> failed: <status>".
type RequestFailure struct {
	Action string
	Status int
	Detail string
}

func (e *RequestFailure) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("%s failed: %d", e.Action, e.Status)
}

// NetworkError is a transport-level failure with no response.
type NetworkError struct {
	Action string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Action, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
