package api

import "fmt"

// ValidationError is a client-side check that failed before any request
// was issued. The action it guards is simply not performed.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// RequestError is a non-success HTTP response. Detail carries the
// server's JSON "detail" field when the body had one.
type RequestError struct {
	Status int
	Detail string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Detail)
}

// NetworkError means the request never completed (connection refused,
// timeout, DNS failure).
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("network error: %v", e.Err) }
func (e *NetworkError) Unwrap() error { return e.Err }
