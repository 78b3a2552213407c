package wpcom

import (
	"errors"
	"fmt"
)

var (
	// ErrQueueClosed is returned by Queue.Add after Close.
	ErrQueueClosed = errors.New("request queue closed")
	// ErrQueueFull is returned by Queue.Add when the pending buffer is full.
	ErrQueueFull = errors.New("request queue full")
)

// NetworkError describes a request that did not produce a usable response.
// StatusCode is zero when no HTTP response was received.
type NetworkError struct {
	StatusCode int
	Body       []byte
	Err        error
}

func (e *NetworkError) Error() string {
	switch {
	case e.StatusCode > 0 && e.Err != nil:
		return fmt.Sprintf("api returned status %d: %v", e.StatusCode, e.Err)
	case e.StatusCode > 0:
		return fmt.Sprintf("api returned status %d", e.StatusCode)
	case e.Err != nil:
		return e.Err.Error()
	default:
		return "network error"
	}
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// HasResponse reports whether the server answered with an HTTP status.
func (e *NetworkError) HasResponse() bool {
	return e != nil && e.StatusCode > 0
}
