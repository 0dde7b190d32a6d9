package remote

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnauthorized indicates no identity token could be obtained or the
// service rejected it.
var ErrUnauthorized = errors.New("remote: unauthorized")

// ErrRateLimit indicates the service answered 429.
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrUnavailable indicates a network failure or a 5xx answer.
type ErrUnavailable struct {
	Err error
}

func (e *ErrUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("progress service unavailable: %v", e.Err)
	}
	return "progress service unavailable"
}

func (e *ErrUnavailable) Unwrap() error { return e.Err }

// ErrRequest is a 4xx answer other than authorization and rate limiting.
type ErrRequest struct {
	Status  int
	Code    string
	Message string
}

func (e *ErrRequest) Error() string {
	return fmt.Sprintf("progress service rejected request (%d %s): %s", e.Status, e.Code, e.Message)
}
