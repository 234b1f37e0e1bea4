package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyInRoom = errors.New("user already in a room")
	ErrNotInRoom     = errors.New("user is not in a room")
	ErrScrapeMiss    = errors.New("no product found")
)

// InvalidModelResponseError is returned when the model reply is not a JSON
// array of [name, seconds] pairs.
type InvalidModelResponseError struct {
	Reason string
	Raw    string
	Err    error
}

func (e *InvalidModelResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid model response: %s: %v", e.Reason, e.Err)
	}
	return "invalid model response: " + e.Reason
}

func (e *InvalidModelResponseError) Unwrap() error {
	return e.Err
}

// NetworkError covers transport failures and non-success HTTP statuses on
// outbound calls.
type NetworkError struct {
	Op         string
	URL        string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: %s: unexpected status %d", e.Op, e.URL, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.URL, e.Err)
	default:
		return fmt.Sprintf("%s: %s: network error", e.Op, e.URL)
	}
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
