package lookup

import (
	"errors"
	"fmt"
)

var (
	// ErrNoResults means a fetch succeeded but produced nothing usable
	ErrNoResults = errors.New("no results")

	// ErrTimedOut means a fetch exceeded its deadline
	ErrTimedOut = errors.New("timed out")
)

// NetworkError is a transport failure or an unexpected HTTP status
type NetworkError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("request to %s failed with status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
