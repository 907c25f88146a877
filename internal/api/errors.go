package api

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionExpired indicates the server rejected the bearer token (401).
	// The client has already cleared the stored session by the time a caller
	// sees this; the right response is to send the user back to login.
	ErrSessionExpired = errors.New("session expired, please log in again")

	// ErrForbidden indicates the server understood the credentials but denied
	// the operation (403). The session stays intact; the caller surfaces the
	// error in place.
	ErrForbidden = errors.New("you do not have permission for this operation")
)

// APIError is a non-auth HTTP failure carrying the remote message when the
// body had one, else a transport-level description.
type APIError struct {
	Message string
	Status  int
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server error (%d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("server error (%d)", e.Status)
}

// DataError reports a record from the server that failed shape validation
// (unparseable amount, malformed date). These must never be silently coerced
// into aggregates.
type DataError struct {
	Err      error
	RecordID string
	Field    string
}

func (e *DataError) Error() string {
	return fmt.Sprintf("bad %s in record %s: %v", e.Field, e.RecordID, e.Err)
}

func (e *DataError) Unwrap() error {
	return e.Err
}
