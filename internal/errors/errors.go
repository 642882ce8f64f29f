package errors

import "fmt"

// ErrorCode represents a timeline adapter error code.
type ErrorCode string

const (
	ErrInvalidRequest  ErrorCode = "INVALID_REQUEST"   // 400
	ErrContextNotFound ErrorCode = "CONTEXT_NOT_FOUND" // 404
	ErrMalformedRecord ErrorCode = "MALFORMED_RECORD"  // 422
	ErrInternal        ErrorCode = "INTERNAL"          // 500
	ErrTransportFailed ErrorCode = "TRANSPORT_FAILED"  // 502
)

// TimelineError represents a structured error with code, status, and details.
type TimelineError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *TimelineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *TimelineError {
	return &TimelineError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewContextNotFound creates a 404 error for when no host record identifier
// is available. Boundary methods absorb this into empty results.
func NewContextNotFound() *TimelineError {
	return &TimelineError{
		Code:    ErrContextNotFound,
		Status:  404,
		Message: "no host record identifier available",
	}
}

// NewMalformedRecord creates a 422 error for a record whose payload cannot be
// parsed. The pipeline degrades such records per stage; it never aborts.
func NewMalformedRecord(id string) *TimelineError {
	return &TimelineError{
		Code:    ErrMalformedRecord,
		Status:  422,
		Message: fmt.Sprintf("record payload cannot be parsed: %s", id),
		Details: map[string]any{"id": id},
	}
}

// NewTransportFailed creates a 502 error for a failed backing-store query.
// Callers degrade to an empty snapshot rather than surfacing this to the host.
func NewTransportFailed(err error) *TimelineError {
	msg := "backing store query failed"
	if err != nil {
		msg = fmt.Sprintf("backing store query failed: %v", err)
	}
	return &TimelineError{
		Code:    ErrTransportFailed,
		Status:  502,
		Message: msg,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *TimelineError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &TimelineError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a TimelineError with the given code.
func Is(err error, code ErrorCode) bool {
	if tErr, ok := err.(*TimelineError); ok {
		return tErr.Code == code
	}
	return false
}
