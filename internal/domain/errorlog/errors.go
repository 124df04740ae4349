package errorlog

import "fmt"

// ValidationError indicates a logging call was missing a required
// field or a request specified an invalid value (e.g. a retention
// window below one day).
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// DatabaseError wraps any storage failure during insert, query,
// aggregate or delete. The read paths surface it to API callers;
// only the interceptor's write path swallows it.
type DatabaseError struct {
	Op  string
	Err error
}

func (e *DatabaseError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *DatabaseError) Unwrap() error {
	return e.Err
}
