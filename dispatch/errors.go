package dispatch

import "fmt"

// ValidationError reports a missing or malformed field on create/update.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

// NotFoundError reports an unknown vehicle, assignment, or order id.
type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.Key)
}

// PreconditionError reports a request that is well-formed but not allowed in
// the current state (order not in processing, past delivery date, closed
// status transition).
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string {
	return "precondition failed: " + e.Reason
}

// ConflictError reports a duplicate active assignment for the same order, or
// a status update that lost a concurrent race.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return "conflict: " + e.Reason
}
