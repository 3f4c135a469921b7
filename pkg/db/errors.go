package db

import "fmt"

// ValidationError reports a rejected field before any mutation happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError reports an operation against an id that no longer exists.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// DuplicateTriggerError reports an automation rule whose trigger title
// collides (case-insensitively) with an existing rule.
type DuplicateTriggerError struct {
	TriggerTitle string
}

func (e *DuplicateTriggerError) Error() string {
	return fmt.Sprintf("an automation with trigger title %q already exists", e.TriggerTitle)
}

// StorageError wraps an underlying persistence failure. It is always
// surfaced to the caller, never swallowed.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// storagef wraps err as a StorageError with a formatted operation name.
func storagef(err error, format string, args ...interface{}) error {
	return &StorageError{Op: fmt.Sprintf(format, args...), Err: err}
}
