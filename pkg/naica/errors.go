package naica

import "errors"

var (
	// ErrNilAction is returned when an operation is built with a nil action.
	ErrNilAction = errors.New("action must not be nil")
	// ErrNilCondition is returned when an operation is built with a nil condition.
	ErrNilCondition = errors.New("condition must not be nil")
	// ErrNilOperation is returned when a nested operation is nil.
	ErrNilOperation = errors.New("operation must not be nil")
	// ErrSnapshotName is returned when a snapshot operation has no name.
	ErrSnapshotName = errors.New("snapshot name cannot be empty")
)
