package domain

import "fmt"

// MalformedRecordError marks a raw record rejected during normalization.
// It carries the record's position in the batch; the batch itself continues.
type MalformedRecordError struct {
	Position int
	Reason   string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record at position %d: %s", e.Position, e.Reason)
}

// UnconfiguredEntityError marks an entity with no theme vocabulary. Reviews
// for that entity skip classification and pass through with empty theme sets.
type UnconfiguredEntityError struct {
	EntityID string
}

func (e *UnconfiguredEntityError) Error() string {
	return fmt.Sprintf("no theme vocabulary configured for entity %s", e.EntityID)
}

// PersistenceError marks a failed batch handoff to the store. It aborts the
// batch; the computed-but-unpersisted results stay with the caller for retry.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence handoff failed: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
