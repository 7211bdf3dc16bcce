package reconcile

import (
	"errors"
	"fmt"
)

var (
	ErrIndexOutOfRange      = errors.New("index out of range")
	ErrInvalidSplitAmount   = errors.New("invalid split amount")
	ErrEmptyLineage         = errors.New("empty lineage")
	ErrIncompleteAssignment = errors.New("incomplete assignment")
)

// IncompleteAssignmentError names the first entry that cannot be committed.
type IncompleteAssignmentError struct {
	Index  int
	TempID string
	Field  string
}

func (e *IncompleteAssignmentError) Error() string {
	return fmt.Sprintf("entry %d (%s) has no %s", e.Index+1, e.TempID, e.Field)
}

func (e *IncompleteAssignmentError) Is(target error) bool {
	return target == ErrIncompleteAssignment
}
