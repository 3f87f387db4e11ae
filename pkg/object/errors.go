package object

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no object exists under the requested id.
	ErrNotFound = errors.New("object not found")
	// ErrTypeMismatch is returned when a stored type tag differs from the
	// type the caller expected.
	ErrTypeMismatch = errors.New("object type mismatch")
	// ErrCorrupt is returned when stored bytes cannot be decoded or no longer
	// hash to their id.
	ErrCorrupt = errors.New("corrupt object")
)

// TypeMismatchError records the stored and expected tags of a typed read.
type TypeMismatchError struct {
	Hash Hash
	Got  ObjectType
	Want ObjectType
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("object %s: type mismatch: got %q, want %q", e.Hash, e.Got, e.Want)
}

func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}
