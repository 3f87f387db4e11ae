package repo

import (
	"errors"

	"github.com/odvcencio/ugit/pkg/object"
)

var (
	// ErrInvalidName is returned for a human-supplied name that is neither a
	// resolvable ref nor a well-formed object id, and for malformed ref names.
	ErrInvalidName = errors.New("invalid name")
	// ErrPrecondition is returned when an operation is asked to do something
	// it never does, such as persisting a symbolic value through UpdateRef.
	ErrPrecondition = errors.New("precondition violation")
	// ErrCorruption is returned when repository state cannot be interpreted:
	// malformed ref files, symbolic ref cycles, commit cycles.
	ErrCorruption = errors.New("repository corruption")
)

// ErrorKind is the closed set of failure classes an operation can end in.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindIO
	KindNotFound
	KindCorruption
	KindInvalidName
	KindPrecondition
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindIO:
		return "io"
	case KindNotFound:
		return "not found"
	case KindCorruption:
		return "corruption"
	case KindInvalidName:
		return "invalid name"
	case KindPrecondition:
		return "precondition violation"
	default:
		return "unknown"
	}
}

// Kind classifies err. Errors that carry none of the known sentinels are
// reported as KindIO.
func Kind(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, object.ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrCorruption),
		errors.Is(err, object.ErrCorrupt),
		errors.Is(err, object.ErrTypeMismatch):
		return KindCorruption
	case errors.Is(err, ErrInvalidName):
		return KindInvalidName
	case errors.Is(err, ErrPrecondition):
		return KindPrecondition
	default:
		return KindIO
	}
}
