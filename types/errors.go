package types

import (
	"gopkg.in/src-d/go-errors.v1"
)

var (
	// ErrNotFound is returned when a descriptor pool has no message or enum
	// with the requested full name.
	ErrNotFound = errors.NewKind("types: %s %q not found in descriptor pool")

	// ErrInvalidRecord is returned when a serialized type record cannot be
	// rehydrated.
	ErrInvalidRecord = errors.NewKind("types: invalid type record: %s")

	// ErrPoolIndex is returned when a type record references a descriptor
	// pool index that was not supplied at deserialization time.
	ErrPoolIndex = errors.NewKind("types: descriptor pool index %d out of range (%d pools supplied)")

	// ErrValue is returned when a value literal cannot be parsed as the
	// requested type.
	ErrValue = errors.NewKind("types: cannot decode %q as %s")
)
