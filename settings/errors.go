package settings

import "errors"

var (
	// ErrUnknownKind is returned when a document kind string is not one of the five known kinds.
	ErrUnknownKind = errors.New("unknown document kind")

	// ErrUnknownColumnOp is returned when a column operation name is not recognised.
	ErrUnknownColumnOp = errors.New("unknown column operation")

	// ErrUnknownDirection is returned by a move operation with a direction other than up/down.
	ErrUnknownDirection = errors.New("unknown move direction")
)
