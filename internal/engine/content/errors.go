package content

import "errors"

// Errors returned by piece table operations.
var (
	// ErrOffsetOutOfRange indicates an offset outside [0, Len()].
	ErrOffsetOutOfRange = errors.New("offset out of range")

	// ErrRangeInvalid indicates a range whose start is after its end.
	ErrRangeInvalid = errors.New("invalid range")

	// ErrInsertInsideNode indicates a tree insertion that landed strictly
	// inside an existing piece. The piece must be split first.
	ErrInsertInsideNode = errors.New("insertion point inside existing node")

	// ErrSentinelReached indicates a lookup that needed a node but found none.
	ErrSentinelReached = errors.New("sentinel reached")

	// ErrUnknownNewline indicates an unrecognized newline format name.
	ErrUnknownNewline = errors.New("unknown newline format")

	// ErrCorrupt indicates a piece whose span disagrees with its buffer.
	ErrCorrupt = errors.New("piece table corrupt")
)
