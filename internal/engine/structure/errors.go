package structure

import "errors"

// Errors returned by structure tree operations.
var (
	ErrOrdinalOutOfRange = errors.New("ordinal out of range")
	ErrInvalidLength     = errors.New("invalid structure node length")
	ErrNotSplittable     = errors.New("structure node cannot be split")
	ErrSplitOutOfRange   = errors.New("split offset out of range")
	ErrUnmatchedTag      = errors.New("start tag has no matching end tag")
	ErrUnknownTagType    = errors.New("unknown tag type")
)
