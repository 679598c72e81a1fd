package engine

import (
	"errors"

	"github.com/dshills/pagetree/internal/engine/content"
	"github.com/dshills/pagetree/internal/engine/structure"
)

// Errors returned by page operations. Errors from the content and structure
// trees are re-exported so callers can match them through this package.
var (
	// ErrOffsetOutOfRange indicates an offset outside the document.
	ErrOffsetOutOfRange = content.ErrOffsetOutOfRange

	// ErrRangeInvalid indicates a range whose start is after its end.
	ErrRangeInvalid = content.ErrRangeInvalid

	// ErrStructureIndex indicates a structure node index that does not name
	// a live node able to own content.
	ErrStructureIndex = errors.New("invalid structure node index")

	// ErrNotSplittable indicates a split of an end tag.
	ErrNotSplittable = structure.ErrNotSplittable

	// ErrSplitOutOfRange indicates a split point outside the node's span.
	ErrSplitOutOfRange = structure.ErrSplitOutOfRange

	// ErrUnmatchedTag indicates a start tag without an end tag.
	ErrUnmatchedTag = structure.ErrUnmatchedTag

	// ErrOrdinalOutOfRange indicates a structure ordinal outside [0, n].
	ErrOrdinalOutOfRange = structure.ErrOrdinalOutOfRange
)
