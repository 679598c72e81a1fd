package rbtree

import "errors"

// Errors returned by tree operations. They indicate a caller or internal
// logic defect and are never recovered from inside the engine.
var (
	// ErrNodeIndex indicates an index outside the arena or the sentinel.
	ErrNodeIndex = errors.New("node index out of range")

	// ErrDetachedNode indicates a node that is not reachable from the root.
	ErrDetachedNode = errors.New("node is detached")

	// ErrNoRotationChild indicates a rotation whose pivot child is absent.
	ErrNoRotationChild = errors.New("rotation requires a child")

	// ErrSlotOccupied indicates an attempt to attach under a taken child slot.
	ErrSlotOccupied = errors.New("child slot already occupied")

	// ErrInvariant indicates a red-black or augmentation invariant violation.
	ErrInvariant = errors.New("tree invariant violated")
)
