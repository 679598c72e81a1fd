// Package rbtree provides an arena-backed augmented red-black tree engine.
//
// Nodes live in a flat slice and refer to each other by index. Index 0 is a
// shared sentinel that stands in for every absent parent or child; it is
// always black. Indices are stable: deleting a node detaches it from the tree
// but never removes its slot, so indices handed out earlier stay valid for
// every node still reachable from Root.
//
// The engine is parameterized over an augmentation. Each node reports its own
// contribution (Measure) and stores the aggregate of its left subtree
// (LeftMeasure). Rotations, insertion and deletion keep every left aggregate
// exact, which lets callers descend the tree by cumulative size in O(log n):
//
//	t := rbtree.New[Count, *item](&item{})
//	i := t.Append(&item{})
//	_ = t.Place(i, rbtree.Sentinel, true)
//
// The content tree aggregates character and line-feed counts; the structure
// tree aggregates node counts. Both share the rotation and fixup code here.
//
// A Tree is not safe for concurrent use.
package rbtree
