package structure

import (
	"fmt"

	"github.com/dshills/pagetree/internal/engine/rbtree"
)

// Locate returns the node that owns an edit at content offset: the node
// whose span satisfies start < offset <= start+Length, so text typed at the
// end of a span extends it. Offset 0 maps to the first node that can hold
// content. It returns the sentinel when no node qualifies.
func (t *Tree) Locate(offset int) int {
	if offset <= 0 {
		for i := t.tree.First(); i != rbtree.Sentinel; i = t.tree.Next(i) {
			if t.tree.Nodes[i].TagType != EndTag {
				return i
			}
		}
		return rbtree.Sentinel
	}

	x := t.tree.Root
	base := 0
	for x != rbtree.Sentinel {
		n := t.tree.Nodes[x]
		start := base + n.LeftCharCount
		switch {
		case offset <= start:
			x = n.Left
		case offset > start+n.Length:
			base = start + n.Length
			x = n.Right
		default:
			return x
		}
	}
	return rbtree.Sentinel
}

// Grow adds delta bytes to the span of node i.
func (t *Tree) Grow(i, delta int) error {
	if err := t.tree.CheckLive(i); err != nil {
		return fmt.Errorf("grow: %w", err)
	}
	n := t.tree.Nodes[i]
	if n.TagType == EndTag && delta != 0 {
		return fmt.Errorf("grow %s end tag %d: %w", n.Tag, i, ErrInvalidLength)
	}
	if n.Length+delta < 0 {
		return fmt.Errorf("grow node %d by %d: %w", i, delta, ErrInvalidLength)
	}
	n.Length += delta
	t.tree.Propagate(i, Metric{Chars: delta})
	return nil
}

// Shrink removes the content range [start, end) from every span it
// overlaps. It descends to the first span ending past start and walks
// forward from there.
func (t *Tree) Shrink(start, end int) {
	if start >= end {
		return
	}
	type cut struct{ index, n int }
	var cuts []cut

	i, s := t.firstEndingAfter(start)
	for ; i != rbtree.Sentinel && s < end; i = t.tree.Next(i) {
		n := t.tree.Nodes[i]
		e := s + n.Length
		if lo, hi := max(s, start), min(e, end); lo < hi {
			cuts = append(cuts, cut{i, hi - lo})
		}
		s = e
	}

	for _, c := range cuts {
		n := t.tree.Nodes[c.index]
		n.Length -= c.n
		t.tree.Propagate(c.index, Metric{Chars: -c.n})
	}
}

// firstEndingAfter returns the first node in order whose span ends past
// offset, with its content start.
func (t *Tree) firstEndingAfter(offset int) (int, int) {
	found, foundStart := rbtree.Sentinel, 0
	x := t.tree.Root
	base := 0
	for x != rbtree.Sentinel {
		n := t.tree.Nodes[x]
		start := base + n.LeftCharCount
		if start+n.Length > offset {
			found, foundStart = x, start
			x = n.Left
		} else {
			base = start + n.Length
			x = n.Right
		}
	}
	return found, foundStart
}
