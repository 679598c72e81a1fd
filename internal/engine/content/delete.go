package content

import (
	"fmt"

	"github.com/dshills/pagetree/internal/engine/rbtree"
)

// Delete removes the half-open range [start, end). Pieces that keep a prefix
// or suffix are resliced in place; a piece that keeps both is split; pieces
// entirely inside the range are removed from the tree. The insert cache is
// cleared. An empty range is a no-op.
func (t *Table) Delete(start, end int) error {
	if start > end {
		return fmt.Errorf("delete [%d, %d): %w", start, end, ErrRangeInvalid)
	}
	if start < 0 || end > t.Len() {
		return fmt.Errorf("delete [%d, %d) of %d: %w", start, end, t.Len(), ErrOffsetOutOfRange)
	}
	if start == end {
		return nil
	}

	first := t.FindNodeAtOffset(start)
	last := t.FindNodeAtOffset(end - 1)
	if first.Index == rbtree.Sentinel || last.Index == rbtree.Sentinel {
		return fmt.Errorf("delete [%d, %d): %w", start, end, ErrSentinelReached)
	}
	t.clearCache()

	prefix := first.Remainder
	suffix := last.NodeStartOffset + last.Node.Length - end

	if first.Index == last.Index {
		return t.deleteWithin(first, prefix, end-start)
	}

	var doomed []int
	for i := t.tree.Next(first.Index); i != last.Index && i != rbtree.Sentinel; i = t.tree.Next(i) {
		doomed = append(doomed, i)
	}

	if prefix > 0 {
		from, _ := t.bounds(first.Node)
		t.reslice(first.Index, from, from+prefix)
	} else {
		doomed = append(doomed, first.Index)
	}
	if suffix > 0 {
		from, to := t.bounds(last.Node)
		t.reslice(last.Index, from+(end-last.NodeStartOffset), to)
	} else {
		doomed = append(doomed, last.Index)
	}

	for _, i := range doomed {
		if err := t.tree.Delete(i); err != nil {
			return fmt.Errorf("delete [%d, %d): %w", start, end, err)
		}
	}
	return nil
}

// deleteWithin removes n bytes from the piece at pos, starting prefix bytes
// into it.
func (t *Table) deleteWithin(pos Position, prefix, n int) error {
	from, to := t.bounds(pos.Node)
	cut := from + prefix
	resume := cut + n

	switch {
	case prefix > 0 && resume < to:
		tail := t.spanNode(pos.Node.BufferIndex, resume, to)
		t.reslice(pos.Index, from, cut)
		if _, err := t.insertNode(tail, pos.NodeStartOffset+prefix); err != nil {
			return fmt.Errorf("split node %d: %w", pos.Index, err)
		}
	case prefix > 0:
		t.reslice(pos.Index, from, cut)
	case resume < to:
		t.reslice(pos.Index, resume, to)
	default:
		if err := t.tree.Delete(pos.Index); err != nil {
			return fmt.Errorf("delete node %d: %w", pos.Index, err)
		}
	}
	return nil
}
