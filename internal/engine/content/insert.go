package content

import (
	"fmt"

	"github.com/dshills/pagetree/internal/engine/rbtree"
)

// Insert writes text at offset. Consecutive inserts that continue the piece
// written by the previous insert extend that piece in place. Otherwise the
// piece containing offset is split if needed and a new piece is linked in,
// backed by the last buffer when it is writable and has room for text within
// maxBufferLength, or by a fresh buffer. Buffer 0 is never written.
//
// A non-positive maxBufferLength selects DefaultMaxBufferLength.
func (t *Table) Insert(offset int, text string, maxBufferLength int) error {
	if offset < 0 || offset > t.Len() {
		return fmt.Errorf("insert at %d of %d: %w", offset, t.Len(), ErrOffsetOutOfRange)
	}
	if text == "" {
		return nil
	}
	if maxBufferLength <= 0 {
		maxBufferLength = DefaultMaxBufferLength
	}

	if t.extendPrevious(offset, text, maxBufferLength) {
		return nil
	}

	if !t.tree.Empty() {
		pos := t.FindNodeAtOffset(offset)
		if pos.Remainder > 0 && pos.Remainder < pos.Node.Length {
			if err := t.splitAt(pos); err != nil {
				return err
			}
		}
	}
	return t.insertAtBoundary(offset, text, maxBufferLength)
}

// extendPrevious appends text to the cached piece when offset is its end
// and the piece ends at the end of the last, writable buffer.
func (t *Table) extendPrevious(offset int, text string, maxBufferLength int) bool {
	i := t.prevIndex
	if i == rbtree.Sentinel || !t.tree.IsLive(i) {
		return false
	}
	n := t.tree.Nodes[i]
	if offset != t.prevOffset+n.Length {
		return false
	}
	last := len(t.buffers) - 1
	b := t.buffers[last]
	if n.BufferIndex != last || b.readOnly {
		return false
	}
	if _, to := t.bounds(n); to != b.Len() {
		return false
	}
	if b.Len()+len(text) > maxBufferLength {
		return false
	}

	b.append(text, t.newline)
	end := b.cursorAt(b.Len())
	delta := Metric{Chars: len(text), LineFeeds: end.Line - n.End.Line}
	n.End = end
	n.Length += delta.Chars
	n.LineFeedCount += delta.LineFeeds
	t.tree.Propagate(i, delta)
	return true
}

// splitAt truncates the piece at pos to its first Remainder bytes and links
// the rest in as a new piece right after it.
func (t *Table) splitAt(pos Position) error {
	from, to := t.bounds(pos.Node)
	mid := from + pos.Remainder
	tail := t.spanNode(pos.Node.BufferIndex, mid, to)
	t.reslice(pos.Index, from, mid)
	if _, err := t.insertNode(tail, pos.Offset()); err != nil {
		return fmt.Errorf("split node %d: %w", pos.Index, err)
	}
	return nil
}

// insertAtBoundary creates a piece for text and links it in at offset, which
// must not fall strictly inside an existing piece.
func (t *Table) insertAtBoundary(offset int, text string, maxBufferLength int) error {
	last := len(t.buffers) - 1
	b := t.buffers[last]

	var n *Node
	if !b.readOnly && b.Len()+len(text) <= maxBufferLength {
		from := b.Len()
		b.append(text, t.newline)
		n = t.spanNode(last, from, b.Len())
	} else {
		t.buffers = append(t.buffers, newBuffer(text, false, t.newline))
		n = t.spanNode(last+1, 0, len(text))
	}

	i, err := t.insertNode(n, offset)
	if err != nil {
		return err
	}
	t.prevIndex = i
	t.prevOffset = offset
	return nil
}
