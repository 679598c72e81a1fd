package content

import (
	"fmt"

	"github.com/dshills/pagetree/internal/engine/rbtree"
)

// DefaultMaxBufferLength caps how large a single edit buffer may grow.
const DefaultMaxBufferLength = 65535

// Tree is the red-black tree holding the pieces.
type Tree = rbtree.Tree[Metric, *Node]

// Table is a piece table over a set of append-only buffers.
type Table struct {
	buffers []*Buffer
	tree    *Tree
	newline NewlineFormat

	// prevIndex and prevOffset remember the piece written by the last insert
	// and the document offset at which it starts.
	prevIndex  int
	prevOffset int
}

// NewTable creates a table holding text. Buffer 0 is the read-only original
// and, unless text is empty, a single black piece spans all of it.
func NewTable(text string, nl NewlineFormat) *Table {
	t := &Table{
		buffers:   []*Buffer{newBuffer(text, true, nl)},
		tree:      rbtree.New[Metric, *Node](&Node{}),
		newline:   nl,
		prevIndex: rbtree.Sentinel,
	}
	if text == "" {
		return t
	}

	b := t.buffers[0]
	n := t.spanNode(0, 0, b.Len())
	i := t.tree.Append(n)
	// Placing the first node cannot fail.
	_ = t.tree.Place(i, rbtree.Sentinel, true)
	return t
}

// Newline returns the newline format used for line accounting.
func (t *Table) Newline() NewlineFormat { return t.newline }

// Len returns the document length in bytes.
func (t *Table) Len() int { return t.tree.Total(t.tree.Root).Chars }

// LineFeedCount returns the number of line breaks in the document.
func (t *Table) LineFeedCount() int { return t.tree.Total(t.tree.Root).LineFeeds }

// Tree exposes the underlying tree for inspection.
func (t *Table) Tree() *Tree { return t.tree }

// Buffers returns the backing buffers. The slice must not be modified.
func (t *Table) Buffers() []*Buffer { return t.buffers }

// Nodes returns the arena indices of the pieces in document order.
func (t *Table) Nodes() []int { return t.tree.Indices() }

// PreviouslyInserted returns the piece written by the most recent insert and
// the document offset it starts at. The index is rbtree.Sentinel when there
// is none.
func (t *Table) PreviouslyInserted() (index, offset int) {
	return t.prevIndex, t.prevOffset
}

func (t *Table) clearCache() {
	t.prevIndex = rbtree.Sentinel
	t.prevOffset = 0
}

// FindNodeAtOffset returns the piece containing offset. An offset on a piece
// boundary resolves to the piece starting there, except at the document end
// where it resolves to the last piece with Remainder equal to its Length.
// Offsets outside the document resolve to the first or last piece with a
// negative or overflowing Remainder. An empty table yields the sentinel.
func (t *Table) FindNodeAtOffset(offset int) Position {
	x := t.tree.Root
	if x == rbtree.Sentinel {
		return Position{Node: t.tree.Nodes[rbtree.Sentinel], Index: rbtree.Sentinel, Remainder: offset}
	}

	base := 0
	for {
		n := t.tree.Nodes[x]
		start := base + n.LeftCharCount
		switch {
		case offset < start && n.Left != rbtree.Sentinel:
			x = n.Left
		case offset >= start+n.Length && n.Right != rbtree.Sentinel:
			base = start + n.Length
			x = n.Right
		default:
			return Position{Node: n, Index: x, NodeStartOffset: start, Remainder: offset - start}
		}
	}
}

// spanNode builds a detached piece covering [from, to) of buffer bi.
func (t *Table) spanNode(bi, from, to int) *Node {
	b := t.buffers[bi]
	start, end := b.cursorAt(from), b.cursorAt(to)
	return &Node{
		BufferIndex:   bi,
		Start:         start,
		End:           end,
		Length:        to - from,
		LineFeedCount: end.Line - start.Line,
	}
}

// bounds returns the buffer offsets a piece covers.
func (t *Table) bounds(n *Node) (from, to int) {
	b := t.buffers[n.BufferIndex]
	return b.offsetOf(n.Start), b.offsetOf(n.End)
}

// reslice points live piece i at [from, to) of its buffer and propagates the
// change in its measure to its ancestors.
func (t *Table) reslice(i, from, to int) {
	n := t.tree.Nodes[i]
	old := n.Measure()
	s := t.spanNode(n.BufferIndex, from, to)
	n.Start, n.End = s.Start, s.End
	n.Length, n.LineFeedCount = s.Length, s.LineFeedCount
	t.tree.Propagate(i, n.Measure().Sub(old))
}

// insertNode links the detached piece n into the tree so that it starts at
// document offset. It returns the arena index of n.
func (t *Table) insertNode(n *Node, offset int) (int, error) {
	parent, left := rbtree.Sentinel, true
	x := t.tree.Root
	base := 0
	for x != rbtree.Sentinel {
		parent = x
		cur := t.tree.Nodes[x]
		start := base + cur.LeftCharCount
		switch {
		case offset <= start:
			left = true
			x = cur.Left
		case offset >= start+cur.Length:
			left = false
			base = start + cur.Length
			x = cur.Right
		default:
			return rbtree.Sentinel, fmt.Errorf("insert piece at %d inside node %d: %w", offset, x, ErrInsertInsideNode)
		}
	}

	i := t.tree.Append(n)
	if err := t.tree.Place(i, parent, left); err != nil {
		return rbtree.Sentinel, fmt.Errorf("insert piece at %d: %w", offset, err)
	}
	return i, nil
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	c := &Table{
		buffers:    make([]*Buffer, len(t.buffers)),
		tree:       t.tree.Clone(copyNode),
		newline:    t.newline,
		prevIndex:  t.prevIndex,
		prevOffset: t.prevOffset,
	}
	for i, b := range t.buffers {
		c.buffers[i] = b.clone()
	}
	return c
}

// Validate checks the tree invariants and that every piece agrees with its
// buffer.
func (t *Table) Validate() error {
	if err := t.tree.Validate(); err != nil {
		return err
	}
	if len(t.buffers) == 0 || !t.buffers[0].readOnly {
		return fmt.Errorf("buffer 0 must be read-only: %w", ErrCorrupt)
	}

	var err error
	t.tree.Walk(func(i int, n *Node) bool {
		if n.BufferIndex < 0 || n.BufferIndex >= len(t.buffers) {
			err = fmt.Errorf("node %d references buffer %d: %w", i, n.BufferIndex, ErrCorrupt)
			return false
		}
		b := t.buffers[n.BufferIndex]
		if n.Start.Line >= len(b.lineStarts) || n.End.Line >= len(b.lineStarts) {
			err = fmt.Errorf("node %d cursor past last line: %w", i, ErrCorrupt)
			return false
		}
		from, to := t.bounds(n)
		switch {
		case from < 0 || to > b.Len() || from > to:
			err = fmt.Errorf("node %d spans [%d, %d) of a %d byte buffer: %w", i, from, to, b.Len(), ErrCorrupt)
		case n.Length != to-from:
			err = fmt.Errorf("node %d length %d, span %d: %w", i, n.Length, to-from, ErrCorrupt)
		case n.Length == 0:
			err = fmt.Errorf("node %d is empty: %w", i, ErrCorrupt)
		case n.LineFeedCount != b.lineFeedsBetween(from, to):
			err = fmt.Errorf("node %d line feeds %d, want %d: %w", i, n.LineFeedCount, b.lineFeedsBetween(from, to), ErrCorrupt)
		}
		return err == nil
	})
	if err != nil {
		return err
	}

	if t.prevIndex != rbtree.Sentinel {
		if !t.tree.IsLive(t.prevIndex) {
			return fmt.Errorf("cached node %d is detached: %w", t.prevIndex, ErrCorrupt)
		}
		if got := t.tree.Offset(t.prevIndex).Chars; got != t.prevOffset {
			return fmt.Errorf("cached node %d starts at %d, cache says %d: %w", t.prevIndex, got, t.prevOffset, ErrCorrupt)
		}
	}
	return nil
}
