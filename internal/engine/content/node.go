package content

import "github.com/dshills/pagetree/internal/engine/rbtree"

// Metric is the content tree aggregate.
type Metric struct {
	Chars     int
	LineFeeds int
}

// Add returns m + o.
func (m Metric) Add(o Metric) Metric {
	return Metric{Chars: m.Chars + o.Chars, LineFeeds: m.LineFeeds + o.LineFeeds}
}

// Sub returns m - o.
func (m Metric) Sub(o Metric) Metric {
	return Metric{Chars: m.Chars - o.Chars, LineFeeds: m.LineFeeds - o.LineFeeds}
}

// Node is a piece: a slice of one buffer between two cursors.
type Node struct {
	rbtree.Links

	BufferIndex int
	Start       BufferCursor
	End         BufferCursor

	// Length is the byte length of the slice.
	Length int
	// LineFeedCount is the number of line breaks inside the slice.
	LineFeedCount int

	LeftCharCount     int
	LeftLineFeedCount int
}

// TreeLinks returns the node's tree links.
func (n *Node) TreeLinks() *rbtree.Links { return &n.Links }

// Measure returns the node's own characters and line feeds.
func (n *Node) Measure() Metric {
	return Metric{Chars: n.Length, LineFeeds: n.LineFeedCount}
}

// LeftMeasure returns the stored aggregate of the left subtree.
func (n *Node) LeftMeasure() Metric {
	return Metric{Chars: n.LeftCharCount, LineFeeds: n.LeftLineFeedCount}
}

// SetLeftMeasure stores the aggregate of the left subtree.
func (n *Node) SetLeftMeasure(m Metric) {
	n.LeftCharCount = m.Chars
	n.LeftLineFeedCount = m.LineFeeds
}

func copyNode(n *Node) *Node {
	c := *n
	return &c
}

// Position is the result of an offset lookup.
type Position struct {
	// Node is the piece containing the offset, or the sentinel.
	Node *Node
	// Index is the arena index of Node.
	Index int
	// NodeStartOffset is the document offset at which Node begins.
	NodeStartOffset int
	// Remainder is the offset relative to NodeStartOffset. It lies outside
	// [0, Node.Length] when the requested offset was out of range.
	Remainder int
}

// Offset returns the absolute document offset the position refers to.
func (p Position) Offset() int {
	return p.NodeStartOffset + p.Remainder
}

// InRange reports whether the remainder falls within the node.
func (p Position) InRange() bool {
	return p.Index != rbtree.Sentinel && p.Remainder >= 0 && p.Remainder <= p.Node.Length
}
