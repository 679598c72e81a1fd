package content

import (
	"fmt"
	"strings"

	"github.com/dshills/pagetree/internal/engine/rbtree"
)

// Text returns the full document.
func (t *Table) Text() string {
	var sb strings.Builder
	sb.Grow(t.Len())
	t.tree.Walk(func(_ int, n *Node) bool {
		from, to := t.bounds(n)
		sb.Write(t.buffers[n.BufferIndex].content[from:to])
		return true
	})
	return sb.String()
}

// NodeContent returns the text of the live piece at arena index i.
func (t *Table) NodeContent(i int) (string, error) {
	if err := t.tree.CheckLive(i); err != nil {
		return "", fmt.Errorf("node content: %w", err)
	}
	n := t.tree.Nodes[i]
	from, to := t.bounds(n)
	return t.buffers[n.BufferIndex].Slice(from, to), nil
}

// ContentBetween returns the text in [start, end), clamped to the document.
func (t *Table) ContentBetween(start, end int) string {
	if start < 0 {
		start = 0
	}
	if l := t.Len(); end > l {
		end = l
	}
	if start >= end {
		return ""
	}

	var sb strings.Builder
	sb.Grow(end - start)
	pos := t.FindNodeAtOffset(start)
	skip := pos.Remainder
	need := end - start
	for i := pos.Index; i != rbtree.Sentinel && need > 0; i = t.tree.Next(i) {
		n := t.tree.Nodes[i]
		from, to := t.bounds(n)
		from += skip
		if to-from > need {
			to = from + need
		}
		sb.Write(t.buffers[n.BufferIndex].content[from:to])
		need -= to - from
		skip = 0
	}
	return sb.String()
}

// LineStart returns the document offset at which line (0-based) begins.
func (t *Table) LineStart(line int) (int, error) {
	if line < 0 || line > t.LineFeedCount() {
		return 0, fmt.Errorf("line %d: %w", line, ErrOffsetOutOfRange)
	}
	if line == 0 {
		return 0, nil
	}

	// Find the piece holding the line-th line break, then its position.
	x := t.tree.Root
	base := Metric{}
	for x != rbtree.Sentinel {
		n := t.tree.Nodes[x]
		before := base.Add(n.LeftMeasure())
		switch {
		case line <= before.LineFeeds && n.Left != rbtree.Sentinel:
			x = n.Left
		case line > before.LineFeeds+n.LineFeedCount:
			base = before.Add(n.Measure())
			x = n.Right
		default:
			b := t.buffers[n.BufferIndex]
			k := line - before.LineFeeds
			from, _ := t.bounds(n)
			return before.Chars + b.lineStarts[n.Start.Line+k] - from, nil
		}
	}
	return 0, fmt.Errorf("line %d: %w", line, ErrSentinelReached)
}
