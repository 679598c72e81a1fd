package content

import "sort"

// BufferCursor addresses a position inside a buffer by line and column.
type BufferCursor struct {
	Line   int
	Column int
}

// Buffer is an append-only backing store for piece text.
type Buffer struct {
	content    []byte
	readOnly   bool
	lineStarts []int
}

func newBuffer(text string, readOnly bool, nl NewlineFormat) *Buffer {
	b := &Buffer{
		content:  []byte(text),
		readOnly: readOnly,
	}
	b.lineStarts = scanLineStarts([]int{0}, text, nl, 0)
	return b
}

// Len returns the number of bytes in the buffer.
func (b *Buffer) Len() int { return len(b.content) }

// ReadOnly reports whether the buffer may be appended to.
func (b *Buffer) ReadOnly() bool { return b.readOnly }

// String returns the full buffer content.
func (b *Buffer) String() string { return string(b.content) }

// LineStarts returns the offsets at which lines begin. The slice is shared
// with the buffer and must not be modified.
func (b *Buffer) LineStarts() []int { return b.lineStarts }

// Slice returns the buffer text in [start, end).
func (b *Buffer) Slice(start, end int) string {
	return string(b.content[start:end])
}

// append adds text to the end of the buffer and records its line starts.
// The scan backs up far enough to catch a line break straddling the old end.
func (b *Buffer) append(text string, nl NewlineFormat) {
	oldLen := len(b.content)
	b.content = append(b.content, text...)

	from := oldLen - (len(nl.Sequence()) - 1)
	if from < 0 {
		from = 0
	}
	b.lineStarts = scanLineStarts(b.lineStarts, string(b.content[from:]), nl, from)
}

// line returns the index of the last line start at or before off.
func (b *Buffer) line(off int) int {
	return sort.Search(len(b.lineStarts), func(i int) bool {
		return b.lineStarts[i] > off
	}) - 1
}

// cursorAt converts a buffer offset into a cursor.
func (b *Buffer) cursorAt(off int) BufferCursor {
	l := b.line(off)
	return BufferCursor{Line: l, Column: off - b.lineStarts[l]}
}

// offsetOf converts a cursor into a buffer offset.
func (b *Buffer) offsetOf(c BufferCursor) int {
	return b.lineStarts[c.Line] + c.Column
}

// lineFeedsBetween counts line breaks completed within [start, end).
func (b *Buffer) lineFeedsBetween(start, end int) int {
	return b.line(end) - b.line(start)
}

func (b *Buffer) clone() *Buffer {
	c := &Buffer{
		content:    make([]byte, len(b.content)),
		readOnly:   b.readOnly,
		lineStarts: make([]int, len(b.lineStarts)),
	}
	copy(c.content, b.content)
	copy(c.lineStarts, b.lineStarts)
	return c
}
