package content

import (
	"errors"
	"strings"
	"testing"

	"github.com/dshills/pagetree/internal/engine/rbtree"
)

func mustValidate(t *testing.T, tb *Table) {
	t.Helper()
	if err := tb.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
}

func TestDetectNewline(t *testing.T) {
	tests := []struct {
		name string
		text string
		want NewlineFormat
	}{
		{"empty", "", NewlineLF},
		{"no newline", "hello", NewlineLF},
		{"lf", "a\nb", NewlineLF},
		{"crlf", "a\r\nb", NewlineCRLF},
		{"crlf past window", strings.Repeat("x", 120) + "\r\n", NewlineLF},
		{"crlf at window edge", strings.Repeat("x", 98) + "\r\n", NewlineCRLF},
		{"crlf straddling window", strings.Repeat("x", 99) + "\r\n", NewlineCRLF},
		{"first break lf", "a\nb\r\n", NewlineLF},
		{"first break crlf", "a\r\nb\n", NewlineCRLF},
		{"lone cr skipped", "a\rb\r\n", NewlineCRLF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectNewline(tt.text); got != tt.want {
				t.Errorf("DetectNewline() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseNewline(t *testing.T) {
	for in, want := range map[string]NewlineFormat{"": NewlineLF, "LF": NewlineLF, "crlf": NewlineCRLF, " CRLF ": NewlineCRLF} {
		got, err := ParseNewline(in)
		if err != nil || got != want {
			t.Errorf("ParseNewline(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseNewline("cr"); !errors.Is(err, ErrUnknownNewline) {
		t.Errorf("ParseNewline(cr) error = %v, want ErrUnknownNewline", err)
	}
}

func TestBufferLineStarts(t *testing.T) {
	tests := []struct {
		name string
		text string
		nl   NewlineFormat
		want []int
	}{
		{"empty", "", NewlineLF, []int{0}},
		{"single line", "abc", NewlineLF, []int{0}},
		{"two lines", "abc\ndef", NewlineLF, []int{0, 4}},
		{"trailing newline", "abc\n", NewlineLF, []int{0, 4}},
		{"crlf", "a\r\nb\r\n", NewlineCRLF, []int{0, 3, 6}},
		{"bare lf under crlf", "a\nb\r\nc", NewlineCRLF, []int{0, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBuffer(tt.text, true, tt.nl)
			if got := b.LineStarts(); !equalInts(got, tt.want) {
				t.Errorf("LineStarts() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBufferAppend(t *testing.T) {
	b := newBuffer("ab\r", false, NewlineCRLF)
	b.append("\ncd\r\n", NewlineCRLF)
	if got, want := b.LineStarts(), []int{0, 4, 8}; !equalInts(got, want) {
		t.Errorf("LineStarts() = %v, want %v", got, want)
	}

	lf := newBuffer("x\n", false, NewlineLF)
	lf.append("y\nz", NewlineLF)
	if got, want := lf.LineStarts(), []int{0, 2, 4}; !equalInts(got, want) {
		t.Errorf("LineStarts() = %v, want %v", got, want)
	}
	if got := lf.cursorAt(4); got != (BufferCursor{Line: 2, Column: 0}) {
		t.Errorf("cursorAt(4) = %+v", got)
	}
	if got := lf.cursorAt(3); got != (BufferCursor{Line: 1, Column: 1}) {
		t.Errorf("cursorAt(3) = %+v", got)
	}
	if got := lf.lineFeedsBetween(1, 4); got != 2 {
		t.Errorf("lineFeedsBetween(1, 4) = %d, want 2", got)
	}
}

func TestNewTable(t *testing.T) {
	tb := NewTable("abc\ndef", NewlineLF)
	mustValidate(t, tb)

	if tb.Len() != 7 {
		t.Errorf("Len() = %d, want 7", tb.Len())
	}
	if tb.LineFeedCount() != 1 {
		t.Errorf("LineFeedCount() = %d, want 1", tb.LineFeedCount())
	}
	if got := tb.Buffers()[0].LineStarts(); !equalInts(got, []int{0, 4}) {
		t.Errorf("lineStarts = %v, want [0 4]", got)
	}
	if !tb.Buffers()[0].ReadOnly() {
		t.Error("buffer 0 should be read-only")
	}
	nodes := tb.Nodes()
	if len(nodes) != 1 {
		t.Fatalf("Nodes() = %v, want one node", nodes)
	}
	n := tb.Tree().Node(nodes[0])
	if n.Color != rbtree.Black || n.Length != 7 || n.LineFeedCount != 1 {
		t.Errorf("root node = %+v", n)
	}
	if idx, _ := tb.PreviouslyInserted(); idx != rbtree.Sentinel {
		t.Errorf("fresh table cache = %d, want sentinel", idx)
	}

	empty := NewTable("", NewlineLF)
	mustValidate(t, empty)
	if !empty.Tree().Empty() || empty.Text() != "" {
		t.Error("empty table should have no pieces")
	}
}

func TestFindNodeAtOffset(t *testing.T) {
	// Three pieces: "abc" | "XY" | "\ndef"
	tb := NewTable("abc\ndef", NewlineLF)
	if err := tb.Insert(3, "XY", 0); err != nil {
		t.Fatal(err)
	}
	mustValidate(t, tb)

	tests := []struct {
		name      string
		offset    int
		wantStart int
		wantRem   int
		wantText  string
	}{
		{"document start", 0, 0, 0, "abc"},
		{"inside first", 2, 0, 2, "abc"},
		{"boundary resolves to next", 3, 3, 0, "XY"},
		{"inside middle", 4, 3, 1, "XY"},
		{"second boundary", 5, 5, 0, "\ndef"},
		{"document end", 9, 5, 4, "\ndef"},
		{"past end", 12, 5, 7, "\ndef"},
		{"negative", -2, 0, -2, "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := tb.FindNodeAtOffset(tt.offset)
			if pos.NodeStartOffset != tt.wantStart || pos.Remainder != tt.wantRem {
				t.Errorf("position = start %d rem %d, want start %d rem %d",
					pos.NodeStartOffset, pos.Remainder, tt.wantStart, tt.wantRem)
			}
			if pos.Offset() != tt.offset {
				t.Errorf("Offset() = %d, want %d", pos.Offset(), tt.offset)
			}
			got, err := tb.NodeContent(pos.Index)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.wantText {
				t.Errorf("node content = %q, want %q", got, tt.wantText)
			}
		})
	}

	if p := tb.FindNodeAtOffset(12); p.InRange() {
		t.Error("over-range position should not be InRange")
	}
	if p := NewTable("", NewlineLF).FindNodeAtOffset(0); p.Index != rbtree.Sentinel {
		t.Errorf("empty table lookup index = %d, want sentinel", p.Index)
	}
}

func TestContentBetween(t *testing.T) {
	tb := NewTable("hello world", NewlineLF)
	if err := tb.Insert(5, ",", 0); err != nil {
		t.Fatal(err)
	}
	if err := tb.Insert(0, ">> ", 0); err != nil {
		t.Fatal(err)
	}
	// ">> hello, world"
	tests := []struct {
		start, end int
		want       string
	}{
		{0, 3, ">> "},
		{2, 9, " hello,"},
		{8, 15, ", world"},
		{-5, 2, ">>"},
		{10, 99, "world"},
		{6, 6, ""},
		{9, 4, ""},
	}
	for _, tt := range tests {
		if got := tb.ContentBetween(tt.start, tt.end); got != tt.want {
			t.Errorf("ContentBetween(%d, %d) = %q, want %q", tt.start, tt.end, got, tt.want)
		}
	}
}

func TestLineStart(t *testing.T) {
	tb := NewTable("one\ntwo\nthree", NewlineLF)
	if err := tb.Insert(4, "zero\n", 0); err != nil {
		t.Fatal(err)
	}
	// "one\nzero\ntwo\nthree"
	want := []int{0, 4, 9, 13}
	for line, off := range want {
		got, err := tb.LineStart(line)
		if err != nil {
			t.Fatalf("LineStart(%d) error = %v", line, err)
		}
		if got != off {
			t.Errorf("LineStart(%d) = %d, want %d", line, got, off)
		}
	}
	if _, err := tb.LineStart(4); !errors.Is(err, ErrOffsetOutOfRange) {
		t.Errorf("LineStart(4) error = %v, want ErrOffsetOutOfRange", err)
	}
}

func TestClone(t *testing.T) {
	tb := NewTable("abc", NewlineLF)
	if err := tb.Insert(3, "def", 0); err != nil {
		t.Fatal(err)
	}
	c := tb.Clone()
	if err := tb.Insert(6, "ghi", 0); err != nil {
		t.Fatal(err)
	}
	if err := tb.Delete(0, 2); err != nil {
		t.Fatal(err)
	}
	if got := c.Text(); got != "abcdef" {
		t.Errorf("clone Text() = %q, want %q", got, "abcdef")
	}
	mustValidate(t, c)
	if got := tb.Text(); got != "cdefghi" {
		t.Errorf("Text() = %q, want %q", got, "cdefghi")
	}
}

func TestValidateDetectsBadSpan(t *testing.T) {
	tb := NewTable("abc\ndef", NewlineLF)
	n := tb.Tree().Node(tb.Nodes()[0])
	n.LineFeedCount = 0
	if err := tb.Validate(); !errors.Is(err, ErrCorrupt) && !errors.Is(err, rbtree.ErrInvariant) {
		t.Errorf("Validate() = %v, want corruption error", err)
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
