package engine

import (
	"strings"
	"testing"
)

// ============================================================================
// Setup Helpers
// ============================================================================

func setupLargePage(b *testing.B, paragraphs int) *Page {
	b.Helper()
	line := strings.Repeat("x", 80) + "\n"
	records := make([]Record, 0, 2*paragraphs)
	for i := 0; i < paragraphs; i++ {
		records = append(records,
			Record{Tag: "p", TagType: StartTag, Length: len(line)},
			Record{Tag: "p", TagType: EndTag},
		)
	}
	p, err := NewPage(strings.Repeat(line, paragraphs), WithStructure(records))
	if err != nil {
		b.Fatal(err)
	}
	return p
}

// ============================================================================
// Benchmarks
// ============================================================================

func BenchmarkPageTyping(b *testing.B) {
	p := setupLargePage(b, 5000)
	off := p.Len() / 2
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = p.Insert(off+i, "a", NoNode)
	}
}

func BenchmarkPageBreakParagraph(b *testing.B) {
	p := setupLargePage(b, 5000)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = p.BreakParagraph((i*7919)%p.Len(), NoNode)
	}
}

func BenchmarkPageSnapshot(b *testing.B) {
	p := setupLargePage(b, 5000)
	for i := 0; i < 500; i++ {
		_ = p.Insert((i*7919)%p.Len(), "ab", NoNode)
	}
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = p.Snapshot()
	}
}
