package engine

import (
	"github.com/dshills/pagetree/internal/engine/content"
	"github.com/dshills/pagetree/internal/engine/structure"
)

// DefaultMaxBufferLength is the default cap on a single edit buffer.
const DefaultMaxBufferLength = content.DefaultMaxBufferLength

// Option configures a Page during creation.
type Option func(*Page)

// WithID sets the page identifier.
func WithID(id string) Option {
	return func(p *Page) {
		p.id = id
	}
}

// WithMaxBufferLength sets the maximum length of an edit buffer.
func WithMaxBufferLength(n int) Option {
	return func(p *Page) {
		if n > 0 {
			p.maxBufferLength = n
		}
	}
}

// WithNewline forces the newline format instead of detecting it.
func WithNewline(nl NewlineFormat) Option {
	return func(p *Page) {
		p.newline = nl
		p.newlineSet = true
	}
}

// WithStructure loads structure records in order. Each record's Offset is
// ignored and replaced by its position in the slice.
func WithStructure(records []Record) Option {
	return func(p *Page) {
		p.records = append(p.records, records...)
	}
}

// WithIDGenerator sets the generator used for ids of split structure nodes.
func WithIDGenerator(gen structure.IDGenerator) Option {
	return func(p *Page) {
		if gen != nil {
			p.newID = gen
		}
	}
}
