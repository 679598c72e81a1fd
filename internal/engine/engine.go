package engine

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/dshills/pagetree/internal/engine/content"
	"github.com/dshills/pagetree/internal/engine/rbtree"
	"github.com/dshills/pagetree/internal/engine/structure"
)

// Re-export commonly used types for convenience.
type (
	// NewlineFormat is the line break convention of a page.
	NewlineFormat = content.NewlineFormat

	// Position is the result of a content offset lookup.
	Position = content.Position

	// TagType distinguishes start, end and self-closing tags.
	TagType = structure.TagType

	// Record describes a structure node to insert.
	Record = structure.Record

	// Element is a folded structure element.
	Element = structure.Element
)

// Re-export constants.
const (
	NewlineLF   = content.NewlineLF
	NewlineCRLF = content.NewlineCRLF

	StartTag    = structure.StartTag
	EndTag      = structure.EndTag
	StartEndTag = structure.StartEndTag

	// NoNode is the index that names no node in either tree.
	NoNode = rbtree.Sentinel
)

// ParseNewline parses "lf" or "crlf".
func ParseNewline(s string) (NewlineFormat, error) { return content.ParseNewline(s) }

// ParseTagType parses a tag type name such as "StartTag".
func ParseTagType(s string) (TagType, error) { return structure.ParseTagType(s) }

// Page is the in-memory state of one document: a piece table holding its
// text and a structure tree holding its markup, both addressed by the same
// content offsets.
//
// A Page is not safe for concurrent use. Callers serialize edits and give
// readers a Snapshot.
type Page struct {
	id        string
	content   *content.Table
	structure *structure.Tree

	maxBufferLength int
	newline         NewlineFormat

	// Initialization
	newlineSet bool
	records    []Record
	newID      structure.IDGenerator
}

// NewPage creates a page holding text. Unless WithNewline is given the
// newline format is detected from the start of the text. Structure records
// from WithStructure are loaded in order.
func NewPage(text string, opts ...Option) (*Page, error) {
	p := &Page{
		maxBufferLength: DefaultMaxBufferLength,
		newID:           structure.LocalID,
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.id == "" {
		p.id = uuid.NewString()
	}
	if !p.newlineSet {
		p.newline = content.DetectNewline(text)
	}

	p.content = content.NewTable(text, p.newline)
	p.structure = structure.NewTree(p.newID)
	for k, r := range p.records {
		r.Offset = k
		if _, err := p.structure.Insert(r); err != nil {
			return nil, fmt.Errorf("load structure record %d: %w", k, err)
		}
	}
	p.records = nil
	return p, nil
}

// ID returns the page identifier.
func (p *Page) ID() string { return p.id }

// Newline returns the page's newline format.
func (p *Page) Newline() NewlineFormat { return p.newline }

// MaxBufferLength returns the cap on edit buffers.
func (p *Page) MaxBufferLength() int { return p.maxBufferLength }

// Content returns the piece table.
func (p *Page) Content() *content.Table { return p.content }

// Structure returns the structure tree.
func (p *Page) Structure() *structure.Tree { return p.structure }

// Text returns the document text.
func (p *Page) Text() string { return p.content.Text() }

// Len returns the document length in bytes.
func (p *Page) Len() int { return p.content.Len() }

// LineCount returns the number of lines.
func (p *Page) LineCount() int { return p.content.LineFeedCount() + 1 }

// ContentBetween returns the text in [start, end), clamped to the document.
func (p *Page) ContentBetween(start, end int) string {
	return p.content.ContentBetween(start, end)
}

// FindNodeAtOffset locates the piece holding offset.
func (p *Page) FindNodeAtOffset(offset int) Position {
	return p.content.FindNodeAtOffset(offset)
}

// PreviouslyInserted returns the piece written by the last insert and the
// offset it starts at, or NoNode after a delete.
func (p *Page) PreviouslyInserted() (index, offset int) {
	return p.content.PreviouslyInserted()
}

// Elements folds the structure stream into nested elements whose text is
// resolved from the content.
func (p *Page) Elements() []*Element {
	return p.structure.Fold(p.content.ContentBetween)
}

// Snapshot returns a deep copy of the page that shares nothing with it.
func (p *Page) Snapshot() *Page {
	return &Page{
		id:              p.id,
		content:         p.content.Clone(),
		structure:       p.structure.Clone(),
		maxBufferLength: p.maxBufferLength,
		newline:         p.newline,
		newID:           p.newID,
	}
}

// Validate checks the invariants of both trees.
func (p *Page) Validate() error {
	if err := p.content.Validate(); err != nil {
		return fmt.Errorf("content tree: %w", err)
	}
	if err := p.structure.Validate(); err != nil {
		return fmt.Errorf("structure tree: %w", err)
	}
	return nil
}

// Summary describes the shape of a page.
type Summary struct {
	ID             string `json:"id"`
	Length         int    `json:"length"`
	Lines          int    `json:"lines"`
	Pieces         int    `json:"pieces"`
	Buffers        int    `json:"buffers"`
	StructureNodes int    `json:"structureNodes"`
	Newline        string `json:"newline"`
}

// Summary returns counts describing the page.
func (p *Page) Summary() Summary {
	return Summary{
		ID:             p.id,
		Length:         p.Len(),
		Lines:          p.LineCount(),
		Pieces:         len(p.content.Nodes()),
		Buffers:        len(p.content.Buffers()),
		StructureNodes: p.structure.Count(),
		Newline:        p.newline.String(),
	}
}
