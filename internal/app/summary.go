package app

import (
	"fmt"

	"github.com/tidwall/sjson"

	"github.com/dshills/pagetree/internal/engine"
	"github.com/dshills/pagetree/internal/engine/content"
)

// SummaryOptions selects the optional parts of a JSON summary.
type SummaryOptions struct {
	Text     bool // include the full document text
	Pieces   bool // include the piece list in document order
	Elements bool // include the folded structure elements
}

// SummaryJSON encodes the shape of a page as a JSON object.
func SummaryJSON(p *engine.Page, opts SummaryOptions) ([]byte, error) {
	s := p.Summary()
	out := []byte(`{}`)

	fields := []struct {
		path  string
		value any
	}{
		{"id", s.ID},
		{"length", s.Length},
		{"lines", s.Lines},
		{"pieces", s.Pieces},
		{"buffers", s.Buffers},
		{"structureNodes", s.StructureNodes},
		{"newline", s.Newline},
	}
	var err error
	for _, f := range fields {
		if out, err = sjson.SetBytes(out, f.path, f.value); err != nil {
			return nil, fmt.Errorf("summary %s: %w", f.path, err)
		}
	}

	if opts.Text {
		if out, err = sjson.SetBytes(out, "text", p.Text()); err != nil {
			return nil, fmt.Errorf("summary text: %w", err)
		}
	}
	if opts.Pieces {
		if out, err = sjson.SetRawBytes(out, "pieceList", []byte(`[]`)); err != nil {
			return nil, fmt.Errorf("summary pieces: %w", err)
		}
		tree := p.Content().Tree()
		tree.Walk(func(i int, n *content.Node) bool {
			start := tree.Offset(i).Chars
			piece := map[string]int{
				"index":     i,
				"buffer":    n.BufferIndex,
				"start":     start,
				"length":    n.Length,
				"lineFeeds": n.LineFeedCount,
			}
			out, err = sjson.SetBytes(out, "pieceList.-1", piece)
			return err == nil
		})
		if err != nil {
			return nil, fmt.Errorf("summary pieces: %w", err)
		}
	}
	if opts.Elements {
		elems := p.Elements()
		if elems == nil {
			elems = []*engine.Element{}
		}
		if out, err = sjson.SetBytes(out, "elements", elems); err != nil {
			return nil, fmt.Errorf("summary elements: %w", err)
		}
	}
	return out, nil
}

// StoreSummaryJSON encodes every loaded page under its id.
func StoreSummaryJSON(s *Store, opts SummaryOptions) ([]byte, error) {
	out := []byte(`{"pages":[]}`)
	for _, id := range s.IDs() {
		snap, err := s.Snapshot(id)
		if err != nil {
			// Unloaded concurrently.
			continue
		}
		page, err := SummaryJSON(snap, opts)
		if err != nil {
			return nil, err
		}
		if out, err = sjson.SetRawBytes(out, "pages.-1", page); err != nil {
			return nil, fmt.Errorf("summary page %s: %w", id, err)
		}
	}
	return out, nil
}
