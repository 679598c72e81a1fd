package engine

import (
	"fmt"

	"github.com/dshills/pagetree/internal/engine/structure"
)

// ============================================================================
// Editing actions
// ============================================================================

// Insert writes text at offset. The structure node owning the insertion
// point grows by len(text); pass NoNode to let the page locate it from the
// offset. Nothing changes if the request is rejected.
func (p *Page) Insert(offset int, text string, structureNodeIndex int) error {
	if err := p.checkOffset(offset); err != nil {
		return fmt.Errorf("insert: %w", err)
	}
	owner, err := p.owner(offset, structureNodeIndex)
	if err != nil {
		return fmt.Errorf("insert: %w", err)
	}
	return p.insert(offset, text, owner)
}

func (p *Page) insert(offset int, text string, owner int) error {
	if err := p.content.Insert(offset, text, p.maxBufferLength); err != nil {
		return fmt.Errorf("insert: %w", err)
	}
	if owner != NoNode && text != "" {
		if err := p.structure.Grow(owner, len(text)); err != nil {
			return fmt.Errorf("insert: %w", err)
		}
	}
	return nil
}

// Delete removes [start, end) from the content and from every structure
// span it overlaps. The insert cache is cleared.
func (p *Page) Delete(start, end int) error {
	if err := p.checkRange(start, end); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	if err := p.content.Delete(start, end); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	p.structure.Shrink(start, end)
	return nil
}

// Replace deletes [start, end) and inserts text at start.
func (p *Page) Replace(start, end int, text string, structureNodeIndex int) error {
	if err := p.checkRange(start, end); err != nil {
		return fmt.Errorf("replace: %w", err)
	}
	if structureNodeIndex != NoNode {
		if err := p.checkOwnerSpan(structureNodeIndex, start, start, end); err != nil {
			return fmt.Errorf("replace: %w", err)
		}
	}
	if err := p.Delete(start, end); err != nil {
		return fmt.Errorf("replace: %w", err)
	}
	owner, err := p.owner(start, structureNodeIndex)
	if err != nil {
		return fmt.Errorf("replace: %w", err)
	}
	return p.insert(start, text, owner)
}

// SplitStructure divides a structure node at localContentOffset bytes into
// its span and returns the index of the new node.
func (p *Page) SplitStructure(nodeIndex, nodeContentOffset, localContentOffset int) (int, error) {
	i, err := p.structure.Split(nodeIndex, nodeContentOffset, localContentOffset)
	if err != nil {
		return NoNode, fmt.Errorf("split structure: %w", err)
	}
	return i, nil
}

// InsertStructure adds a structure node at ordinal r.Offset.
func (p *Page) InsertStructure(r Record) (int, error) {
	i, err := p.structure.Insert(r)
	if err != nil {
		return NoNode, fmt.Errorf("insert structure: %w", err)
	}
	return i, nil
}

// BreakParagraph inserts a line break at offset and splits the structure
// node owning it so the break ends the first half. It returns the index of
// the new structure node, or NoNode when the page has no structure there.
// The split is validated before anything changes.
func (p *Page) BreakParagraph(offset, structureNodeIndex int) (int, error) {
	if err := p.checkOffset(offset); err != nil {
		return NoNode, fmt.Errorf("break paragraph: %w", err)
	}
	owner, err := p.owner(offset, structureNodeIndex)
	if err != nil {
		return NoNode, fmt.Errorf("break paragraph: %w", err)
	}

	nl := p.newline.Sequence()
	if owner == NoNode {
		return NoNode, p.insert(offset, nl, NoNode)
	}

	start, err := p.structure.ContentStart(owner)
	if err != nil {
		return NoNode, fmt.Errorf("break paragraph: %w", err)
	}
	local := offset - start
	if err := p.structure.ValidateSplit(owner, offset, local); err != nil {
		return NoNode, fmt.Errorf("break paragraph: %w", err)
	}

	if err := p.insert(offset, nl, owner); err != nil {
		return NoNode, fmt.Errorf("break paragraph: %w", err)
	}
	return p.SplitStructure(owner, offset+len(nl), local+len(nl))
}

func (p *Page) checkOffset(offset int) error {
	if offset < 0 || offset > p.Len() {
		return fmt.Errorf("offset %d of %d: %w", offset, p.Len(), ErrOffsetOutOfRange)
	}
	return nil
}

func (p *Page) checkRange(start, end int) error {
	if start > end {
		return fmt.Errorf("range [%d, %d): %w", start, end, ErrRangeInvalid)
	}
	if start < 0 || end > p.Len() {
		return fmt.Errorf("range [%d, %d) of %d: %w", start, end, p.Len(), ErrOffsetOutOfRange)
	}
	return nil
}

func (p *Page) checkOwner(i int) error {
	n, err := p.structure.Node(i)
	if err != nil {
		return fmt.Errorf("structure node %d: %w: %w", i, ErrStructureIndex, err)
	}
	if n.TagType == structure.EndTag {
		return fmt.Errorf("structure node %d is an end tag: %w", i, ErrStructureIndex)
	}
	return nil
}

// checkOwnerSpan checks that node i can receive content at offset once
// [delStart, delEnd) has been removed: its span must then satisfy
// start <= offset <= start+Length.
func (p *Page) checkOwnerSpan(i, offset, delStart, delEnd int) error {
	if err := p.checkOwner(i); err != nil {
		return err
	}
	n, _ := p.structure.Node(i)
	start, err := p.structure.ContentStart(i)
	if err != nil {
		return fmt.Errorf("structure node %d: %w: %w", i, ErrStructureIndex, err)
	}
	end := start + n.Length
	start -= overlap(delStart, delEnd, 0, start)
	end -= overlap(delStart, delEnd, 0, end)
	if offset < start || offset > end {
		return fmt.Errorf("structure node %d spans [%d, %d], not offset %d: %w", i, start, end, offset, ErrStructureIndex)
	}
	return nil
}

// overlap returns the length of the intersection of [a, b) and [c, d).
func overlap(a, b, c, d int) int {
	return max(0, min(b, d)-max(a, c))
}

// owner resolves the structure node that receives content inserted at
// offset. An explicit node must span offset.
func (p *Page) owner(offset, structureNodeIndex int) (int, error) {
	if structureNodeIndex == NoNode {
		return p.structure.Locate(offset), nil
	}
	if err := p.checkOwnerSpan(structureNodeIndex, offset, offset, offset); err != nil {
		return NoNode, err
	}
	return structureNodeIndex, nil
}
