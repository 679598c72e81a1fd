package structure

// Element is a folded tag: a start tag and everything up to its end tag, or
// a self-closing tag.
type Element struct {
	Index      int               `json:"index"`
	ID         string            `json:"id"`
	Tag        string            `json:"tag"`
	Start      int               `json:"start"`
	End        int               `json:"end"`
	Text       string            `json:"text,omitempty"`
	Style      map[string]string `json:"style,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Children   []*Element        `json:"children,omitempty"`
}

// Fold walks the tag stream and nests it into elements using a stack of open
// start tags. resolve, if non-nil, supplies each element's own text from its
// content span. End tags without an open start tag are ignored and elements
// left open at the end are kept.
func (t *Tree) Fold(resolve func(start, end int) string) []*Element {
	var roots []*Element
	var stack []*Element

	attach := func(e *Element) {
		if len(stack) == 0 {
			roots = append(roots, e)
			return
		}
		top := stack[len(stack)-1]
		top.Children = append(top.Children, e)
	}

	off := 0
	t.tree.Walk(func(i int, n *Node) bool {
		start := off
		off += n.Length

		if n.TagType == EndTag {
			for k := len(stack) - 1; k >= 0; k-- {
				if stack[k].Tag == n.Tag {
					stack = stack[:k]
					break
				}
			}
			return true
		}

		e := &Element{
			Index:      i,
			ID:         n.ID,
			Tag:        n.Tag,
			Start:      start,
			End:        off,
			Style:      n.Style,
			Attributes: n.Attributes,
		}
		if resolve != nil {
			e.Text = resolve(start, off)
		}
		attach(e)
		if n.TagType == StartTag {
			stack = append(stack, e)
		}
		return true
	})
	return roots
}
