package structure

import (
	"fmt"
	"maps"
	"strings"

	"github.com/dshills/pagetree/internal/engine/rbtree"
)

// TagType distinguishes opening, closing and self-closing tags.
type TagType uint8

const (
	StartTag TagType = iota
	EndTag
	StartEndTag
)

func (tt TagType) String() string {
	switch tt {
	case StartTag:
		return "StartTag"
	case EndTag:
		return "EndTag"
	case StartEndTag:
		return "StartEndTag"
	default:
		return fmt.Sprintf("TagType(%d)", uint8(tt))
	}
}

// ParseTagType parses a tag type name. Matching ignores case and accepts the
// short forms "start", "end" and "self".
func ParseTagType(s string) (TagType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "starttag", "start", "open":
		return StartTag, nil
	case "endtag", "end", "close":
		return EndTag, nil
	case "startendtag", "self", "selfclosing", "self-closing", "empty":
		return StartEndTag, nil
	default:
		return StartTag, fmt.Errorf("%w: %q", ErrUnknownTagType, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (tt TagType) MarshalText() ([]byte, error) {
	return []byte(tt.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (tt *TagType) UnmarshalText(b []byte) error {
	v, err := ParseTagType(string(b))
	if err != nil {
		return err
	}
	*tt = v
	return nil
}

// Metric is the structure tree aggregate: node count and spanned content.
type Metric struct {
	Nodes int
	Chars int
}

// Add returns the sum of two metrics.
func (m Metric) Add(o Metric) Metric { return Metric{m.Nodes + o.Nodes, m.Chars + o.Chars} }

// Sub returns m minus o.
func (m Metric) Sub(o Metric) Metric { return Metric{m.Nodes - o.Nodes, m.Chars - o.Chars} }

// Node is one tag in the structure stream.
type Node struct {
	rbtree.Links

	ID      string
	Tag     string
	TagType TagType

	// Length is the number of content bytes the tag spans. End tags always
	// have length 0.
	Length int

	// LeftSubTreeLength counts the nodes in the left subtree.
	LeftSubTreeLength int
	// LeftCharCount sums Length over the left subtree.
	LeftCharCount int

	Style      map[string]string
	Attributes map[string]string
}

// TreeLinks returns the node's tree links.
func (n *Node) TreeLinks() *rbtree.Links { return &n.Links }

// Measure counts the node once and its span length.
func (n *Node) Measure() Metric { return Metric{Nodes: 1, Chars: n.Length} }

// LeftMeasure returns the stored aggregate of the left subtree.
func (n *Node) LeftMeasure() Metric {
	return Metric{Nodes: n.LeftSubTreeLength, Chars: n.LeftCharCount}
}

// SetLeftMeasure stores the aggregate of the left subtree.
func (n *Node) SetLeftMeasure(m Metric) {
	n.LeftSubTreeLength = m.Nodes
	n.LeftCharCount = m.Chars
}

func copyNode(n *Node) *Node {
	c := *n
	c.Style = maps.Clone(n.Style)
	c.Attributes = maps.Clone(n.Attributes)
	return &c
}

// Record describes a node to insert. Offset is the ordinal position the new
// node will occupy in the tag stream.
type Record struct {
	ID         string            `json:"id" yaml:"id"`
	Tag        string            `json:"tag" yaml:"tag"`
	TagType    TagType           `json:"tagType" yaml:"tagType"`
	Length     int               `json:"length" yaml:"length"`
	Style      map[string]string `json:"style,omitempty" yaml:"style,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Offset     int               `json:"offset" yaml:"offset"`
}
