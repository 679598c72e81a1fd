package structure

import (
	"fmt"
	"maps"

	"github.com/google/uuid"

	"github.com/dshills/pagetree/internal/engine/rbtree"
)

// IDGenerator returns a fresh identifier for a node created by a split.
type IDGenerator func() string

// LocalID returns a random identifier marked as locally generated.
func LocalID() string {
	return "local:" + uuid.NewString()
}

// Tree is the structure tree of a page. Nodes are addressed by ordinal
// position in the tag stream; each node also tracks how much content it
// spans so content offsets can be mapped back to tags.
type Tree struct {
	tree  *rbtree.Tree[Metric, *Node]
	newID IDGenerator
}

// NewTree creates an empty structure tree. A nil gen selects LocalID.
func NewTree(gen IDGenerator) *Tree {
	if gen == nil {
		gen = LocalID
	}
	return &Tree{
		tree:  rbtree.New[Metric, *Node](&Node{}),
		newID: gen,
	}
}

// Engine exposes the underlying red-black tree.
func (t *Tree) Engine() *rbtree.Tree[Metric, *Node] { return t.tree }

// Count returns the number of nodes.
func (t *Tree) Count() int { return t.tree.Total(t.tree.Root).Nodes }

// ContentLength returns the total content spanned by all nodes.
func (t *Tree) ContentLength() int { return t.tree.Total(t.tree.Root).Chars }

// Nodes returns the arena indices in tag-stream order.
func (t *Tree) Nodes() []int { return t.tree.Indices() }

// Node returns the live node at arena index i.
func (t *Tree) Node(i int) (*Node, error) {
	if err := t.tree.CheckLive(i); err != nil {
		return nil, err
	}
	return t.tree.Nodes[i], nil
}

// Ordinal returns the position of node i in the tag stream.
func (t *Tree) Ordinal(i int) (int, error) {
	if err := t.tree.CheckLive(i); err != nil {
		return 0, err
	}
	return t.tree.Offset(i).Nodes, nil
}

// ContentStart returns the content offset at which node i's span begins.
func (t *Tree) ContentStart(i int) (int, error) {
	if err := t.tree.CheckLive(i); err != nil {
		return 0, err
	}
	return t.tree.Offset(i).Chars, nil
}

// At returns the arena index of the node at ordinal k.
func (t *Tree) At(k int) (int, error) {
	if k < 0 || k >= t.Count() {
		return rbtree.Sentinel, fmt.Errorf("node at %d of %d: %w", k, t.Count(), ErrOrdinalOutOfRange)
	}
	x := t.tree.Root
	for x != rbtree.Sentinel {
		n := t.tree.Nodes[x]
		switch pos := n.LeftSubTreeLength; {
		case k < pos:
			x = n.Left
		case k == pos:
			return x, nil
		default:
			k -= pos + 1
			x = n.Right
		}
	}
	return rbtree.Sentinel, fmt.Errorf("node at %d: %w", k, rbtree.ErrInvariant)
}

// Insert adds a node built from r at ordinal r.Offset. A missing ID is
// generated. End tags must have zero length.
func (t *Tree) Insert(r Record) (int, error) {
	if r.Offset < 0 || r.Offset > t.Count() {
		return rbtree.Sentinel, fmt.Errorf("insert %s at %d of %d: %w", r.Tag, r.Offset, t.Count(), ErrOrdinalOutOfRange)
	}
	if r.Length < 0 || (r.TagType == EndTag && r.Length != 0) {
		return rbtree.Sentinel, fmt.Errorf("insert %s %s with length %d: %w", r.TagType, r.Tag, r.Length, ErrInvalidLength)
	}
	id := r.ID
	if id == "" {
		id = t.newID()
	}
	return t.insertAt(r.Offset, &Node{
		ID:         id,
		Tag:        r.Tag,
		TagType:    r.TagType,
		Length:     r.Length,
		Style:      maps.Clone(r.Style),
		Attributes: maps.Clone(r.Attributes),
	})
}

// insertAt links n in so that it becomes the k-th node. The caller has
// checked 0 <= k <= Count().
func (t *Tree) insertAt(k int, n *Node) (int, error) {
	parent, left := rbtree.Sentinel, true
	x := t.tree.Root
	for x != rbtree.Sentinel {
		parent = x
		cur := t.tree.Nodes[x]
		if k <= cur.LeftSubTreeLength {
			left = true
			x = cur.Left
		} else {
			left = false
			k -= cur.LeftSubTreeLength + 1
			x = cur.Right
		}
	}

	i := t.tree.Append(n)
	if err := t.tree.Place(i, parent, left); err != nil {
		return rbtree.Sentinel, fmt.Errorf("insert structure node: %w", err)
	}
	return i, nil
}

// Clone returns a deep copy of the tree.
func (t *Tree) Clone() *Tree {
	return &Tree{tree: t.tree.Clone(copyNode), newID: t.newID}
}

// Validate checks the tree invariants and the tag length rules.
func (t *Tree) Validate() error {
	if err := t.tree.Validate(); err != nil {
		return err
	}
	var err error
	t.tree.Walk(func(i int, n *Node) bool {
		if n.Length < 0 || (n.TagType == EndTag && n.Length != 0) {
			err = fmt.Errorf("node %d (%s %s) has length %d: %w", i, n.TagType, n.Tag, n.Length, ErrInvalidLength)
			return false
		}
		return true
	})
	return err
}
