package rbtree

import "fmt"

// Sentinel is the arena index that represents "no node".
const Sentinel = 0

// Color is the red-black color of a node.
type Color uint8

const (
	// Black is the zero value so that a fresh sentinel is black.
	Black Color = iota
	// Red marks a node that may not have a red parent.
	Red
)

// String returns the color name.
func (c Color) String() string {
	if c == Red {
		return "red"
	}
	return "black"
}

// Links holds the tree shape shared by every node kind.
type Links struct {
	Color  Color
	Parent int
	Left   int
	Right  int
}

// Summary is a subtree aggregate. The zero value must be the identity.
type Summary[M any] interface {
	comparable
	Add(M) M
	Sub(M) M
}

// Node is the capability a node type supplies to the engine: access to its
// links plus its own measure and the stored aggregate of its left subtree.
type Node[M any] interface {
	TreeLinks() *Links
	Measure() M
	LeftMeasure() M
	SetLeftMeasure(M)
}

// Tree is an augmented red-black tree over an arena of nodes.
type Tree[M Summary[M], N Node[M]] struct {
	// Nodes is the arena. Nodes[Sentinel] is the sentinel.
	Nodes []N

	// Root is the index of the root node, or Sentinel when empty.
	Root int
}

// New creates an empty tree whose arena holds only the given sentinel.
func New[M Summary[M], N Node[M]](sentinel N) *Tree[M, N] {
	var zero M
	l := sentinel.TreeLinks()
	*l = Links{Color: Black}
	sentinel.SetLeftMeasure(zero)
	return &Tree[M, N]{
		Nodes: []N{sentinel},
		Root:  Sentinel,
	}
}

// links returns the links of node i. Callers guarantee i is in range.
func (t *Tree[M, N]) links(i int) *Links {
	return t.Nodes[i].TreeLinks()
}

// Node returns the node stored at index i.
func (t *Tree[M, N]) Node(i int) N {
	return t.Nodes[i]
}

// Empty reports whether the tree holds no nodes.
func (t *Tree[M, N]) Empty() bool {
	return t.Root == Sentinel
}

// Append adds n to the arena as a detached red node and returns its index.
// The node is not part of the tree until Place is called.
func (t *Tree[M, N]) Append(n N) int {
	var zero M
	*n.TreeLinks() = Links{Color: Red}
	n.SetLeftMeasure(zero)
	t.Nodes = append(t.Nodes, n)
	return len(t.Nodes) - 1
}

// Place attaches the detached node i as the left or right child of parent,
// credits its measure to every ancestor whose left subtree now contains it,
// and restores the red-black properties. A parent of Sentinel makes i the
// root of an empty tree.
func (t *Tree[M, N]) Place(i, parent int, left bool) error {
	if i <= Sentinel || i >= len(t.Nodes) {
		return fmt.Errorf("place node %d: %w", i, ErrNodeIndex)
	}
	if parent == Sentinel {
		if t.Root != Sentinel {
			return fmt.Errorf("place node %d at root: %w", i, ErrSlotOccupied)
		}
		t.Root = i
		l := t.links(i)
		l.Parent, l.Left, l.Right = Sentinel, Sentinel, Sentinel
		l.Color = Black
		return nil
	}
	if parent < 0 || parent >= len(t.Nodes) {
		return fmt.Errorf("place node %d under %d: %w", i, parent, ErrNodeIndex)
	}

	pl := t.links(parent)
	if left {
		if pl.Left != Sentinel {
			return fmt.Errorf("place node %d left of %d: %w", i, parent, ErrSlotOccupied)
		}
		pl.Left = i
	} else {
		if pl.Right != Sentinel {
			return fmt.Errorf("place node %d right of %d: %w", i, parent, ErrSlotOccupied)
		}
		pl.Right = i
	}

	l := t.links(i)
	l.Parent, l.Left, l.Right = parent, Sentinel, Sentinel
	l.Color = Red

	t.Propagate(i, t.Nodes[i].Measure())
	t.FixInsert(i)
	return nil
}

// Propagate adds delta to the left aggregate of every ancestor of i whose
// left subtree contains i. Call it whenever the measure of i, or of the
// subtree rooted at i, changes by delta.
func (t *Tree[M, N]) Propagate(i int, delta M) {
	var zero M
	if delta == zero {
		return
	}
	for i != t.Root && i != Sentinel {
		p := t.links(i).Parent
		if p == Sentinel {
			return
		}
		if t.links(p).Left == i {
			pn := t.Nodes[p]
			pn.SetLeftMeasure(pn.LeftMeasure().Add(delta))
		}
		i = p
	}
}

// Total returns the aggregate measure of the subtree rooted at i.
func (t *Tree[M, N]) Total(i int) M {
	var sum M
	for i != Sentinel {
		n := t.Nodes[i]
		sum = sum.Add(n.LeftMeasure()).Add(n.Measure())
		i = t.links(i).Right
	}
	return sum
}

// Offset returns the aggregate measure of every node that precedes i in
// order, i.e. the position of i expressed in the tree's augmentation.
func (t *Tree[M, N]) Offset(i int) M {
	sum := t.Nodes[i].LeftMeasure()
	for i != t.Root {
		p := t.links(i).Parent
		if p == Sentinel {
			break
		}
		if t.links(p).Right == i {
			pn := t.Nodes[p]
			sum = sum.Add(pn.LeftMeasure()).Add(pn.Measure())
		}
		i = p
	}
	return sum
}

// IsLive reports whether i refers to a node currently linked into the tree.
func (t *Tree[M, N]) IsLive(i int) bool {
	return t.checkLive(i) == nil
}

func (t *Tree[M, N]) checkIndex(i int) error {
	if i <= Sentinel || i >= len(t.Nodes) {
		return fmt.Errorf("node %d: %w", i, ErrNodeIndex)
	}
	return nil
}

func (t *Tree[M, N]) checkLive(i int) error {
	if err := t.checkIndex(i); err != nil {
		return err
	}
	if i == t.Root {
		return nil
	}
	p := t.links(i).Parent
	if p == Sentinel {
		return fmt.Errorf("node %d: %w", i, ErrDetachedNode)
	}
	pl := t.links(p)
	if pl.Left != i && pl.Right != i {
		return fmt.Errorf("node %d: %w", i, ErrDetachedNode)
	}
	return nil
}

// CheckLive returns an error unless i is a node linked into the tree.
func (t *Tree[M, N]) CheckLive(i int) error {
	return t.checkLive(i)
}

// Clone returns a deep copy of the tree. copyNode must return an independent
// copy of a node including its links and left aggregate.
func (t *Tree[M, N]) Clone(copyNode func(N) N) *Tree[M, N] {
	nodes := make([]N, len(t.Nodes))
	for i, n := range t.Nodes {
		nodes[i] = copyNode(n)
	}
	return &Tree[M, N]{Nodes: nodes, Root: t.Root}
}

// resetSentinel restores the sentinel after a deletion borrowed its parent
// link.
func (t *Tree[M, N]) resetSentinel() {
	var zero M
	*t.links(Sentinel) = Links{Color: Black}
	t.Nodes[Sentinel].SetLeftMeasure(zero)
}
