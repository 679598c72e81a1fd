package rbtree

import "fmt"

// RotateLeft rotates the subtree rooted at x to the left, making x's right
// child its parent. The left aggregate of the promoted child absorbs x and
// x's left subtree. If x has no right child the tree is left unchanged and
// ErrNoRotationChild is returned.
func (t *Tree[M, N]) RotateLeft(x int) error {
	if err := t.checkIndex(x); err != nil {
		return fmt.Errorf("rotate left: %w", err)
	}
	if t.links(x).Right == Sentinel {
		return fmt.Errorf("rotate left at node %d: %w", x, ErrNoRotationChild)
	}
	t.rotateLeft(x)
	return nil
}

// RotateRight rotates the subtree rooted at y to the right, making y's left
// child its parent. If y has no left child the tree is left unchanged and
// ErrNoRotationChild is returned.
func (t *Tree[M, N]) RotateRight(y int) error {
	if err := t.checkIndex(y); err != nil {
		return fmt.Errorf("rotate right: %w", err)
	}
	if t.links(y).Left == Sentinel {
		return fmt.Errorf("rotate right at node %d: %w", y, ErrNoRotationChild)
	}
	t.rotateRight(y)
	return nil
}

func (t *Tree[M, N]) rotateLeft(x int) {
	xl := t.links(x)
	y := xl.Right
	yl := t.links(y)

	xn, yn := t.Nodes[x], t.Nodes[y]
	yn.SetLeftMeasure(yn.LeftMeasure().Add(xn.LeftMeasure()).Add(xn.Measure()))

	xl.Right = yl.Left
	if yl.Left != Sentinel {
		t.links(yl.Left).Parent = x
	}
	yl.Parent = xl.Parent
	switch {
	case xl.Parent == Sentinel:
		t.Root = y
	case t.links(xl.Parent).Left == x:
		t.links(xl.Parent).Left = y
	default:
		t.links(xl.Parent).Right = y
	}
	yl.Left = x
	xl.Parent = y
}

func (t *Tree[M, N]) rotateRight(y int) {
	yl := t.links(y)
	x := yl.Left
	xl := t.links(x)

	xn, yn := t.Nodes[x], t.Nodes[y]
	yn.SetLeftMeasure(yn.LeftMeasure().Sub(xn.LeftMeasure()).Sub(xn.Measure()))

	yl.Left = xl.Right
	if xl.Right != Sentinel {
		t.links(xl.Right).Parent = y
	}
	xl.Parent = yl.Parent
	switch {
	case yl.Parent == Sentinel:
		t.Root = x
	case t.links(yl.Parent).Right == y:
		t.links(yl.Parent).Right = x
	default:
		t.links(yl.Parent).Left = x
	}
	xl.Right = y
	yl.Parent = x
}
