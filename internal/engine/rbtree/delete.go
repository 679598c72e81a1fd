package rbtree

import "fmt"

// Delete removes node z from the tree. Ancestor aggregates are corrected
// before the tree is relinked, and rotations during the fixup keep them
// exact. On return z is detached: its links point at the sentinel, its color
// is black and no live node refers to it. The arena slot is kept.
func (t *Tree[M, N]) Delete(z int) error {
	if err := t.checkLive(z); err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	var zero M
	zl := t.links(z)
	zn := t.Nodes[z]

	y := z
	yColor := zl.Color
	var x int

	if zl.Left != Sentinel && zl.Right != Sentinel {
		y = t.Minimum(zl.Right)
		ym := t.Nodes[y].Measure()
		// y leaves its place, then takes over z's.
		t.Propagate(y, zero.Sub(ym))
		t.Propagate(z, ym.Sub(zn.Measure()))
	} else {
		t.Propagate(z, zero.Sub(zn.Measure()))
	}

	switch {
	case zl.Left == Sentinel:
		x = zl.Right
		t.transplant(z, x)
	case zl.Right == Sentinel:
		x = zl.Left
		t.transplant(z, x)
	default:
		yl := t.links(y)
		yColor = yl.Color
		x = yl.Right
		if yl.Parent == z {
			t.links(x).Parent = y
		} else {
			t.transplant(y, yl.Right)
			yl.Right = zl.Right
			t.links(yl.Right).Parent = y
		}
		t.transplant(z, y)
		yl.Left = zl.Left
		t.links(yl.Left).Parent = y
		yl.Color = zl.Color
		t.Nodes[y].SetLeftMeasure(zn.LeftMeasure())
	}

	if yColor == Black {
		t.fixDelete(x)
	}

	t.detach(z)
	t.resetSentinel()
	return nil
}

// transplant replaces the subtree rooted at u with the one rooted at v. The
// parent of v is written even when v is the sentinel; fixDelete relies on it.
func (t *Tree[M, N]) transplant(u, v int) {
	ul := t.links(u)
	switch {
	case ul.Parent == Sentinel:
		t.Root = v
	case t.links(ul.Parent).Left == u:
		t.links(ul.Parent).Left = v
	default:
		t.links(ul.Parent).Right = v
	}
	t.links(v).Parent = ul.Parent
}

func (t *Tree[M, N]) fixDelete(x int) {
	for x != t.Root && t.links(x).Color == Black {
		p := t.links(x).Parent

		if x == t.links(p).Left {
			w := t.links(p).Right
			if t.links(w).Color == Red {
				t.links(w).Color = Black
				t.links(p).Color = Red
				t.rotateLeft(p)
				w = t.links(p).Right
			}
			if t.links(t.links(w).Left).Color == Black && t.links(t.links(w).Right).Color == Black {
				t.links(w).Color = Red
				x = p
				continue
			}
			if t.links(t.links(w).Right).Color == Black {
				t.links(t.links(w).Left).Color = Black
				t.links(w).Color = Red
				t.rotateRight(w)
				w = t.links(p).Right
			}
			t.links(w).Color = t.links(p).Color
			t.links(p).Color = Black
			t.links(t.links(w).Right).Color = Black
			t.rotateLeft(p)
			x = t.Root
			continue
		}

		w := t.links(p).Left
		if t.links(w).Color == Red {
			t.links(w).Color = Black
			t.links(p).Color = Red
			t.rotateRight(p)
			w = t.links(p).Left
		}
		if t.links(t.links(w).Right).Color == Black && t.links(t.links(w).Left).Color == Black {
			t.links(w).Color = Red
			x = p
			continue
		}
		if t.links(t.links(w).Left).Color == Black {
			t.links(t.links(w).Right).Color = Black
			t.links(w).Color = Red
			t.rotateLeft(w)
			w = t.links(p).Left
		}
		t.links(w).Color = t.links(p).Color
		t.links(p).Color = Black
		t.links(t.links(w).Left).Color = Black
		t.rotateRight(p)
		x = t.Root
	}
	t.links(x).Color = Black
}

// detach resets z so that it no longer refers to any node.
func (t *Tree[M, N]) detach(z int) {
	var zero M
	*t.links(z) = Links{Color: Black}
	t.Nodes[z].SetLeftMeasure(zero)
}
