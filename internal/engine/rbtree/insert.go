package rbtree

// FixInsert restores the red-black properties after x was linked in as a red
// leaf. It terminates when x reaches the root or x's parent is black, and
// always leaves the root black.
func (t *Tree[M, N]) FixInsert(x int) {
	for x != t.Root && t.links(t.links(x).Parent).Color == Red {
		p := t.links(x).Parent
		g := t.links(p).Parent

		if p == t.links(g).Left {
			u := t.links(g).Right
			if t.links(u).Color == Red {
				t.links(p).Color = Black
				t.links(u).Color = Black
				t.links(g).Color = Red
				x = g
				continue
			}
			if x == t.links(p).Right {
				x = p
				t.rotateLeft(x)
				p = t.links(x).Parent
				g = t.links(p).Parent
			}
			t.links(p).Color = Black
			t.links(g).Color = Red
			t.rotateRight(g)
			continue
		}

		u := t.links(g).Left
		if t.links(u).Color == Red {
			t.links(p).Color = Black
			t.links(u).Color = Black
			t.links(g).Color = Red
			x = g
			continue
		}
		if x == t.links(p).Left {
			x = p
			t.rotateRight(x)
			p = t.links(x).Parent
			g = t.links(p).Parent
		}
		t.links(p).Color = Black
		t.links(g).Color = Red
		t.rotateLeft(g)
	}
	if t.Root != Sentinel {
		t.links(t.Root).Color = Black
	}
}
