package rbtree

// Minimum returns the leftmost node of the subtree rooted at i, or Sentinel
// when i is Sentinel.
func (t *Tree[M, N]) Minimum(i int) int {
	if i == Sentinel {
		return Sentinel
	}
	for t.links(i).Left != Sentinel {
		i = t.links(i).Left
	}
	return i
}

// Maximum returns the rightmost node of the subtree rooted at i, or Sentinel
// when i is Sentinel.
func (t *Tree[M, N]) Maximum(i int) int {
	if i == Sentinel {
		return Sentinel
	}
	for t.links(i).Right != Sentinel {
		i = t.links(i).Right
	}
	return i
}

// First returns the first node in order.
func (t *Tree[M, N]) First() int {
	return t.Minimum(t.Root)
}

// Last returns the last node in order.
func (t *Tree[M, N]) Last() int {
	return t.Maximum(t.Root)
}

// Next returns the in-order successor of i, or Sentinel past the end.
func (t *Tree[M, N]) Next(i int) int {
	if i == Sentinel {
		return Sentinel
	}
	if r := t.links(i).Right; r != Sentinel {
		return t.Minimum(r)
	}
	p := t.links(i).Parent
	for p != Sentinel && i == t.links(p).Right {
		i = p
		p = t.links(p).Parent
	}
	return p
}

// Prev returns the in-order predecessor of i, or Sentinel before the start.
func (t *Tree[M, N]) Prev(i int) int {
	if i == Sentinel {
		return Sentinel
	}
	if l := t.links(i).Left; l != Sentinel {
		return t.Maximum(l)
	}
	p := t.links(i).Parent
	for p != Sentinel && i == t.links(p).Left {
		i = p
		p = t.links(p).Parent
	}
	return p
}

// Walk calls fn for every node in order. Iteration stops early when fn
// returns false.
func (t *Tree[M, N]) Walk(fn func(i int, n N) bool) {
	for i := t.First(); i != Sentinel; i = t.Next(i) {
		if !fn(i, t.Nodes[i]) {
			return
		}
	}
}

// Indices returns the in-order node indices.
func (t *Tree[M, N]) Indices() []int {
	var out []int
	t.Walk(func(i int, _ N) bool {
		out = append(out, i)
		return true
	})
	return out
}
