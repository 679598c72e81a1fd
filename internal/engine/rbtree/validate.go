package rbtree

import "fmt"

// Validate checks the red-black and augmentation invariants: the root and
// the sentinel are black, no red node has a red child, every root-to-leaf
// path has the same number of black nodes, parent links agree with child
// links, and every node's left aggregate equals the total of its left
// subtree. It returns an error wrapping ErrInvariant on the first violation.
func (t *Tree[M, N]) Validate() error {
	if t.links(Sentinel).Color != Black {
		return fmt.Errorf("sentinel is red: %w", ErrInvariant)
	}
	if t.Root == Sentinel {
		return nil
	}
	if t.links(t.Root).Color != Black {
		return fmt.Errorf("root %d is red: %w", t.Root, ErrInvariant)
	}
	if p := t.links(t.Root).Parent; p != Sentinel {
		return fmt.Errorf("root %d has parent %d: %w", t.Root, p, ErrInvariant)
	}
	_, _, err := t.validate(t.Root, 0)
	return err
}

// validate returns the black height and total measure of the subtree at i.
func (t *Tree[M, N]) validate(i, depth int) (int, M, error) {
	var zero M
	if i == Sentinel {
		return 1, zero, nil
	}
	if i < 0 || i >= len(t.Nodes) {
		return 0, zero, fmt.Errorf("node index %d out of arena: %w", i, ErrInvariant)
	}
	if depth > 2*len(t.Nodes) {
		return 0, zero, fmt.Errorf("cycle through node %d: %w", i, ErrInvariant)
	}

	l := t.links(i)
	for _, c := range [2]int{l.Left, l.Right} {
		if c == Sentinel {
			continue
		}
		if c < 0 || c >= len(t.Nodes) {
			return 0, zero, fmt.Errorf("child %d of node %d out of arena: %w", c, i, ErrInvariant)
		}
		if t.links(c).Parent != i {
			return 0, zero, fmt.Errorf("node %d has parent %d, want %d: %w", c, t.links(c).Parent, i, ErrInvariant)
		}
		if l.Color == Red && t.links(c).Color == Red {
			return 0, zero, fmt.Errorf("red node %d has red child %d: %w", i, c, ErrInvariant)
		}
	}

	lh, lsum, err := t.validate(l.Left, depth+1)
	if err != nil {
		return 0, zero, err
	}
	rh, rsum, err := t.validate(l.Right, depth+1)
	if err != nil {
		return 0, zero, err
	}
	if lh != rh {
		return 0, zero, fmt.Errorf("black height mismatch at node %d (%d != %d): %w", i, lh, rh, ErrInvariant)
	}

	n := t.Nodes[i]
	if got := n.LeftMeasure(); got != lsum {
		return 0, zero, fmt.Errorf("node %d left aggregate %v, want %v: %w", i, got, lsum, ErrInvariant)
	}

	h := lh
	if l.Color == Black {
		h++
	}
	return h, lsum.Add(n.Measure()).Add(rsum), nil
}
