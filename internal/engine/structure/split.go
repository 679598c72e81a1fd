package structure

import (
	"fmt"
	"maps"

	"github.com/dshills/pagetree/internal/engine/rbtree"
)

// Split divides node i at localContentOffset bytes into its span. The node
// keeps the first localContentOffset bytes; a new node with a generated ID
// and the same tag, tag type and style takes the rest. nodeContentOffset is
// the document offset of the split point and must agree with the node's
// position.
//
// A self-closing node is followed directly by its new sibling. A start tag
// becomes two sibling elements: the new start tag and a matching end tag
// sharing its ID are inserted right after the original element's end tag.
//
// It returns the arena index of the new node.
func (t *Tree) Split(i, nodeContentOffset, localContentOffset int) (int, error) {
	end, err := t.checkSplit(i, nodeContentOffset, localContentOffset)
	if err != nil {
		return rbtree.Sentinel, err
	}

	n := t.tree.Nodes[i]
	rest := n.Length - localContentOffset
	after := i
	if n.TagType == StartTag {
		after = end
	}
	k := t.tree.Offset(after).Nodes + 1

	n.Length = localContentOffset
	t.tree.Propagate(i, Metric{Chars: -rest})

	id := t.newID()
	created, err := t.insertAt(k, &Node{
		ID:      id,
		Tag:     n.Tag,
		TagType: n.TagType,
		Length:  rest,
		Style:   maps.Clone(n.Style),
	})
	if err != nil {
		return rbtree.Sentinel, err
	}
	if n.TagType == StartTag {
		if _, err := t.insertAt(k+1, &Node{ID: id, Tag: n.Tag, TagType: EndTag}); err != nil {
			return rbtree.Sentinel, err
		}
	}
	return created, nil
}

// ValidateSplit reports whether Split(i, nodeContentOffset,
// localContentOffset) would succeed, without changing the tree.
func (t *Tree) ValidateSplit(i, nodeContentOffset, localContentOffset int) error {
	_, err := t.checkSplit(i, nodeContentOffset, localContentOffset)
	return err
}

// checkSplit validates a split and returns the matching end tag of a start
// tag, or the sentinel.
func (t *Tree) checkSplit(i, nodeContentOffset, localContentOffset int) (int, error) {
	if err := t.tree.CheckLive(i); err != nil {
		return rbtree.Sentinel, fmt.Errorf("split: %w", err)
	}
	n := t.tree.Nodes[i]
	if n.TagType == EndTag {
		return rbtree.Sentinel, fmt.Errorf("split %s end tag %d: %w", n.Tag, i, ErrNotSplittable)
	}
	if localContentOffset < 0 || localContentOffset > n.Length {
		return rbtree.Sentinel, fmt.Errorf("split node %d at %d of %d: %w", i, localContentOffset, n.Length, ErrSplitOutOfRange)
	}
	if start := t.tree.Offset(i).Chars; nodeContentOffset != start+localContentOffset {
		return rbtree.Sentinel, fmt.Errorf("split node %d at content offset %d, node starts at %d: %w",
			i, nodeContentOffset, start, ErrSplitOutOfRange)
	}
	if n.TagType != StartTag {
		return rbtree.Sentinel, nil
	}
	end, err := t.MatchingEnd(i)
	if err != nil {
		return rbtree.Sentinel, fmt.Errorf("split: %w", err)
	}
	return end, nil
}

// MatchingEnd returns the end tag closing the start tag at i. An end tag
// carrying the same ID wins; otherwise tags of the same name are balanced.
func (t *Tree) MatchingEnd(i int) (int, error) {
	if err := t.tree.CheckLive(i); err != nil {
		return rbtree.Sentinel, err
	}
	start := t.tree.Nodes[i]
	if start.TagType != StartTag {
		return rbtree.Sentinel, fmt.Errorf("node %d is a %s: %w", i, start.TagType, ErrUnmatchedTag)
	}

	depth := 0
	balanced := rbtree.Sentinel
	for j := t.tree.Next(i); j != rbtree.Sentinel; j = t.tree.Next(j) {
		n := t.tree.Nodes[j]
		if n.TagType == EndTag && start.ID != "" && n.ID == start.ID {
			return j, nil
		}
		if n.Tag != start.Tag || balanced != rbtree.Sentinel {
			continue
		}
		switch n.TagType {
		case StartTag:
			depth++
		case EndTag:
			if depth == 0 {
				balanced = j
			} else {
				depth--
			}
		}
	}
	if balanced == rbtree.Sentinel {
		return rbtree.Sentinel, fmt.Errorf("%s start tag %d: %w", start.Tag, i, ErrUnmatchedTag)
	}
	return balanced, nil
}
