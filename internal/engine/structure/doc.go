// Package structure holds a page's markup as an ordered stream of tags.
//
// The stream is stored in an augmented red-black tree keyed by ordinal
// position: every node counts the nodes and the content bytes of its left
// subtree. Start and self-closing tags span the content that follows them up
// to the next tag; end tags span nothing.
package structure
