// Package content implements the piece table that stores a page's text.
//
// Text lives in append-only buffers. Buffer 0 holds the text the page was
// loaded with and is never written; typed text is appended to later buffers,
// each capped at a maximum length. The document is the in-order sequence of
// slices described by the nodes of an augmented red-black tree. Every node
// records the characters and line feeds of its left subtree, so locating an
// offset costs O(log n) in the number of pieces.
//
// Line feeds are never counted by rescanning text. Each buffer keeps the
// offsets at which its lines start, and node spans are expressed as
// line/column cursors into those tables.
//
// Offsets are byte offsets into the UTF-8 encoded document.
//
// A Table is not safe for concurrent use. Callers serialize writers and hand
// readers a Clone.
package content
