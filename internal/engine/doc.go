// Package engine provides the page aggregate for pagetree.
//
// A Page combines two augmented red-black trees over one document:
//
//   - content: a piece table over append-only buffers, indexed by byte offset
//     and line feed count
//   - structure: the markup tag stream, indexed by ordinal and by the content
//     each tag spans
//
// Both trees are built on the shared rbtree engine.
//
// # Editing
//
// Page exposes the document-level actions: Insert, Delete, Replace,
// SplitStructure, InsertStructure and BreakParagraph. Every action validates
// its arguments before touching either tree, so a rejected action leaves the
// page unchanged. Content edits keep structure spans in step: an insert grows
// the structure node that owns the insertion point and a delete shrinks every
// span it overlaps.
//
//	p, _ := engine.NewPage("hello world", engine.WithStructure(records))
//	_ = p.Insert(5, ",", engine.NoNode)
//	_, _ = p.BreakParagraph(6, engine.NoNode)
//
// # Typing
//
// The page remembers the piece written by the last insert. An insert that
// continues it is appended to that piece in place, so sequential typing does
// not grow the tree. Deletes clear the cache.
//
// # Concurrency
//
// A Page performs no locking. Callers serialize edits and give readers a
// Snapshot, which shares no memory with the page.
package engine
