package api

import (
	"errors"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/pagetree/internal/app"
	"github.com/dshills/pagetree/internal/engine"
	pluginlua "github.com/dshills/pagetree/internal/plugin/lua"
)

// PageProvider is the page store scripts edit through. *app.Store
// implements it.
type PageProvider interface {
	IDs() []string
	View(id string, fn func(*engine.Page) error) error
	Dispatch(a app.Action, opts ...engine.Option) (app.Result, error)
}

// ErrNoPage is raised when a script edits before any page is selected.
var ErrNoPage = errors.New("no page selected")

// PageModule implements the page API module. Offsets are byte offsets
// counted from 0, as in the engine. Functions that take a structure node
// accept 0 or nil to let the page find the owning node.
type PageModule struct {
	pages   PageProvider
	current string
}

// NewPageModule creates a page module editing current.
func NewPageModule(pages PageProvider, current string) *PageModule {
	return &PageModule{pages: pages, current: current}
}

// Name returns the module name.
func (m *PageModule) Name() string {
	return "page"
}

// Current returns the selected page id.
func (m *PageModule) Current() string {
	return m.current
}

// Register builds the page table.
func (m *PageModule) Register(L *lua.LState) (*lua.LTable, error) {
	mod := L.NewTable()
	L.SetFuncs(mod, map[string]lua.LGFunction{
		"id":               m.id,
		"list":             m.list,
		"use":              m.use,
		"text":             m.text,
		"len":              m.pageLen,
		"lines":            m.lines,
		"insert":           m.insert,
		"delete":           m.delete,
		"replace":          m.replace,
		"split":            m.split,
		"break_paragraph":  m.breakParagraph,
		"insert_structure": m.insertStructure,
		"node_at":          m.nodeAt,
		"nodes":            m.nodes,
		"summary":          m.summary,
		"elements":         m.elements,
	})
	return mod, nil
}

// view runs fn on the selected page, raising a Lua error on failure.
func (m *PageModule) view(L *lua.LState, name string, fn func(*engine.Page) error) {
	if m.current == "" {
		L.RaiseError("%s: %v", name, ErrNoPage)
		return
	}
	if err := m.pages.View(m.current, fn); err != nil {
		L.RaiseError("%s: %v", name, err)
	}
}

func (m *PageModule) dispatch(L *lua.LState, name string, a app.Action) app.Result {
	if m.current == "" {
		L.RaiseError("%s: %v", name, ErrNoPage)
		return app.Result{}
	}
	a.PageID = m.current
	res, err := m.pages.Dispatch(a)
	if err != nil {
		L.RaiseError("%s: %v", name, err)
	}
	return res
}

// id() -> string
func (m *PageModule) id(L *lua.LState) int {
	L.Push(lua.LString(m.current))
	return 1
}

// list() -> {ids}
// Returns the loaded page ids in load order.
func (m *PageModule) list(L *lua.LState) int {
	tbl := L.NewTable()
	for i, id := range m.pages.IDs() {
		tbl.RawSetInt(i+1, lua.LString(id))
	}
	L.Push(tbl)
	return 1
}

// use(id)
// Selects the page later calls operate on.
func (m *PageModule) use(L *lua.LState) int {
	id := L.CheckString(1)
	if err := m.pages.View(id, func(*engine.Page) error { return nil }); err != nil {
		L.RaiseError("use: %v", err)
		return 0
	}
	m.current = id
	return 0
}

// text([start, end]) -> string
// Returns the whole text, or the text in [start, end) clamped to the page.
func (m *PageModule) text(L *lua.LState) int {
	ranged := L.GetTop() >= 2
	start, end := L.OptInt(1, 0), L.OptInt(2, 0)

	var out string
	m.view(L, "text", func(p *engine.Page) error {
		if ranged {
			out = p.ContentBetween(start, end)
		} else {
			out = p.Text()
		}
		return nil
	})
	L.Push(lua.LString(out))
	return 1
}

// len() -> number
func (m *PageModule) pageLen(L *lua.LState) int {
	var n int
	m.view(L, "len", func(p *engine.Page) error {
		n = p.Len()
		return nil
	})
	L.Push(lua.LNumber(n))
	return 1
}

// lines() -> number
func (m *PageModule) lines(L *lua.LState) int {
	var n int
	m.view(L, "lines", func(p *engine.Page) error {
		n = p.LineCount()
		return nil
	})
	L.Push(lua.LNumber(n))
	return 1
}

// insert(offset, text[, node]) -> end_offset
func (m *PageModule) insert(L *lua.LState) int {
	offset := L.CheckInt(1)
	text := L.CheckString(2)
	node := L.OptInt(3, engine.NoNode)

	m.dispatch(L, "insert", app.Action{
		Type:               app.ActionInsert,
		Offset:             offset,
		Text:               text,
		StructureNodeIndex: node,
	})
	L.Push(lua.LNumber(offset + len(text)))
	return 1
}

// delete(start, end)
func (m *PageModule) delete(L *lua.LState) int {
	start := L.CheckInt(1)
	end := L.CheckInt(2)
	if end < start {
		L.ArgError(2, "end must be >= start")
		return 0
	}

	m.dispatch(L, "delete", app.Action{
		Type:        app.ActionDelete,
		StartOffset: start,
		EndOffset:   end,
	})
	return 0
}

// replace(start, end, text[, node]) -> end_offset
func (m *PageModule) replace(L *lua.LState) int {
	start := L.CheckInt(1)
	end := L.CheckInt(2)
	text := L.CheckString(3)
	node := L.OptInt(4, engine.NoNode)
	if end < start {
		L.ArgError(2, "end must be >= start")
		return 0
	}

	m.dispatch(L, "replace", app.Action{
		Type:               app.ActionReplace,
		StartOffset:        start,
		EndOffset:          end,
		Text:               text,
		StructureNodeIndex: node,
	})
	L.Push(lua.LNumber(start + len(text)))
	return 1
}

// split(node, node_content_offset, local_content_offset) -> new_node
func (m *PageModule) split(L *lua.LState) int {
	res := m.dispatch(L, "split", app.Action{
		Type:               app.ActionSplitStructure,
		NodeIndex:          L.CheckInt(1),
		NodeContentOffset:  L.CheckInt(2),
		LocalContentOffset: L.CheckInt(3),
	})
	L.Push(lua.LNumber(res.NodeIndex))
	return 1
}

// break_paragraph(offset[, node]) -> new_node
// Returns 0 when the page has no structure to split.
func (m *PageModule) breakParagraph(L *lua.LState) int {
	res := m.dispatch(L, "break_paragraph", app.Action{
		Type:               app.ActionBreakParagraph,
		Offset:             L.CheckInt(1),
		StructureNodeIndex: L.OptInt(2, engine.NoNode),
	})
	L.Push(lua.LNumber(res.NodeIndex))
	return 1
}

// insert_structure({tag=, tagType=, length=, offset=, id=, style=, attributes=}) -> node
// offset is the position in the tag stream.
func (m *PageModule) insertStructure(L *lua.LState) int {
	tbl := L.CheckTable(1)
	b := pluginlua.NewBridge(L)

	tag, ok := b.GetTableString(tbl, "tag")
	if !ok || tag == "" {
		L.ArgError(1, "tag is required")
		return 0
	}
	typeName, _ := b.GetTableString(tbl, "tagType")
	tt, err := engine.ParseTagType(typeName)
	if err != nil {
		L.ArgError(1, err.Error())
		return 0
	}
	id, _ := b.GetTableString(tbl, "id")
	length, _ := b.GetTableInt(tbl, "length")
	offset, _ := b.GetTableInt(tbl, "offset")

	res := m.dispatch(L, "insert_structure", app.Action{
		Type: app.ActionInsertStructure,
		Node: engine.Record{
			ID:         id,
			Tag:        tag,
			TagType:    tt,
			Length:     length,
			Offset:     offset,
			Style:      b.GetStringMap(tbl, "style"),
			Attributes: b.GetStringMap(tbl, "attributes"),
		},
	})
	L.Push(lua.LNumber(res.NodeIndex))
	return 1
}

// node_at(offset) -> node
// Returns the structure node owning an edit at offset, or 0.
func (m *PageModule) nodeAt(L *lua.LState) int {
	offset := L.CheckInt(1)
	var i int
	m.view(L, "node_at", func(p *engine.Page) error {
		i = p.Structure().Locate(offset)
		return nil
	})
	L.Push(lua.LNumber(i))
	return 1
}

// nodes() -> {{index, id, tag, tagType, length, start}, ...}
// Returns the structure nodes in tag-stream order.
func (m *PageModule) nodes(L *lua.LState) int {
	tbl := L.NewTable()
	m.view(L, "nodes", func(p *engine.Page) error {
		st := p.Structure()
		for k, i := range st.Nodes() {
			n, err := st.Node(i)
			if err != nil {
				return err
			}
			start, err := st.ContentStart(i)
			if err != nil {
				return err
			}
			row := L.NewTable()
			row.RawSetString("index", lua.LNumber(i))
			row.RawSetString("id", lua.LString(n.ID))
			row.RawSetString("tag", lua.LString(n.Tag))
			row.RawSetString("tagType", lua.LString(n.TagType.String()))
			row.RawSetString("length", lua.LNumber(n.Length))
			row.RawSetString("start", lua.LNumber(start))
			tbl.RawSetInt(k+1, row)
		}
		return nil
	})
	L.Push(tbl)
	return 1
}

// summary() -> {id, length, lines, pieces, buffers, structureNodes, newline}
func (m *PageModule) summary(L *lua.LState) int {
	var s engine.Summary
	m.view(L, "summary", func(p *engine.Page) error {
		s = p.Summary()
		return nil
	})
	L.Push(pluginlua.NewBridge(L).ToLuaValue(s))
	return 1
}

// elements() -> nested element tables with their text
func (m *PageModule) elements(L *lua.LState) int {
	var elems []*engine.Element
	m.view(L, "elements", func(p *engine.Page) error {
		elems = p.Elements()
		return nil
	})
	L.Push(pluginlua.NewBridge(L).ToLuaValue(elems))
	return 1
}
