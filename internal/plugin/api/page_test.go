package api

import (
	"context"
	"errors"
	"strings"
	"testing"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/pagetree/internal/app"
	"github.com/dshills/pagetree/internal/engine"
	pluginlua "github.com/dshills/pagetree/internal/plugin/lua"
)

func paragraphRecords() []engine.Record {
	return []engine.Record{
		{ID: "p1", Tag: "p", TagType: engine.StartTag, Length: 5},
		{ID: "p1", Tag: "p", TagType: engine.EndTag},
		{ID: "p2", Tag: "p", TagType: engine.StartTag, Length: 5},
		{ID: "p2", Tag: "p", TagType: engine.EndTag},
	}
}

func newTestStore(t *testing.T) *app.Store {
	t.Helper()
	s := app.NewStore(app.WithVerify(true))
	if _, err := s.Load("doc", "helloworld", paragraphRecords()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return s
}

// newScriptState returns a Lua state with the page, util and config
// modules installed over pages.
func newScriptState(t *testing.T, pages PageProvider, current string, cfg ConfigProvider) *pluginlua.State {
	t.Helper()
	state, err := pluginlua.NewState()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = state.Close() })

	reg := NewRegistry()
	for _, mod := range []Module{NewPageModule(pages, current), NewUtilModule(), NewConfigModule(cfg)} {
		if err := reg.Register(mod); err != nil {
			t.Fatal(err)
		}
	}
	if err := state.Inject(reg.InjectAll); err != nil {
		t.Fatalf("InjectAll() error = %v", err)
	}
	return state
}

func pageText(t *testing.T, s *app.Store, id string) string {
	t.Helper()
	var text string
	if err := s.View(id, func(p *engine.Page) error {
		text = p.Text()
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	return text
}

func TestPageModule_ReadAndEdit(t *testing.T) {
	store := newTestStore(t)
	state := newScriptState(t, store, "doc", nil)

	err := state.DoString(context.Background(), `
assert(page.id() == "doc")
assert(page.text() == "helloworld")
assert(page.text(2, 4) == "ll")
assert(page.len() == 10)
assert(page.lines() == 1)

assert(page.insert(5, "\n") == 6)
assert(page.text() == "hello\nworld", page.text())
assert(page.lines() == 2)

page.delete(0, 1)
assert(page.text() == "ello\nworld")

assert(page.replace(0, 4, "HELLO") == 5)
assert(page.text() == "HELLO\nworld")

local rows = page.nodes()
assert(#rows == 4)
assert(rows[1].tag == "p" and rows[1].tagType == "StartTag")
assert(rows[1].length == 6 and rows[1].start == 0)
assert(rows[3].start == 6 and rows[3].length == 5)
assert(page.node_at(8) == rows[3].index)

local n = page.split(rows[3].index, 8, 2)
assert(n > 0)
assert(#page.nodes() == 6)

local s = page.summary()
assert(s.id == "doc" and s.length == 11 and s.structureNodes == 6)
`)
	if err != nil {
		t.Fatalf("script error = %v", err)
	}

	if got := pageText(t, store, "doc"); got != "HELLO\nworld" {
		t.Errorf("text = %q", got)
	}
	if m := store.Metrics().Snapshot(); m.Accepted() != 5 {
		t.Errorf("accepted = %d, want 5 edits dispatched through the store", m.Accepted())
	}
}

func TestPageModule_BreakParagraph(t *testing.T) {
	store := newTestStore(t)
	state := newScriptState(t, store, "doc", nil)

	err := state.DoString(context.Background(), `
local n = page.break_paragraph(2)
assert(n > 0)
local els = page.elements()
assert(#els == 3, #els)
assert(els[1].text == "he\n", els[1].text)
assert(els[2].text == "llo")
assert(els[3].text == "world")
`)
	if err != nil {
		t.Fatalf("script error = %v", err)
	}
}

func TestPageModule_InsertStructure(t *testing.T) {
	store := app.NewStore()
	if _, err := store.Load("plain", "abc", nil); err != nil {
		t.Fatal(err)
	}
	state := newScriptState(t, store, "plain", nil)

	err := state.DoString(context.Background(), `
assert(page.break_paragraph(1) == 0)
local i = page.insert_structure{tag = "p", tagType = "StartTag", length = 4, id = "x", style = {color = "red"}}
assert(i > 0)
page.insert_structure{tag = "p", tagType = "EndTag", id = "x", offset = 1}
local els = page.elements()
assert(#els == 1 and els[1].id == "x" and els[1].style.color == "red")
`)
	if err != nil {
		t.Fatalf("script error = %v", err)
	}
	if got := pageText(t, store, "plain"); got != "a\nbc" {
		t.Errorf("text = %q", got)
	}
}

func TestPageModule_Use(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Load("other", "xyz", nil); err != nil {
		t.Fatal(err)
	}
	state := newScriptState(t, store, "", nil)
	ctx := context.Background()

	if err := state.DoString(ctx, `page.text()`); err == nil || !strings.Contains(err.Error(), ErrNoPage.Error()) {
		t.Errorf("text() without a page = %v", err)
	}

	err := state.DoString(ctx, `
local ids = page.list()
assert(#ids == 2 and ids[1] == "doc" and ids[2] == "other")
page.use("other")
assert(page.id() == "other")
page.insert(3, "!")
assert(page.text() == "xyz!")
`)
	if err != nil {
		t.Fatalf("script error = %v", err)
	}

	if err := state.DoString(ctx, `page.use("missing")`); err == nil {
		t.Error("use(missing) should fail")
	}
}

func TestPageModule_Errors(t *testing.T) {
	store := newTestStore(t)
	state := newScriptState(t, store, "doc", nil)

	tests := []struct {
		name string
		code string
		want string
	}{
		{"insert out of range", `page.insert(99, "x")`, "insert"},
		{"delete reversed", `page.delete(4, 2)`, "end must be >= start"},
		{"split end tag", `page.split(page.nodes()[2].index, 5, 0)`, "split"},
		{"bad tag type", `page.insert_structure{tag = "p", tagType = "middle"}`, "middle"},
		{"missing tag", `page.insert_structure{tagType = "StartTag"}`, "tag is required"},
		{"bad node", `page.insert(0, "x", 999)`, "insert"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := state.DoString(context.Background(), tt.code)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want mention of %q", err, tt.want)
			}
		})
	}

	if got := pageText(t, store, "doc"); got != "helloworld" {
		t.Errorf("rejected edits changed the page: %q", got)
	}
}

type failingPages struct {
	dispatched []app.Action
}

func (f *failingPages) IDs() []string { return []string{"doc"} }

func (f *failingPages) View(id string, fn func(*engine.Page) error) error {
	return app.NewOperationError("view", id, app.ErrPageNotFound)
}

func (f *failingPages) Dispatch(a app.Action, _ ...engine.Option) (app.Result, error) {
	f.dispatched = append(f.dispatched, a)
	return app.Result{}, errors.New("store offline")
}

func TestPageModule_ProviderErrors(t *testing.T) {
	pages := &failingPages{}
	state := newScriptState(t, pages, "doc", nil)
	ctx := context.Background()

	if err := state.DoString(ctx, `page.len()`); err == nil || !strings.Contains(err.Error(), "page not found") {
		t.Errorf("len() = %v", err)
	}
	if err := state.DoString(ctx, `page.insert(0, "x", 3)`); err == nil || !strings.Contains(err.Error(), "store offline") {
		t.Errorf("insert() = %v", err)
	}

	if len(pages.dispatched) != 1 {
		t.Fatalf("dispatched %d actions", len(pages.dispatched))
	}
	got := pages.dispatched[0]
	if got.Type != app.ActionInsert || got.PageID != "doc" || got.Text != "x" || got.StructureNodeIndex != 3 {
		t.Errorf("dispatched %+v", got)
	}
}

func TestPageModule_Require(t *testing.T) {
	store := newTestStore(t)
	state := newScriptState(t, store, "doc", nil)

	err := state.DoString(context.Background(), `
local pt = require("pagetree")
assert(pt.version == "`+Version+`")
assert(pt.page.len() == 10)
assert(pt.util ~= nil and pt.config ~= nil)
`)
	if err != nil {
		t.Fatalf("script error = %v", err)
	}

	if v := state.GetGlobal("page"); v.Type() != lua.LTTable {
		t.Errorf("page global = %v", v.Type())
	}
}
