package lua

import (
	"reflect"
	"testing"

	glua "github.com/yuin/gopher-lua"
)

func TestBridgeToGoValue(t *testing.T) {
	L := glua.NewState()
	defer L.Close()
	b := NewBridge(L)

	if err := L.DoString(`
list = {1, "two", true}
dict = {a = 1.5, b = {c = "d"}}
cyc = {}
cyc.self = cyc
`); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		in   glua.LValue
		want any
	}{
		{"nil", glua.LNil, nil},
		{"int", glua.LNumber(3), int64(3)},
		{"float", glua.LNumber(2.5), 2.5},
		{"string", glua.LString("x"), "x"},
		{"list", L.GetGlobal("list"), []any{int64(1), "two", true}},
		{"dict", L.GetGlobal("dict"), map[string]any{"a": 1.5, "b": map[string]any{"c": "d"}}},
		{"cycle", L.GetGlobal("cyc"), map[string]any{"self": nil}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.ToGoValue(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ToGoValue() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

type sample struct {
	Name     string            `json:"name"`
	Count    int               `json:"count,omitempty"`
	Hidden   string            `json:"-"`
	Tags     map[string]string `json:"tags"`
	Children []*sample         `json:"children"`
	private  int
}

func TestBridgeToLuaValue(t *testing.T) {
	L := glua.NewState()
	defer L.Close()
	b := NewBridge(L)

	v := b.ToLuaValue(&sample{
		Name:     "root",
		Count:    2,
		Hidden:   "no",
		Tags:     map[string]string{"k": "v"},
		Children: []*sample{{Name: "leaf"}},
		private:  1,
	})
	tbl, ok := v.(*glua.LTable)
	if !ok {
		t.Fatalf("ToLuaValue() = %T, want table", v)
	}

	L.SetGlobal("s", tbl)
	if err := L.DoString(`
assert(s.name == "root")
assert(s.count == 2)
assert(s.Hidden == nil)
assert(s.private == nil)
assert(s.tags.k == "v")
assert(#s.children == 1 and s.children[1].name == "leaf")
`); err != nil {
		t.Errorf("table shape: %v", err)
	}

	for _, in := range []any{nil, (*sample)(nil)} {
		if got := b.ToLuaValue(in); got != glua.LNil {
			t.Errorf("ToLuaValue(%v) = %v, want nil", in, got)
		}
	}
}

func TestBridgeTableGetters(t *testing.T) {
	L := glua.NewState()
	defer L.Close()
	b := NewBridge(L)

	if err := L.DoString(`t = {tag = "p", length = 4, style = {color = "red"}}`); err != nil {
		t.Fatal(err)
	}
	tbl := L.GetGlobal("t").(*glua.LTable)

	if s, ok := b.GetTableString(tbl, "tag"); !ok || s != "p" {
		t.Errorf("GetTableString() = %q, %v", s, ok)
	}
	if _, ok := b.GetTableString(tbl, "length"); ok {
		t.Error("GetTableString() on a number should fail")
	}
	if n, ok := b.GetTableInt(tbl, "length"); !ok || n != 4 {
		t.Errorf("GetTableInt() = %d, %v", n, ok)
	}
	if m := b.GetStringMap(tbl, "style"); !reflect.DeepEqual(m, map[string]string{"color": "red"}) {
		t.Errorf("GetStringMap() = %v", m)
	}
	if m := b.GetStringMap(tbl, "missing"); m != nil {
		t.Errorf("GetStringMap(missing) = %v", m)
	}
}
