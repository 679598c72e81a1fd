package app

import (
	"errors"
	"strings"
	"testing"

	"github.com/dshills/pagetree/internal/engine"
)

func TestDecodeAction(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(t *testing.T, a Action)
	}{
		{
			name:  "insert",
			input: `{"type":"insert","pageId":"p1","offset":4,"text":"abc"}`,
			check: func(t *testing.T, a Action) {
				if a.Type != ActionInsert || a.PageID != "p1" || a.Offset != 4 || a.Text != "abc" {
					t.Errorf("got %+v", a)
				}
				if a.StructureNodeIndex != engine.NoNode {
					t.Errorf("StructureNodeIndex = %d, want NoNode", a.StructureNodeIndex)
				}
			},
		},
		{
			name:  "delete",
			input: `{"type":"delete","pageId":"p1","startOffset":2,"endOffset":4}`,
			check: func(t *testing.T, a Action) {
				if a.StartOffset != 2 || a.EndOffset != 4 {
					t.Errorf("got %+v", a)
				}
			},
		},
		{
			name:  "replace with owner",
			input: `{"type":"replace","pageId":"p1","startOffset":0,"endOffset":1,"text":"Z","structureNodeIndex":3}`,
			check: func(t *testing.T, a Action) {
				if a.Text != "Z" || a.EndOffset != 1 || a.StructureNodeIndex != 3 {
					t.Errorf("got %+v", a)
				}
			},
		},
		{
			name:  "split structure",
			input: `{"type":"splitStructure","pageId":"p1","nodeIndex":1,"nodeContentOffset":3,"localContentOffset":3}`,
			check: func(t *testing.T, a Action) {
				if a.NodeIndex != 1 || a.NodeContentOffset != 3 || a.LocalContentOffset != 3 {
					t.Errorf("got %+v", a)
				}
			},
		},
		{
			name:  "insert structure",
			input: `{"type":"insertStructure","pageId":"p1","node":{"tag":"img","tagType":"StartEndTag","offset":2,"attributes":{"src":"a.png"}}}`,
			check: func(t *testing.T, a Action) {
				if a.Node.Tag != "img" || a.Node.TagType != engine.StartEndTag || a.Node.Offset != 2 {
					t.Errorf("got %+v", a.Node)
				}
				if a.Node.Attributes["src"] != "a.png" {
					t.Errorf("attributes = %v", a.Node.Attributes)
				}
			},
		},
		{
			name:  "break paragraph",
			input: `{"type":"breakParagraph","pageId":"p1","offset":3}`,
			check: func(t *testing.T, a Action) {
				if a.Type != ActionBreakParagraph || a.Offset != 3 {
					t.Errorf("got %+v", a)
				}
			},
		},
		{
			name:  "load with structure",
			input: `{"type":"load","pageId":"p1","text":"hi","newline":"crlf","structure":[{"id":"a","tag":"p","tagType":"start","length":2,"style":{"color":"red"}},{"id":"a","tag":"p","tagType":"end"}]}`,
			check: func(t *testing.T, a Action) {
				if a.Text != "hi" || a.Newline != "crlf" || len(a.Structure) != 2 {
					t.Fatalf("got %+v", a)
				}
				if a.Structure[0].Length != 2 || a.Structure[0].Style["color"] != "red" {
					t.Errorf("record 0 = %+v", a.Structure[0])
				}
				if a.Structure[1].TagType != engine.EndTag {
					t.Errorf("record 1 = %+v", a.Structure[1])
				}
			},
		},
		{
			name:  "unload",
			input: `{"type":"unload","pageId":"p1"}`,
			check: func(t *testing.T, a Action) {
				if a.Type != ActionUnload {
					t.Errorf("got %+v", a)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := DecodeAction([]byte(tt.input))
			if err != nil {
				t.Fatalf("DecodeAction() error = %v", err)
			}
			tt.check(t, a)
		})
	}
}

func TestDecodeActionErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"malformed", `{"type":`, ErrInvalidAction},
		{"not an object", `[1,2]`, ErrInvalidAction},
		{"missing type", `{"pageId":"p1"}`, ErrInvalidAction},
		{"unknown type", `{"type":"undo","pageId":"p1"}`, ErrUnknownAction},
		{"missing offset", `{"type":"insert","pageId":"p1","text":"x"}`, ErrInvalidAction},
		{"string offset", `{"type":"insert","pageId":"p1","offset":"1"}`, ErrInvalidAction},
		{"fractional offset", `{"type":"delete","pageId":"p1","startOffset":1.5,"endOffset":2}`, ErrInvalidAction},
		{"missing node", `{"type":"insertStructure","pageId":"p1"}`, ErrInvalidAction},
		{"bad tag type", `{"type":"insertStructure","pageId":"p1","node":{"tag":"p","tagType":"middle"}}`, ErrInvalidAction},
		{"record without tag", `{"type":"load","structure":[{"tagType":"start"}]}`, ErrInvalidAction},
		{"structure not a list", `{"type":"load","structure":{"tag":"p"}}`, ErrInvalidAction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeAction([]byte(tt.input))
			if !errors.Is(err, tt.want) {
				t.Errorf("DecodeAction() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDecodeActions(t *testing.T) {
	t.Run("json lines", func(t *testing.T) {
		script := `# setup
{"type":"load","pageId":"p1","text":"abc"}

{"type":"insert","pageId":"p1","offset":3,"text":"d"}
`
		actions, err := DecodeActions(strings.NewReader(script))
		if err != nil {
			t.Fatal(err)
		}
		if len(actions) != 2 || actions[1].Text != "d" {
			t.Errorf("actions = %+v", actions)
		}
	})

	t.Run("array", func(t *testing.T) {
		script := `[{"type":"load","pageId":"p1"},{"type":"unload","pageId":"p1"}]`
		actions, err := DecodeActions(strings.NewReader(script))
		if err != nil {
			t.Fatal(err)
		}
		if len(actions) != 2 || actions[1].Type != ActionUnload {
			t.Errorf("actions = %+v", actions)
		}
	})

	t.Run("error names line", func(t *testing.T) {
		script := "{\"type\":\"load\",\"pageId\":\"p1\"}\n{\"type\":\"insert\"}\n"
		_, err := DecodeActions(strings.NewReader(script))
		if err == nil || !strings.Contains(err.Error(), "line 2") {
			t.Errorf("error = %v, want line 2", err)
		}
	})

	t.Run("error names array index", func(t *testing.T) {
		_, err := DecodeActions(strings.NewReader(`[{"type":"load"},{"type":"nope"}]`))
		if !errors.Is(err, ErrUnknownAction) || !strings.Contains(err.Error(), "action 1") {
			t.Errorf("error = %v", err)
		}
	})
}

func TestDecodeAction_WithoutPage(t *testing.T) {
	a, err := DecodeAction([]byte(`{"type":"insert","offset":1,"text":"x"}`))
	if err != nil {
		t.Fatalf("DecodeAction() error = %v", err)
	}
	if a.PageID != "" || a.Offset != 1 || a.Text != "x" {
		t.Errorf("DecodeAction() = %+v", a)
	}

	s := NewStore()
	if _, err := s.Dispatch(a); !errors.Is(err, ErrPageNotFound) {
		t.Errorf("Dispatch() = %v, want ErrPageNotFound", err)
	}
}
