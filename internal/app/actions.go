package app

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/tidwall/gjson"

	"github.com/dshills/pagetree/internal/engine"
)

// ActionType names an edit the store can apply.
type ActionType string

// Action types.
const (
	ActionLoad            ActionType = "load"
	ActionUnload          ActionType = "unload"
	ActionInsert          ActionType = "insert"
	ActionDelete          ActionType = "delete"
	ActionReplace         ActionType = "replace"
	ActionSplitStructure  ActionType = "splitStructure"
	ActionInsertStructure ActionType = "insertStructure"
	ActionBreakParagraph  ActionType = "breakParagraph"
)

// Action is one request against a page. Only the fields its type uses are
// read; the zero StructureNodeIndex lets the page locate the owning node.
type Action struct {
	Type   ActionType
	PageID string

	Text   string
	Offset int

	StartOffset int
	EndOffset   int

	StructureNodeIndex int

	NodeIndex          int
	NodeContentOffset  int
	LocalContentOffset int

	// Node is the structure node to add for insertStructure; its Offset is
	// the ordinal position.
	Node engine.Record

	// Structure and Newline configure a load.
	Structure []engine.Record
	Newline   string
}

// DecodeAction parses one JSON action object such as
//
//	{"type":"insert","pageId":"p1","offset":4,"text":"abc"}
//
// pageId may be omitted; the caller then fills it in before dispatch.
func DecodeAction(data []byte) (Action, error) {
	if !gjson.ValidBytes(data) {
		return Action{}, fmt.Errorf("%w: malformed json", ErrInvalidAction)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return Action{}, fmt.Errorf("%w: expected object", ErrInvalidAction)
	}

	a := Action{
		Type:    ActionType(root.Get("type").String()),
		PageID:  root.Get("pageId").String(),
		Text:    root.Get("text").String(),
		Newline: root.Get("newline").String(),
	}

	var err error
	switch a.Type {
	case ActionLoad:
		if s := root.Get("structure"); s.Exists() {
			a.Structure, err = decodeRecords(s)
		}
	case ActionUnload:
	case ActionInsert:
		err = decodeInts(root, map[string]*int{
			"offset":             &a.Offset,
			"structureNodeIndex": &a.StructureNodeIndex,
		}, "offset")
	case ActionDelete:
		err = decodeInts(root, map[string]*int{
			"startOffset": &a.StartOffset,
			"endOffset":   &a.EndOffset,
		}, "startOffset", "endOffset")
	case ActionReplace:
		err = decodeInts(root, map[string]*int{
			"startOffset":        &a.StartOffset,
			"endOffset":          &a.EndOffset,
			"structureNodeIndex": &a.StructureNodeIndex,
		}, "startOffset", "endOffset")
	case ActionSplitStructure:
		err = decodeInts(root, map[string]*int{
			"nodeIndex":          &a.NodeIndex,
			"nodeContentOffset":  &a.NodeContentOffset,
			"localContentOffset": &a.LocalContentOffset,
		}, "nodeIndex", "nodeContentOffset", "localContentOffset")
	case ActionInsertStructure:
		n := root.Get("node")
		if !n.IsObject() {
			err = fmt.Errorf("%w: insertStructure needs a node object", ErrInvalidAction)
			break
		}
		a.Node, err = decodeRecord(n)
	case ActionBreakParagraph:
		err = decodeInts(root, map[string]*int{
			"offset":             &a.Offset,
			"structureNodeIndex": &a.StructureNodeIndex,
		}, "offset")
	case "":
		err = fmt.Errorf("%w: missing type", ErrInvalidAction)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownAction, a.Type)
	}
	if err != nil {
		return Action{}, err
	}
	return a, nil
}

// DecodeActions reads a script of actions: either a JSON array or one
// object per line. Blank lines and lines starting with '#' are skipped.
func DecodeActions(r io.Reader) ([]Action, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read actions: %w", err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if !gjson.ValidBytes(trimmed) {
			return nil, fmt.Errorf("%w: malformed json array", ErrInvalidAction)
		}
		var actions []Action
		var decodeErr error
		gjson.ParseBytes(trimmed).ForEach(func(key, value gjson.Result) bool {
			a, err := DecodeAction([]byte(value.Raw))
			if err != nil {
				decodeErr = fmt.Errorf("action %d: %w", key.Int(), err)
				return false
			}
			actions = append(actions, a)
			return true
		})
		return actions, decodeErr
	}

	var actions []Action
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := bytes.TrimSpace(sc.Bytes())
		if len(text) == 0 || text[0] == '#' {
			continue
		}
		a, err := DecodeAction(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		actions = append(actions, a)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read actions: %w", err)
	}
	return actions, nil
}

// decodeInts fills dst from integer fields of obj. Fields named in
// required must be present.
func decodeInts(obj gjson.Result, dst map[string]*int, required ...string) error {
	for _, name := range required {
		if !obj.Get(name).Exists() {
			return fmt.Errorf("%w: missing %s", ErrInvalidAction, name)
		}
	}
	for name, p := range dst {
		v := obj.Get(name)
		if !v.Exists() {
			continue
		}
		n, err := integer(name, v)
		if err != nil {
			return err
		}
		*p = n
	}
	return nil
}

func integer(name string, v gjson.Result) (int, error) {
	if v.Type != gjson.Number {
		return 0, fmt.Errorf("%w: %s must be a number", ErrInvalidAction, name)
	}
	f := v.Float()
	if f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, fmt.Errorf("%w: %s must be an integer", ErrInvalidAction, name)
	}
	return int(v.Int()), nil
}

func decodeRecords(list gjson.Result) ([]engine.Record, error) {
	if !list.IsArray() {
		return nil, fmt.Errorf("%w: structure must be an array", ErrInvalidAction)
	}
	var records []engine.Record
	for k, item := range list.Array() {
		r, err := decodeRecord(item)
		if err != nil {
			return nil, fmt.Errorf("structure record %d: %w", k, err)
		}
		records = append(records, r)
	}
	return records, nil
}

func decodeRecord(obj gjson.Result) (engine.Record, error) {
	if !obj.IsObject() {
		return engine.Record{}, fmt.Errorf("%w: record must be an object", ErrInvalidAction)
	}
	r := engine.Record{
		ID:  obj.Get("id").String(),
		Tag: obj.Get("tag").String(),
	}
	if r.Tag == "" {
		return engine.Record{}, fmt.Errorf("%w: record needs a tag", ErrInvalidAction)
	}

	tt, err := engine.ParseTagType(obj.Get("tagType").String())
	if err != nil {
		return engine.Record{}, fmt.Errorf("%w: %w", ErrInvalidAction, err)
	}
	r.TagType = tt

	if err := decodeInts(obj, map[string]*int{
		"length": &r.Length,
		"offset": &r.Offset,
	}); err != nil {
		return engine.Record{}, err
	}
	r.Style = stringMap(obj.Get("style"))
	r.Attributes = stringMap(obj.Get("attributes"))
	return r, nil
}

func stringMap(obj gjson.Result) map[string]string {
	if !obj.IsObject() {
		return nil
	}
	m := make(map[string]string)
	obj.ForEach(func(key, value gjson.Result) bool {
		m[key.String()] = value.String()
		return true
	})
	return m
}
