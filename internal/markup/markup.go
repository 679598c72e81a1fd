// Package markup reads and writes structure record streams.
//
// A stream is YAML or JSON holding either a list of records or a mapping
// with a "nodes" list:
//
//	nodes:
//	  - {id: p1, tag: p, tagType: StartTag, length: 5}
//	  - {id: p1, tag: p, tagType: EndTag}
//
// Records are returned in stream order; a record's position in the list is
// its position in the tag stream.
package markup

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dshills/pagetree/internal/engine"
)

// ErrInvalidStream indicates a stream that is not a record list.
var ErrInvalidStream = errors.New("invalid structure stream")

// document is the mapping form of a stream.
type document struct {
	Nodes []record `yaml:"nodes"`
}

// record mirrors engine.Record with a textual tag type.
type record struct {
	ID         string            `yaml:"id,omitempty"`
	Tag        string            `yaml:"tag"`
	TagType    string            `yaml:"tagType"`
	Length     int               `yaml:"length,omitempty"`
	Style      map[string]string `yaml:"style,omitempty"`
	Attributes map[string]string `yaml:"attributes,omitempty"`
}

// Decode reads a structure stream. An empty stream yields no records.
func Decode(r io.Reader) ([]engine.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read structure: %w", err)
	}
	return DecodeBytes(data)
}

// DecodeBytes parses a structure stream held in memory.
func DecodeBytes(data []byte) ([]engine.Record, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidStream, err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, nil
	}

	var raw []record
	var err error
	switch top := root.Content[0]; top.Kind {
	case yaml.SequenceNode:
		err = top.Decode(&raw)
	case yaml.MappingNode:
		var doc document
		err = top.Decode(&doc)
		raw = doc.Nodes
	default:
		return nil, fmt.Errorf("%w: line %d: expected a list or a nodes mapping", ErrInvalidStream, top.Line)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidStream, err)
	}

	records := make([]engine.Record, 0, len(raw))
	for k, r := range raw {
		rec, err := r.toRecord()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", k, err)
		}
		rec.Offset = k
		records = append(records, rec)
	}
	return records, nil
}

// DecodeFile reads a structure stream from path.
func DecodeFile(path string) ([]engine.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	records, err := DecodeBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

func (r record) toRecord() (engine.Record, error) {
	if r.Tag == "" {
		return engine.Record{}, fmt.Errorf("%w: missing tag", ErrInvalidStream)
	}
	tt, err := engine.ParseTagType(r.TagType)
	if err != nil {
		return engine.Record{}, err
	}
	if r.Length < 0 {
		return engine.Record{}, fmt.Errorf("%w: negative length %d", ErrInvalidStream, r.Length)
	}
	return engine.Record{
		ID:         r.ID,
		Tag:        r.Tag,
		TagType:    tt,
		Length:     r.Length,
		Style:      r.Style,
		Attributes: r.Attributes,
	}, nil
}

// Records returns the structure of p as records in tag-stream order.
// Decoding the encoded records reproduces the structure.
func Records(p *engine.Page) []engine.Record {
	st := p.Structure()
	indices := st.Nodes()
	records := make([]engine.Record, 0, len(indices))
	for k, i := range indices {
		n, err := st.Node(i)
		if err != nil {
			continue
		}
		records = append(records, engine.Record{
			ID:         n.ID,
			Tag:        n.Tag,
			TagType:    n.TagType,
			Length:     n.Length,
			Style:      n.Style,
			Attributes: n.Attributes,
			Offset:     k,
		})
	}
	return records
}

// Encode writes records as a YAML nodes mapping.
func Encode(w io.Writer, records []engine.Record) error {
	doc := document{Nodes: make([]record, 0, len(records))}
	for _, r := range records {
		doc.Nodes = append(doc.Nodes, record{
			ID:         r.ID,
			Tag:        r.Tag,
			TagType:    r.TagType.String(),
			Length:     r.Length,
			Style:      r.Style,
			Attributes: r.Attributes,
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode structure: %w", err)
	}
	return enc.Close()
}
