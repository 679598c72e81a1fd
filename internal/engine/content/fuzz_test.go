package content

import (
	"testing"
)

// FuzzEdits drives a table and a plain string with the same byte-encoded edit
// script and checks they agree.
func FuzzEdits(f *testing.F) {
	f.Add("abc\ndef", []byte{3, 1, 'X', 4, 1, 'Y', 0x82, 2})
	f.Add("", []byte{0, 3, 'a', '\n', 'b'})
	f.Add("line one\nline two\n", []byte{9, 0x85, 1, 5, 2, '\n', '\n'})
	f.Add("x", []byte{0x80, 1, 0, 1, 'q'})

	f.Fuzz(func(t *testing.T, initial string, script []byte) {
		tb := NewTable(initial, NewlineLF)
		model := initial

		for len(script) >= 2 {
			op, arg := script[0], int(script[1])
			script = script[2:]
			off := int(op&0x7f) % (len(model) + 1)

			if op&0x80 != 0 {
				end := off + arg
				if end > len(model) {
					end = len(model)
				}
				if err := tb.Delete(off, end); err != nil {
					t.Fatalf("Delete(%d, %d) error = %v", off, end, err)
				}
				model = model[:off] + model[end:]
			} else {
				n := arg
				if n > len(script) {
					n = len(script)
				}
				text := string(script[:n])
				script = script[n:]
				if err := tb.Insert(off, text, 16); err != nil {
					t.Fatalf("Insert(%d) error = %v", off, err)
				}
				model = model[:off] + text + model[off:]
			}

			if err := tb.Validate(); err != nil {
				t.Fatal(err)
			}
		}

		if got := tb.Text(); got != model {
			t.Errorf("Text() = %q, want %q", got, model)
		}
	})
}
