package content

import (
	"fmt"
	"strings"
)

// NewlineFormat is the line break convention of a page.
type NewlineFormat uint8

const (
	NewlineLF   NewlineFormat = iota // Unix: \n
	NewlineCRLF                      // Windows: \r\n
)

// detectWindow is how much of a document DetectNewline inspects.
const detectWindow = 100

// String returns the configuration name of the format.
func (f NewlineFormat) String() string {
	if f == NewlineCRLF {
		return "crlf"
	}
	return "lf"
}

// Sequence returns the characters that make up a line break.
func (f NewlineFormat) Sequence() string {
	if f == NewlineCRLF {
		return "\r\n"
	}
	return "\n"
}

// ParseNewline parses a format name. The empty string yields LF.
func ParseNewline(s string) (NewlineFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lf", "\n", "unix":
		return NewlineLF, nil
	case "crlf", "\r\n", "windows":
		return NewlineCRLF, nil
	default:
		return NewlineLF, fmt.Errorf("%w: %q", ErrUnknownNewline, s)
	}
}

// DetectNewline sniffs the newline format from the first 100 bytes of text.
// The first line break decides: a bare LF reports LF, a CR followed by LF
// reports CRLF. The LF of a pair may sit just past the window. Text without
// a line break there reports LF.
func DetectNewline(text string) NewlineFormat {
	for i := 0; i < detectWindow && i < len(text); i++ {
		switch text[i] {
		case '\n':
			return NewlineLF
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				return NewlineCRLF
			}
		}
	}
	return NewlineLF
}

// scanLineStarts appends to dst the offset just past every line break in
// text, shifted by base.
func scanLineStarts(dst []int, text string, nl NewlineFormat, base int) []int {
	seq := nl.Sequence()
	pos := 0
	for {
		i := strings.Index(text[pos:], seq)
		if i < 0 {
			return dst
		}
		pos += i + len(seq)
		dst = append(dst, base+pos)
	}
}
