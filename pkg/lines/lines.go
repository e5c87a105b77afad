// Package lines splits text into line records for the diff and merge
// engines. Lines borrow the input buffer; nothing is copied.
package lines

import (
	"bytes"

	"github.com/cespare/xxhash/v2"
)

// Line is one record of a text: its bytes, including the trailing '\n' when
// present, and a 64-bit hash of those bytes.
type Line struct {
	Text []byte
	Hash uint64
}

// Len returns the byte length of the line, terminator included.
func (l Line) Len() int { return len(l.Text) }

// HasNewline reports whether the line ends with '\n'.
func (l Line) HasNewline() bool {
	return len(l.Text) > 0 && l.Text[len(l.Text)-1] == '\n'
}

// HasCRLF reports whether the line ends with "\r\n".
func (l Line) HasCRLF() bool {
	n := len(l.Text)
	return n > 1 && l.Text[n-1] == '\n' && l.Text[n-2] == '\r'
}

// Equal reports whether two lines have identical bytes.
func (l Line) Equal(o Line) bool {
	return l.Hash == o.Hash && bytes.Equal(l.Text, o.Text)
}

// Sequence is the ordered list of lines of one text.
type Sequence struct {
	Lines []Line
	src   []byte
	offs  []int
}

// Split tokenizes text. Each line keeps its terminator so that joining every
// line reproduces text exactly; a final line without '\n' is kept as is.
// Empty input yields an empty sequence.
func Split(text []byte) *Sequence {
	s := &Sequence{src: text}
	if len(text) == 0 {
		return s
	}
	n := bytes.Count(text, []byte{'\n'}) + 1
	s.Lines = make([]Line, 0, n)
	s.offs = make([]int, 0, n)
	for start := 0; start < len(text); {
		end := bytes.IndexByte(text[start:], '\n')
		if end < 0 {
			end = len(text)
		} else {
			end += start + 1
		}
		rec := text[start:end:end]
		s.Lines = append(s.Lines, Line{Text: rec, Hash: xxhash.Sum64(rec)})
		s.offs = append(s.offs, start)
		start = end
	}
	return s
}

// Len returns the number of lines.
func (s *Sequence) Len() int { return len(s.Lines) }

// Source returns the text the sequence was split from.
func (s *Sequence) Source() []byte { return s.src }

// MissingNewline reports whether the last line lacks a terminator.
func (s *Sequence) MissingNewline() bool {
	return len(s.Lines) > 0 && !s.Lines[len(s.Lines)-1].HasNewline()
}

// Join returns the bytes of lines [start, end). For a sequence produced by
// Split the result aliases the source buffer.
func (s *Sequence) Join(start, end int) []byte {
	if start >= end {
		return nil
	}
	if s.offs != nil {
		return s.src[s.offs[start] : s.offs[end-1]+s.Lines[end-1].Len()]
	}
	var buf bytes.Buffer
	for _, l := range s.Lines[start:end] {
		buf.Write(l.Text)
	}
	return buf.Bytes()
}

// FromLines wraps already-split lines in a Sequence with no source buffer.
func FromLines(ls []Line) *Sequence {
	return &Sequence{Lines: ls}
}
