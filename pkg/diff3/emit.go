package diff3

import (
	"bytes"

	"github.com/odvcencio/xmerge/pkg/lines"
)

// markers renders conflict marker lines.
type markers struct {
	size               int
	ours, base, theirs string
}

func newMarkers(opts MergeOptions) markers {
	return markers{
		size:   opts.markerSize(),
		ours:   opts.OursLabel,
		base:   opts.AncestorLabel,
		theirs: opts.TheirsLabel,
	}
}

func (m markers) write(buf *bytes.Buffer, ch byte, label string, crlf bool) {
	for range m.size {
		buf.WriteByte(ch)
	}
	if label != "" {
		buf.WriteByte(' ')
		buf.WriteString(label)
	}
	if crlf {
		buf.WriteByte('\r')
	}
	buf.WriteByte('\n')
}

type emitter struct {
	base, ours, theirs *lines.Sequence
	style              Style
	markers            markers
	buf                bytes.Buffer
}

// Emit renders planned regions into the merged text. Conflict regions are
// resolved by opts.Favor or, without a favor, rendered with markers in
// opts.Style. Text between conflicts is copied from ours, except for
// TheirsOnly regions which are copied from theirs. Invalid options are
// rejected before anything is rendered.
func Emit(regions []Region, base, ours, theirs *lines.Sequence, opts MergeOptions) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	e := &emitter{
		base:    base,
		ours:    ours,
		theirs:  theirs,
		style:   opts.Style,
		markers: newMarkers(opts),
	}
	e.buf.Grow(max(len(ours.Source()), len(theirs.Source())))

	res := &Result{Regions: make([]Region, len(regions))}
	for i, r := range regions {
		if r.Kind == Conflict {
			r.Resolution = opts.Favor
		}
		res.Regions[i] = r

		switch {
		case r.Kind == TheirsOnly:
			e.copy(theirs, r.Theirs, false, false)
		case r.Kind != Conflict:
			e.copy(ours, r.Ours, false, false)
		case r.Resolution == FavorNone:
			e.conflict(r)
			res.Conflicts++
		case r.Resolution == FavorOurs:
			e.copy(ours, r.Ours, false, false)
		case r.Resolution == FavorTheirs:
			e.copy(theirs, r.Theirs, false, false)
		case r.Resolution == FavorUnion:
			e.copy(ours, r.Ours, true, e.needsCR(r))
			e.copy(theirs, r.Theirs, false, false)
		}
	}
	res.Merged = e.buf.Bytes()
	return res, nil
}

// copy writes the lines of span. With addNL a final line without
// terminator gets one, so that whatever follows starts on its own line.
func (e *emitter) copy(s *lines.Sequence, span Span, addNL, crlf bool) {
	if span.Len <= 0 {
		return
	}
	e.buf.Write(s.Join(span.Start, span.End()))
	if addNL && !s.Lines[span.End()-1].HasNewline() {
		if crlf {
			e.buf.WriteByte('\r')
		}
		e.buf.WriteByte('\n')
	}
}

func (e *emitter) conflict(r Region) {
	crlf := e.needsCR(r)
	m := e.markers

	m.write(&e.buf, '<', m.ours, crlf)
	e.copy(e.ours, r.Ours, true, crlf)
	if e.style == StyleDiff3 || e.style == StyleZealousDiff3 {
		m.write(&e.buf, '|', m.base, crlf)
		e.copy(e.base, r.Base, true, crlf)
	}
	m.write(&e.buf, '=', "", crlf)
	e.copy(e.theirs, r.Theirs, true, crlf)
	m.write(&e.buf, '>', m.theirs, crlf)
}

// needsCR decides whether lines added around a conflict end in CRLF: the
// line before the conflict on neither side may end in a bare LF, and the
// first base line must end in CRLF.
func (e *emitter) needsCR(r Region) bool {
	cr := eolCRLF(e.ours, max(r.Ours.Start-1, 0))
	if cr != 0 {
		cr = eolCRLF(e.theirs, max(r.Theirs.Start-1, 0))
	}
	if cr != 0 {
		cr = eolCRLF(e.base, 0)
	}
	return cr > 0
}

// eolCRLF reports whether line i of s ends in CRLF: 1 if it does, 0 if it
// ends in a bare LF, and -1 if s gives no indication. A last line without
// terminator defers to the line before it.
func eolCRLF(s *lines.Sequence, i int) int {
	n := s.Len()
	crlf := func(l lines.Line) int {
		if l.HasCRLF() {
			return 1
		}
		return 0
	}
	switch {
	case i < n-1:
		return crlf(s.Lines[i])
	case n == 0:
		return -1
	case s.Lines[i].HasNewline():
		return crlf(s.Lines[i])
	case i == 0:
		return -1
	default:
		return crlf(s.Lines[i-1])
	}
}
