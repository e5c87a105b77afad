package diff3

import (
	"fmt"

	"github.com/odvcencio/xmerge/pkg/diff"
	"github.com/odvcencio/xmerge/pkg/lines"
)

// pick says which text a planned change takes its lines from.
type pick uint8

const (
	pickConflict pick = 0
	pickOurs     pick = 1
	pickTheirs   pick = 2
	// pickSame is a conflict whose two sides turned out to be identical.
	pickSame pick = 4
)

// change is one entry of the plan in the coordinates of all three texts:
// base lines [i0, i0+chg0), ours lines [i1, i1+chg1) and theirs lines
// [i2, i2+chg2). Outside changes, ours and theirs agree.
type change struct {
	pick     pick
	i0, chg0 int
	i1, chg1 int
	i2, chg2 int
}

func (c change) region() Region {
	r := Region{
		Base:   Span{c.i0, c.chg0},
		Ours:   Span{c.i1, c.chg1},
		Theirs: Span{c.i2, c.chg2},
	}
	switch c.pick {
	case pickOurs:
		r.Kind = OursOnly
	case pickTheirs:
		r.Kind = TheirsOnly
	case pickSame:
		r.Kind = Concordant
	default:
		r.Kind = Conflict
	}
	return r
}

type planner struct {
	base, ours, theirs   *lines.Sequence
	baseOurs, baseTheirs *diff.Script
	alg                  diff.Algorithm
	changes              []change
}

// Plan classifies the three texts into regions, given the scripts from base
// to ours and from base to theirs. Both scripts must have been computed on
// these sequences.
func Plan(base, ours, theirs *lines.Sequence, baseOurs, baseTheirs *diff.Script, opts MergeOptions) ([]Region, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if baseOurs.BaseLen != base.Len() || baseOurs.OtherLen != ours.Len() ||
		baseTheirs.BaseLen != base.Len() || baseTheirs.OtherLen != theirs.Len() {
		return nil, fmt.Errorf("plan: %w: scripts do not match the inputs", ErrInvalidInput)
	}

	p := &planner{
		base:       base,
		ours:       ours,
		theirs:     theirs,
		baseOurs:   baseOurs,
		baseTheirs: baseTheirs,
		alg:        opts.Algorithm,
	}
	level := opts.effectiveLevel()
	p.sweep(level)

	switch {
	case opts.Style == StyleZealousDiff3:
		p.trimConflicts()
	case level >= LevelZealous:
		if err := p.refineConflicts(); err != nil {
			return nil, err
		}
		p.joinConflicts(level > LevelZealous)
	}
	return p.regions()
}

// add appends a change, folding it into the previous one when the two
// overlap or touch on our or their side. Folding changes of different
// picks yields a conflict.
func (p *planner) add(pk pick, i0, chg0, i1, chg1, i2, chg2 int) {
	if n := len(p.changes); n > 0 {
		m := &p.changes[n-1]
		if i1 <= m.i1+m.chg1 || i2 <= m.i2+m.chg2 {
			if pk != m.pick {
				m.pick = pickConflict
			}
			m.chg0 = i0 + chg0 - m.i0
			m.chg1 = i1 + chg1 - m.i1
			m.chg2 = i2 + chg2 - m.i2
			return
		}
	}
	p.changes = append(p.changes, change{pick: pk, i0: i0, chg0: chg0, i1: i1, chg1: chg1, i2: i2, chg2: chg2})
}

// sweep walks both scripts in lockstep over base positions. A hunk that
// ends strictly before the other script's next hunk is taken from its side;
// hunks that overlap or touch become one conflict covering both, unless
// they make the very same change.
func (p *planner) sweep(level Level) {
	hs1, hs2 := p.baseOurs.Hunks, p.baseTheirs.Hunks
	i, j := 0, 0
	for i < len(hs1) && j < len(hs2) {
		h1, h2 := hs1[i], hs2[j]
		if h1.BaseEnd() < h2.BaseStart {
			p.add(pickOurs,
				h1.BaseStart, h1.BaseLen,
				h1.OtherStart, h1.OtherLen,
				h2.OtherStart-h2.BaseStart+h1.BaseStart, h1.BaseLen)
			i++
			continue
		}
		if h2.BaseEnd() < h1.BaseStart {
			p.add(pickTheirs,
				h2.BaseStart, h2.BaseLen,
				h1.OtherStart-h1.BaseStart+h2.BaseStart, h2.BaseLen,
				h2.OtherStart, h2.OtherLen)
			j++
			continue
		}

		if level == LevelMinimal || !p.sameChange(h1, h2) {
			// Grow the hunk that starts later back to the earlier start,
			// and the one that ends earlier on to the later end. Lines
			// outside a side's own hunk are unchanged base lines.
			off := h1.BaseStart - h2.BaseStart
			ffo := off + h1.BaseLen - h2.BaseLen

			i0, i1, i2 := h1.BaseStart, h1.OtherStart, h2.OtherStart
			if off > 0 {
				i0 -= off
				i1 -= off
			} else {
				i2 += off
			}
			chg0 := h1.BaseEnd() - i0
			chg1 := h1.OtherEnd() - i1
			chg2 := h2.OtherEnd() - i2
			if ffo < 0 {
				chg0 -= ffo
				chg1 -= ffo
			} else {
				chg2 += ffo
			}
			p.add(pickConflict, i0, chg0, i1, chg1, i2, chg2)
		}

		e1, e2 := h1.BaseEnd(), h2.BaseEnd()
		if e1 >= e2 {
			j++
		}
		if e2 >= e1 {
			i++
		}
	}

	for ; i < len(hs1); i++ {
		h1 := hs1[i]
		p.add(pickOurs,
			h1.BaseStart, h1.BaseLen,
			h1.OtherStart, h1.OtherLen,
			h1.BaseStart+p.theirs.Len()-p.base.Len(), h1.BaseLen)
	}
	for ; j < len(hs2); j++ {
		h2 := hs2[j]
		p.add(pickTheirs,
			h2.BaseStart, h2.BaseLen,
			h2.BaseStart+p.ours.Len()-p.base.Len(), h2.BaseLen,
			h2.OtherStart, h2.OtherLen)
	}
}

// sameChange reports whether two hunks replace the same base lines with
// the same text.
func (p *planner) sameChange(h1, h2 diff.Hunk) bool {
	if h1.BaseStart != h2.BaseStart || h1.BaseLen != h2.BaseLen || h1.OtherLen != h2.OtherLen {
		return false
	}
	return p.sidesEqual(h1.OtherStart, h2.OtherStart, h1.OtherLen)
}

func (p *planner) sidesEqual(i1, i2, n int) bool {
	for k := range n {
		if !p.ours.Lines[i1+k].Equal(p.theirs.Lines[i2+k]) {
			return false
		}
	}
	return true
}

// regions turns the change list into regions covering every line of ours
// and theirs. Lines between changes are common to both sides; they are
// Stable where ours kept the base line and Concordant where both sides
// made the same edit.
func (p *planner) regions() ([]Region, error) {
	oursToBase := baseIndex(p.baseOurs)

	out := make([]Region, 0, 2*len(p.changes)+1)
	o, t, b := 0, 0, 0
	for _, c := range p.changes {
		var err error
		if out, err = p.gap(out, oursToBase, o, c.i1, t, c.i2, &b, c.i0); err != nil {
			return nil, err
		}
		out = append(out, c.region())
		o, t = c.i1+c.chg1, c.i2+c.chg2
		b = max(b, c.i0+c.chg0)
	}
	return p.gap(out, oursToBase, o, p.ours.Len(), t, p.theirs.Len(), &b, p.base.Len())
}

// gap appends the regions for the common lines ours [o, oEnd) and theirs
// [t, tEnd). *b is the base cursor; nextBase is where the following region
// starts in base.
func (p *planner) gap(out []Region, oursToBase []int, o, oEnd, t, tEnd int, b *int, nextBase int) ([]Region, error) {
	if oEnd-o != tEnd-t || oEnd < o {
		return nil, fmt.Errorf("plan: %w: common run ours %d..%d does not match theirs %d..%d", ErrInternal, o, oEnd, t, tEnd)
	}
	for o < oEnd {
		n := 1
		if bi := oursToBase[o]; bi >= 0 {
			for o+n < oEnd && oursToBase[o+n] == bi+n {
				n++
			}
			out = append(out, Region{Kind: Stable, Base: Span{bi, n}, Ours: Span{o, n}, Theirs: Span{t, n}})
			*b = max(*b, bi+n)
		} else {
			for o+n < oEnd && oursToBase[o+n] < 0 {
				n++
			}
			end := nextBase
			if o+n < oEnd {
				end = oursToBase[o+n]
			}
			bl := max(end-*b, 0)
			out = append(out, Region{Kind: Concordant, Base: Span{*b, bl}, Ours: Span{o, n}, Theirs: Span{t, n}})
			*b += bl
		}
		o += n
		t += n
	}
	return out, nil
}

// baseIndex maps every line of the other side of s to the base line it is
// paired with, or -1 when the line was inserted or replaced.
func baseIndex(s *diff.Script) []int {
	idx := make([]int, s.OtherLen)
	bi, oi := 0, 0
	for _, h := range s.Hunks {
		for ; oi < h.OtherStart; oi, bi = oi+1, bi+1 {
			idx[oi] = bi
		}
		for ; oi < h.OtherEnd(); oi++ {
			idx[oi] = -1
		}
		bi = h.BaseEnd()
	}
	for ; oi < s.OtherLen; oi, bi = oi+1, bi+1 {
		idx[oi] = bi
	}
	return idx
}
