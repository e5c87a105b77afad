package diff3

import "github.com/odvcencio/xmerge/pkg/diff"

// maxJoinGap is the number of common lines two conflicts may be apart and
// still be joined into one.
const maxJoinGap = 3

// refineConflicts diffs the two sides of every conflict against each other
// and keeps only the stretches where they differ. The base range of the
// conflict is shared by all its pieces. The pieces are not refined again.
func (p *planner) refineConflicts() error {
	out := make([]change, 0, len(p.changes))
	for _, c := range p.changes {
		if c.pick != pickConflict || c.chg1 == 0 || c.chg2 == 0 {
			out = append(out, c)
			continue
		}

		s, err := diff.Compute(p.ours.Lines[c.i1:c.i1+c.chg1], p.theirs.Lines[c.i2:c.i2+c.chg2], p.alg)
		if err != nil {
			return engineError("refine conflict", err)
		}
		if s.Empty() {
			c.pick = pickSame
			out = append(out, c)
			continue
		}
		for _, h := range s.Hunks {
			out = append(out, change{
				pick: pickConflict,
				i0:   c.i0,
				chg0: c.chg0,
				i1:   c.i1 + h.BaseStart,
				chg1: h.BaseLen,
				i2:   c.i2 + h.OtherStart,
				chg2: h.OtherLen,
			})
		}
	}
	p.changes = out
	return nil
}

// joinConflicts merges neighbouring conflicts separated by at most
// maxJoinGap common lines, or, when alnum is set, by any number of lines
// that contain no ASCII letter or digit.
func (p *planner) joinConflicts(alnum bool) {
	if len(p.changes) == 0 {
		return
	}
	out := make([]change, 1, len(p.changes))
	out[0] = p.changes[0]
	for _, next := range p.changes[1:] {
		m := &out[len(out)-1]
		begin, end := m.i1+m.chg1, next.i1
		if m.pick != pickConflict || next.pick != pickConflict ||
			(end-begin > maxJoinGap && (!alnum || p.oursHasAlnum(begin, end))) {
			out = append(out, next)
			continue
		}
		m.chg0 = max(m.i0+m.chg0, next.i0+next.chg0) - m.i0
		m.chg1 = next.i1 + next.chg1 - m.i1
		m.chg2 = next.i2 + next.chg2 - m.i2
	}
	p.changes = out
}

func (p *planner) oursHasAlnum(begin, end int) bool {
	for _, l := range p.ours.Lines[begin:end] {
		for _, c := range l.Text {
			if 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9' {
				return true
			}
		}
	}
	return false
}

// trimConflicts moves lines that both sides of a conflict start or end
// with out of the conflict. The base range is left alone.
func (p *planner) trimConflicts() {
	for k := range p.changes {
		m := &p.changes[k]
		if m.pick != pickConflict {
			continue
		}
		for m.chg1 > 0 && m.chg2 > 0 && p.ours.Lines[m.i1].Equal(p.theirs.Lines[m.i2]) {
			m.i1++
			m.i2++
			m.chg1--
			m.chg2--
		}
		for m.chg1 > 0 && m.chg2 > 0 && p.ours.Lines[m.i1+m.chg1-1].Equal(p.theirs.Lines[m.i2+m.chg2-1]) {
			m.chg1--
			m.chg2--
		}
	}
}
