package diff

import (
	"fmt"

	"github.com/pkg/errors"
)

// Hunk replaces BaseLen lines of the base text starting at BaseStart with
// OtherLen lines of the other text starting at OtherStart. Positions are
// 0-based. A pure insertion has BaseLen 0 and a pure deletion OtherLen 0.
type Hunk struct {
	BaseStart, BaseLen   int
	OtherStart, OtherLen int
}

func (h Hunk) String() string {
	return fmt.Sprintf("-%d,%d +%d,%d", h.BaseStart, h.BaseLen, h.OtherStart, h.OtherLen)
}

// BaseEnd returns the first base line after the hunk.
func (h Hunk) BaseEnd() int { return h.BaseStart + h.BaseLen }

// OtherEnd returns the first other line after the hunk.
func (h Hunk) OtherEnd() int { return h.OtherStart + h.OtherLen }

// Script is an ordered list of hunks between a base text and another text.
// Lines outside the hunks are equal and pair up in order.
type Script struct {
	Hunks    []Hunk
	BaseLen  int
	OtherLen int
}

// Empty reports whether the two texts are identical.
func (s *Script) Empty() bool { return len(s.Hunks) == 0 }

// Validate checks the structural invariants of the script: hunks are
// non-empty, in bounds, strictly ordered, never touching, and the equal
// stretches between them have the same length on both sides.
func (s *Script) Validate() error {
	prevBase, prevOther := 0, 0
	for i, h := range s.Hunks {
		if h.BaseLen < 0 || h.OtherLen < 0 || (h.BaseLen == 0 && h.OtherLen == 0) {
			return errors.Errorf("hunk %d (%s): empty or negative", i, h)
		}
		if h.BaseStart < prevBase || h.OtherStart < prevOther {
			return errors.Errorf("hunk %d (%s): out of order", i, h)
		}
		if i > 0 && h.BaseStart == prevBase && h.OtherStart == prevOther {
			return errors.Errorf("hunk %d (%s): touches previous hunk", i, h)
		}
		if h.BaseStart-prevBase != h.OtherStart-prevOther {
			return errors.Errorf("hunk %d (%s): unequal context before hunk", i, h)
		}
		prevBase, prevOther = h.BaseEnd(), h.OtherEnd()
	}
	if prevBase > s.BaseLen || prevOther > s.OtherLen {
		return errors.Errorf("script overruns inputs (%d/%d lines)", s.BaseLen, s.OtherLen)
	}
	if s.BaseLen-prevBase != s.OtherLen-prevOther {
		return errors.Errorf("unequal trailing context")
	}
	return nil
}

// script collects the change flags of both files into hunks.
func (e *env) script() (*Script, error) {
	a, b := &e.a, &e.b
	s := &Script{BaseLen: a.n(), OtherLen: b.n()}
	i1, i2 := 0, 0
	for i1 < a.n() || i2 < b.n() {
		if a.changed(i1) || b.changed(i2) {
			s1, s2 := i1, i2
			for a.changed(i1) {
				i1++
			}
			for b.changed(i2) {
				i2++
			}
			s.Hunks = append(s.Hunks, Hunk{BaseStart: s1, BaseLen: i1 - s1, OtherStart: s2, OtherLen: i2 - s2})
			continue
		}
		if i1 >= a.n() || i2 >= b.n() {
			return nil, internalf("script: unchanged lines do not pair up at %d/%d", i1, i2)
		}
		i1++
		i2++
	}
	return s, nil
}
