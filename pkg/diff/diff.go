// Package diff computes line edit scripts between two texts.
//
// The engine works on lines.Line records. Every line is first mapped to a
// class id shared by all byte-identical lines, so the algorithms compare
// integers only. After the chosen algorithm has flagged changed lines on each
// side, change groups are slid to canonical positions and the flags are
// collected into a Script of hunks.
package diff

import (
	"github.com/pkg/errors"

	"github.com/odvcencio/xmerge/pkg/lines"
)

// file is one side of a comparison in progress.
type file struct {
	recs  []lines.Line
	class []int
	// chg[i+1] flags line i as changed; chg[0] and chg[n+1] are always false
	// so group scans stop at both ends without bounds checks.
	chg []bool

	// Bounds of the range left after trimming the common prefix and suffix
	// (inclusive), and the reference lines within it that take part in the
	// Myers search.
	dstart, dend int
	rindex       []int
	ha           []int
}

func newFile(recs []lines.Line, class []int) file {
	return file{
		recs:   recs,
		class:  class,
		chg:    make([]bool, len(recs)+2),
		dstart: 0,
		dend:   len(recs) - 1,
	}
}

func (f *file) n() int { return len(f.recs) }

func (f *file) changed(i int) bool { return f.chg[i+1] }

func (f *file) setChanged(i int, v bool) { f.chg[i+1] = v }

func (f *file) markRange(start, count int) {
	for i := start; i < start+count; i++ {
		f.chg[i+1] = true
	}
}

// env holds both sides of one comparison.
type env struct {
	a, b file
	ix   *lines.Index
}

func newEnv(a, b []lines.Line) *env {
	ix := lines.NewIndex(len(a) + len(b))
	return &env{
		a:  newFile(a, ix.Classify(a, lines.SideA)),
		b:  newFile(b, ix.Classify(b, lines.SideB)),
		ix: ix,
	}
}

// Compute returns the edit script turning a into b.
func Compute(a, b []lines.Line, alg Algorithm) (*Script, error) {
	if !alg.Valid() {
		return nil, errors.Wrapf(ErrUnknownAlgorithm, "compute %s", alg)
	}
	if len(a) >= maxRecords || len(b) >= maxRecords {
		return nil, errors.Wrapf(ErrTooLarge, "compute: %d and %d lines", len(a), len(b))
	}
	e, err := run(a, b, alg)
	if err != nil {
		return nil, err
	}
	if err := compact(&e.a, &e.b); err != nil {
		return nil, err
	}
	if err := compact(&e.b, &e.a); err != nil {
		return nil, err
	}
	return e.script()
}

// run flags changed lines on both sides without compacting them.
func run(a, b []lines.Line, alg Algorithm) (*env, error) {
	e := newEnv(a, b)
	switch alg {
	case Patience:
		if err := e.patience(0, e.a.n(), 0, e.b.n()); err != nil {
			return nil, err
		}
	case Histogram:
		if err := e.histogram(0, e.a.n(), 0, e.b.n()); err != nil {
			return nil, err
		}
	default:
		e.classic(alg == Minimal)
	}
	return e, nil
}

// fallback diffs a sub-range with the classic algorithm, in a fresh
// environment whose classification and pruning only see that range, and
// copies the result back.
func (e *env) fallback(line1, count1, line2, count2 int) error {
	sub, err := run(e.a.recs[line1:line1+count1], e.b.recs[line2:line2+count2], Myers)
	if err != nil {
		return err
	}
	copy(e.a.chg[line1+1:line1+1+count1], sub.a.chg[1:1+count1])
	copy(e.b.chg[line2+1:line2+1+count2], sub.b.chg[1:1+count2])
	return nil
}
