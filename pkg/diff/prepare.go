package diff

import "github.com/odvcencio/xmerge/pkg/lines"

const (
	// maxEqLimit caps how many matches a line may have on the other side
	// before it is treated as too common to anchor the Myers search.
	maxEqLimit = 1024
	// simScanWindow bounds the neighbourhood examined when deciding whether
	// a too-common line sits among unmatched ones.
	simScanWindow = 100
)

// Line dispositions computed while pruning.
const (
	disNoMatch byte = 0 // no equal line on the other side
	disKeep    byte = 1 // ordinary reference line
	disTooMany byte = 2 // too many equal lines on the other side
)

// bogoSqrt returns a cheap power-of-two approximation of sqrt(n).
func bogoSqrt(n int) int {
	i := 1
	for ; n > 0; n >>= 2 {
		i <<= 1
	}
	return i
}

// optimize trims the common prefix and suffix and then picks the reference
// lines that the Myers search runs on. Lines with no counterpart are marked
// changed directly.
func (e *env) optimize(needMin bool) {
	e.trimEnds()
	e.cleanupRecords(needMin)
}

func (e *env) trimEnds() {
	a, b := &e.a, &e.b
	lim := min(a.n(), b.n())
	i := 0
	for i < lim && a.class[i] == b.class[i] {
		i++
	}
	a.dstart, b.dstart = i, i

	lim -= i
	j := 0
	for j < lim && a.class[a.n()-1-j] == b.class[b.n()-1-j] {
		j++
	}
	a.dend = a.n() - j - 1
	b.dend = b.n() - j - 1
}

func (e *env) cleanupRecords(needMin bool) {
	dis1 := e.dispositions(&e.a, lines.SideB, needMin)
	dis2 := e.dispositions(&e.b, lines.SideA, needMin)
	e.a.keepReferences(dis1)
	e.b.keepReferences(dis2)
}

func (e *env) dispositions(f *file, other lines.Side, needMin bool) []byte {
	dis := make([]byte, f.n()+1)
	mlim := min(bogoSqrt(f.n()), maxEqLimit)
	for i := f.dstart; i <= f.dend; i++ {
		nm := e.ix.Count(f.class[i], other)
		switch {
		case nm == 0:
			dis[i] = disNoMatch
		case nm >= mlim && !needMin:
			dis[i] = disTooMany
		default:
			dis[i] = disKeep
		}
	}
	return dis
}

func (f *file) keepReferences(dis []byte) {
	f.rindex = make([]int, 0, f.dend-f.dstart+1)
	f.ha = make([]int, 0, f.dend-f.dstart+1)
	for i := f.dstart; i <= f.dend; i++ {
		if dis[i] == disKeep || (dis[i] == disTooMany && !amongUnmatched(dis, i, f.dstart, f.dend)) {
			f.rindex = append(f.rindex, i)
			f.ha = append(f.ha, f.class[i])
		} else {
			f.setChanged(i, true)
		}
	}
}

// amongUnmatched reports whether the too-common line i is surrounded, on both
// sides, by enough unmatched lines that keeping it would only create
// spurious matches.
func amongUnmatched(dis []byte, i, s, e int) bool {
	if i-s > simScanWindow {
		s = i - simScanWindow
	}
	if e-i > simScanWindow {
		e = i + simScanWindow
	}

	// Lines with too many matches count as half-unmatched, so scan past
	// them and only stop at a kept line.
	rdis0, rpdis0 := 0, 1
	for r := 1; i-r >= s && dis[i-r] != disKeep; r++ {
		if dis[i-r] == disNoMatch {
			rdis0++
		} else {
			rpdis0++
		}
	}
	if rdis0 == 0 {
		return false
	}
	rdis1, rpdis1 := 0, 1
	for r := 1; i+r <= e && dis[i+r] != disKeep; r++ {
		if dis[i+r] == disNoMatch {
			rdis1++
		} else {
			rpdis1++
		}
	}
	if rdis1 == 0 {
		return false
	}
	rdis := rdis0 + rdis1
	rpdis := rpdis0 + rpdis1
	return rpdis*4 < rpdis+rdis
}
