package diff

import "math"

const (
	snakeCnt    = 20  // snake length that counts as an interesting match
	heurMinCost = 256 // edit cost after which snake sampling kicks in
	minCostLim  = 256 // lower bound of the cost limit
	kHeur       = 4   // required advance per unit of cost for sampled snakes
)

// myers carries the diagonal vectors shared by one classic search.
type myers struct {
	a, b   *file
	kf, kb []int // furthest reaching points, forward and backward
	off    int   // index of diagonal 0 in kf and kb
	mxcost int
}

// split is a point where the box is cut in two, plus whether each half must
// be searched for a minimal script.
type split struct {
	i1, i2       int
	minLo, minHi bool
}

// classic runs the Myers search over the reference lines left by pruning.
func (e *env) classic(needMin bool) {
	e.optimize(needMin)
	na, nb := len(e.a.ha), len(e.b.ha)
	ndiags := na + nb + 3
	m := &myers{
		a:      &e.a,
		b:      &e.b,
		kf:     make([]int, ndiags),
		kb:     make([]int, ndiags),
		off:    nb + 1,
		mxcost: max(bogoSqrt(ndiags), minCostLim),
	}
	m.compare(0, na, 0, nb, needMin)
}

// compare flags the changed lines in the box [off1,lim1) x [off2,lim2) of
// reference lines, recursing on split points.
func (m *myers) compare(off1, lim1, off2, lim2 int, needMin bool) {
	ha1, ha2 := m.a.ha, m.b.ha
	for off1 < lim1 && off2 < lim2 && ha1[off1] == ha2[off2] {
		off1++
		off2++
	}
	for off1 < lim1 && off2 < lim2 && ha1[lim1-1] == ha2[lim2-1] {
		lim1--
		lim2--
	}

	switch {
	case off1 == lim1:
		for ; off2 < lim2; off2++ {
			m.b.setChanged(m.b.rindex[off2], true)
		}
	case off2 == lim2:
		for ; off1 < lim1; off1++ {
			m.a.setChanged(m.a.rindex[off1], true)
		}
	default:
		spl := m.split(off1, lim1, off2, lim2, needMin)
		m.compare(off1, spl.i1, off2, spl.i2, spl.minLo)
		m.compare(spl.i1, lim1, spl.i2, lim2, spl.minHi)
	}
}

// split finds the middle snake of the box by running the search from both
// corners at once. Unless needMin is set it gives up on optimality when the
// cost grows large, cutting at a long sampled snake or at the furthest
// reaching diagonal.
func (m *myers) split(off1, lim1, off2, lim2 int, needMin bool) split {
	ha1, ha2 := m.a.ha, m.b.ha
	kf, kb, o := m.kf, m.kb, m.off

	dmin, dmax := off1-lim2, lim1-off2
	fmid, bmid := off1-off2, lim1-lim2
	odd := (fmid-bmid)&1 != 0
	fmin, fmax := fmid, fmid
	bmin, bmax := bmid, bmid

	kf[fmid+o] = off1
	kb[bmid+o] = lim1

	for ec := 1; ; ec++ {
		gotSnake := false

		// Extend the forward domain by one diagonal on each side, or
		// shrink it where it already touches the box.
		if fmin > dmin {
			fmin--
			kf[fmin-1+o] = -1
		} else {
			fmin++
		}
		if fmax < dmax {
			fmax++
			kf[fmax+1+o] = -1
		} else {
			fmax--
		}

		for d := fmax; d >= fmin; d -= 2 {
			var i1 int
			if kf[d-1+o] >= kf[d+1+o] {
				i1 = kf[d-1+o] + 1
			} else {
				i1 = kf[d+1+o]
			}
			prev1 := i1
			i2 := i1 - d
			for i1 < lim1 && i2 < lim2 && ha1[i1] == ha2[i2] {
				i1++
				i2++
			}
			if i1-prev1 > snakeCnt {
				gotSnake = true
			}
			kf[d+o] = i1
			if odd && bmin <= d && d <= bmax && kb[d+o] <= i1 {
				return split{i1: i1, i2: i2, minLo: true, minHi: true}
			}
		}

		if bmin > dmin {
			bmin--
			kb[bmin-1+o] = math.MaxInt
		} else {
			bmin++
		}
		if bmax < dmax {
			bmax++
			kb[bmax+1+o] = math.MaxInt
		} else {
			bmax--
		}

		for d := bmax; d >= bmin; d -= 2 {
			var i1 int
			if kb[d-1+o] < kb[d+1+o] {
				i1 = kb[d-1+o]
			} else {
				i1 = kb[d+1+o] - 1
			}
			prev1 := i1
			i2 := i1 - d
			for i1 > off1 && i2 > off2 && ha1[i1-1] == ha2[i2-1] {
				i1--
				i2--
			}
			if prev1-i1 > snakeCnt {
				gotSnake = true
			}
			kb[d+o] = i1
			if !odd && fmin <= d && d <= fmax && i1 <= kf[d+o] {
				return split{i1: i1, i2: i2, minLo: true, minHi: true}
			}
		}

		if needMin {
			continue
		}

		if gotSnake && ec > heurMinCost {
			if spl, ok := m.sampleForward(off1, lim1, off2, lim2, fmin, fmax, fmid, ec); ok {
				return spl
			}
			if spl, ok := m.sampleBackward(off1, lim1, off2, lim2, bmin, bmax, bmid, ec); ok {
				return spl
			}
		}

		if ec >= m.mxcost {
			return m.furthest(off1, lim1, off2, lim2, fmin, fmax, bmin, bmax)
		}
	}
}

// sampleForward looks for a forward diagonal that has advanced well and ends
// in a snake of at least snakeCnt lines.
func (m *myers) sampleForward(off1, lim1, off2, lim2, fmin, fmax, fmid, ec int) (split, bool) {
	ha1, ha2 := m.a.ha, m.b.ha
	var spl split
	best := 0
	for d := fmax; d >= fmin; d -= 2 {
		dd := abs(d - fmid)
		i1 := m.kf[d+m.off]
		i2 := i1 - d
		v := (i1 - off1) + (i2 - off2) - dd
		if v > kHeur*ec && v > best &&
			off1+snakeCnt <= i1 && i1 < lim1 &&
			off2+snakeCnt <= i2 && i2 < lim2 {
			for k := 1; ha1[i1-k] == ha2[i2-k]; k++ {
				if k == snakeCnt {
					best = v
					spl.i1, spl.i2 = i1, i2
					break
				}
			}
		}
	}
	if best == 0 {
		return split{}, false
	}
	spl.minLo, spl.minHi = true, false
	return spl, true
}

func (m *myers) sampleBackward(off1, lim1, off2, lim2, bmin, bmax, bmid, ec int) (split, bool) {
	ha1, ha2 := m.a.ha, m.b.ha
	var spl split
	best := 0
	for d := bmax; d >= bmin; d -= 2 {
		dd := abs(d - bmid)
		i1 := m.kb[d+m.off]
		i2 := i1 - d
		v := (lim1 - i1) + (lim2 - i2) - dd
		if v > kHeur*ec && v > best &&
			off1 < i1 && i1 <= lim1-snakeCnt &&
			off2 < i2 && i2 <= lim2-snakeCnt {
			for k := 0; ha1[i1+k] == ha2[i2+k]; k++ {
				if k == snakeCnt-1 {
					best = v
					spl.i1, spl.i2 = i1, i2
					break
				}
			}
		}
	}
	if best == 0 {
		return split{}, false
	}
	spl.minLo, spl.minHi = false, true
	return spl, true
}

// furthest cuts at whichever of the forward or backward frontier has made
// the most progress. It is used once the cost limit is hit.
func (m *myers) furthest(off1, lim1, off2, lim2, fmin, fmax, bmin, bmax int) split {
	fbest, fbest1 := -1, -1
	for d := fmax; d >= fmin; d -= 2 {
		i1 := min(m.kf[d+m.off], lim1)
		i2 := i1 - d
		if lim2 < i2 {
			i1, i2 = lim2+d, lim2
		}
		if fbest < i1+i2 {
			fbest, fbest1 = i1+i2, i1
		}
	}

	bbest, bbest1 := math.MaxInt, math.MaxInt
	for d := bmax; d >= bmin; d -= 2 {
		i1 := max(off1, m.kb[d+m.off])
		i2 := i1 - d
		if i2 < off2 {
			i1, i2 = off2+d, off2
		}
		if i1+i2 < bbest {
			bbest, bbest1 = i1+i2, i1
		}
	}

	if (lim1+lim2)-bbest < fbest-(off1+off2) {
		return split{i1: fbest1, i2: fbest - fbest1, minLo: true, minHi: false}
	}
	return split{i1: bbest1, i2: bbest - bbest1, minLo: false, minHi: true}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
