package diff

// group is a maximal run of changed lines [start, end). An empty group
// (start == end) marks a position between two unchanged lines.
type group struct {
	start, end int
}

func (f *file) groupInit() group {
	var g group
	for f.changed(g.end) {
		g.end++
	}
	return g
}

// groupNext moves g to the next group. It fails at the end of the file.
func (f *file) groupNext(g *group) bool {
	if g.end == f.n() {
		return false
	}
	g.start = g.end + 1
	g.end = g.start
	for f.changed(g.end) {
		g.end++
	}
	return true
}

// groupPrevious moves g to the previous group. It fails at the start of the
// file.
func (f *file) groupPrevious(g *group) bool {
	if g.start == 0 {
		return false
	}
	g.end = g.start - 1
	g.start = g.end
	for f.changed(g.start - 1) {
		g.start--
	}
	return true
}

// slideDown shifts g down by one line when the line after it equals its
// first line, absorbing any group it runs into.
func (f *file) slideDown(g *group) bool {
	if g.end >= f.n() || f.class[g.start] != f.class[g.end] {
		return false
	}
	f.setChanged(g.start, false)
	g.start++
	f.setChanged(g.end, true)
	g.end++
	for f.changed(g.end) {
		g.end++
	}
	return true
}

// slideUp shifts g up by one line when the line before it equals its last
// line, absorbing any group it runs into.
func (f *file) slideUp(g *group) bool {
	if g.start == 0 || f.class[g.start-1] != f.class[g.end-1] {
		return false
	}
	g.start--
	f.setChanged(g.start, true)
	g.end--
	f.setChanged(g.end, false)
	for f.changed(g.start - 1) {
		g.start--
	}
	return true
}

// compact moves every change group of f to a canonical position: as far
// down as it can slide, unless some position lines it up with a change
// group of o, in which case it is moved to the lowest such position.
// Groups that merge while sliding are handled together. o is walked in
// lockstep so both files keep the same number of groups.
func compact(f, o *file) error {
	g := f.groupInit()
	og := o.groupInit()

	for {
		if g.end != g.start {
			var earliestEnd, endMatchingOther int
			for {
				size := g.end - g.start
				endMatchingOther = -1

				for f.slideUp(&g) {
					if !o.groupPrevious(&og) {
						return internalf("compact: group sync broken sliding up")
					}
				}

				// g is now as high as it can go; remember where it ends so
				// we know whether sliding moved it at all.
				earliestEnd = g.end
				if og.end > og.start {
					endMatchingOther = g.end
				}

				for f.slideDown(&g) {
					if !o.groupNext(&og) {
						return internalf("compact: group sync broken sliding down")
					}
					if og.end > og.start {
						endMatchingOther = g.end
					}
				}

				if size == g.end-g.start {
					break
				}
			}

			if g.end != earliestEnd && endMatchingOther != -1 {
				for og.end == og.start {
					if !f.slideUp(&g) {
						return internalf("compact: match disappeared")
					}
					if !o.groupPrevious(&og) {
						return internalf("compact: group sync broken sliding to match")
					}
				}
			}
		}

		if !f.groupNext(&g) {
			break
		}
		if !o.groupNext(&og) {
			return internalf("compact: group sync broken moving to next group")
		}
	}

	if o.groupNext(&og) {
		return internalf("compact: group sync broken at end of file")
	}
	return nil
}
