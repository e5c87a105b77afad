package diff

// maxChainLength is the highest occurrence count a line may have and still
// anchor a region. Ranges whose common lines are all more frequent than
// this go to the classic search.
const maxChainLength = 64

type histRecord struct {
	ptr int // first occurrence on the first side
	cnt int // occurrences on the first side
}

// histIndex is the occurrence table of one first-side range.
type histIndex struct {
	recs      map[int]*histRecord
	lineMap   []*histRecord // record of each line, indexed from ptrShift
	nextPtrs  []int         // next occurrence of the same line, or -1
	ptrShift  int
	cnt       int  // lowest occurrence count of the best region so far
	hasCommon bool // some line occurs on both sides
}

// histRegion is an inclusive matched block on both sides.
type histRegion struct {
	begin1, end1 int
	begin2, end2 int
	found        bool
}

// histogram flags changed lines in the given ranges. It anchors on the
// longest block of equal lines that contains the least frequent line
// available, then handles the ranges before and after it.
func (e *env) histogram(line1, count1, line2, count2 int) error {
	for {
		if count1 <= 0 && count2 <= 0 {
			return nil
		}
		if count1 == 0 {
			e.b.markRange(line2, count2)
			return nil
		}
		if count2 == 0 {
			e.a.markRange(line1, count1)
			return nil
		}

		lcs, tooFrequent := e.findLCS(line1, count1, line2, count2)
		if tooFrequent {
			return e.fallback(line1, count1, line2, count2)
		}
		if !lcs.found {
			e.a.markRange(line1, count1)
			e.b.markRange(line2, count2)
			return nil
		}

		if err := e.histogram(line1, lcs.begin1-line1, line2, lcs.begin2-line2); err != nil {
			return err
		}
		// The tail is handled iteratively to bound recursion depth.
		count1 = line1 + count1 - 1 - lcs.end1
		line1 = lcs.end1 + 1
		count2 = line2 + count2 - 1 - lcs.end2
		line2 = lcs.end2 + 1
	}
}

// findLCS returns the best anchor block of the ranges. tooFrequent is set
// when the ranges share lines but every one of them occurs more than
// maxChainLength times on the first side.
func (e *env) findLCS(line1, count1, line2, count2 int) (lcs histRegion, tooFrequent bool) {
	ix := &histIndex{
		recs:     make(map[int]*histRecord, count1),
		lineMap:  make([]*histRecord, count1),
		nextPtrs: make([]int, count1),
		ptrShift: line1,
		cnt:      maxChainLength + 1,
	}
	e.scanA(ix, line1, count1)

	end1, end2 := line1+count1-1, line2+count2-1
	for b := line2; b <= end2; {
		b = e.tryLCS(ix, &lcs, b, line1, end1, line2, end2)
	}

	return lcs, ix.hasCommon && ix.cnt > maxChainLength
}

// scanA walks the first range backwards so that each record ends up
// pointing at its earliest occurrence, with later ones chained after it.
func (e *env) scanA(ix *histIndex, line1, count1 int) {
	for ptr := line1 + count1 - 1; ptr >= line1; ptr-- {
		c := e.a.class[ptr]
		slot := ptr - ix.ptrShift
		if rec, ok := ix.recs[c]; ok {
			ix.nextPtrs[slot] = rec.ptr
			rec.ptr = ptr
			rec.cnt++
			ix.lineMap[slot] = rec
			continue
		}
		rec := &histRecord{ptr: ptr, cnt: 1}
		ix.recs[c] = rec
		ix.nextPtrs[slot] = -1
		ix.lineMap[slot] = rec
	}
}

// tryLCS extends every occurrence of second-side line bPtr into a maximal
// block of equal lines and keeps it in lcs when it is longer than the best
// so far or made of rarer lines. It returns the next second-side line worth
// trying.
func (e *env) tryLCS(ix *histIndex, lcs *histRegion, bPtr, line1, end1, line2, end2 int) int {
	bNext := bPtr + 1
	rec, ok := ix.recs[e.b.class[bPtr]]
	if !ok {
		return bNext
	}
	ix.hasCommon = true
	if rec.cnt > ix.cnt {
		return bNext
	}

	cnt := func(p int) int { return ix.lineMap[p-ix.ptrShift].cnt }
	for as := rec.ptr; ; {
		np := ix.nextPtrs[as-ix.ptrShift]
		bs := bPtr
		ae, be := as, bs
		rc := rec.cnt

		for line1 < as && line2 < bs && e.a.class[as-1] == e.b.class[bs-1] {
			as--
			bs--
			if rc > 1 {
				rc = min(rc, cnt(as))
			}
		}
		for ae < end1 && be < end2 && e.a.class[ae+1] == e.b.class[be+1] {
			ae++
			be++
			if rc > 1 {
				rc = min(rc, cnt(ae))
			}
		}

		if bNext <= be {
			bNext = be + 1
		}
		if lcs.end1-lcs.begin1 < ae-as || rc < ix.cnt {
			*lcs = histRegion{begin1: as, end1: ae, begin2: bs, end2: be, found: true}
			ix.cnt = rc
		}

		if np < 0 {
			return bNext
		}
		for np <= ae {
			np = ix.nextPtrs[np-ix.ptrShift]
			if np < 0 {
				return bNext
			}
		}
		as = np
	}
}
