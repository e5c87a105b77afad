package diff

import "sort"

// line2 values of a patience entry that do not name a line.
const (
	unmatched = -1
	nonUnique = -2
)

// patienceEntry tracks one distinct line of the first side: where it first
// occurs, and its single counterpart on the second side if the line is
// unique on both.
type patienceEntry struct {
	line1, line2 int
	prev, next   *patienceEntry
}

// patience flags changed lines in the given ranges by anchoring on lines
// that occur exactly once on each side, recursing between the anchors.
// Ranges without unique common lines fall back to the classic search.
func (e *env) patience(line1, count1, line2, count2 int) error {
	if count1 == 0 {
		e.b.markRange(line2, count2)
		return nil
	}
	if count2 == 0 {
		e.a.markRange(line1, count1)
		return nil
	}

	entries := make(map[int]*patienceEntry, count1)
	order := make([]*patienceEntry, 0, count1)
	for i := line1; i < line1+count1; i++ {
		c := e.a.class[i]
		if en, ok := entries[c]; ok {
			en.line2 = nonUnique
			continue
		}
		en := &patienceEntry{line1: i, line2: unmatched}
		entries[c] = en
		order = append(order, en)
	}

	hasMatches := false
	for i := line2; i < line2+count2; i++ {
		en, ok := entries[e.b.class[i]]
		if !ok {
			continue
		}
		hasMatches = true
		if en.line2 == unmatched {
			en.line2 = i
		} else {
			en.line2 = nonUnique
		}
	}

	if !hasMatches {
		e.a.markRange(line1, count1)
		e.b.markRange(line2, count2)
		return nil
	}

	first := longestUniqueChain(order)
	if first == nil {
		return e.fallback(line1, count1, line2, count2)
	}
	return e.walkCommon(first, line1, count1, line2, count2)
}

// longestUniqueChain returns the head of the longest run of unique common
// lines that is increasing on both sides, linked through next.
func longestUniqueChain(order []*patienceEntry) *patienceEntry {
	seq := make([]*patienceEntry, 0, len(order))
	for _, en := range order {
		if en.line2 < 0 {
			continue
		}
		// Position of the last chain tail whose line2 is below ours.
		i := sort.Search(len(seq), func(k int) bool { return seq[k].line2 >= en.line2 }) - 1
		if i >= 0 {
			en.prev = seq[i]
		} else {
			en.prev = nil
		}
		if i+1 == len(seq) {
			seq = append(seq, en)
		} else {
			seq[i+1] = en
		}
	}
	if len(seq) == 0 {
		return nil
	}
	en := seq[len(seq)-1]
	en.next = nil
	for en.prev != nil {
		en.prev.next = en
		en = en.prev
	}
	return en
}

// walkCommon grows every anchor of the chain backwards and forwards over
// equal lines and recurses into the gaps between them.
func (e *env) walkCommon(first *patienceEntry, line1, count1, line2, count2 int) error {
	end1, end2 := line1+count1, line2+count2
	for {
		next1, next2 := end1, end2
		if first != nil {
			next1, next2 = first.line1, first.line2
			for next1 > line1 && next2 > line2 && e.a.class[next1-1] == e.b.class[next2-1] {
				next1--
				next2--
			}
		}
		for line1 < next1 && line2 < next2 && e.a.class[line1] == e.b.class[line2] {
			line1++
			line2++
		}

		if next1 > line1 || next2 > line2 {
			if err := e.patience(line1, next1-line1, line2, next2-line2); err != nil {
				return err
			}
		}
		if first == nil {
			return nil
		}

		for first.next != nil && first.next.line1 == first.line1+1 && first.next.line2 == first.line2+1 {
			first = first.next
		}
		line1 = first.line1 + 1
		line2 = first.line2 + 1
		first = first.next
	}
}
