package lines

import "bytes"

// Side selects which of the two compared texts a line belongs to.
type Side int

const (
	SideA Side = iota // Left-hand (old) text.
	SideB             // Right-hand (new) text.
)

type class struct {
	text  []byte
	count [2]int
}

// Index assigns dense class ids to line contents so that two lines are equal
// exactly when their ids are equal. Lines are bucketed by hash; collisions
// are settled by comparing bytes. The index also counts how often each class
// occurs on each side.
type Index struct {
	buckets map[uint64][]int
	classes []class
}

// NewIndex returns an empty index sized for about sizeHint distinct lines.
func NewIndex(sizeHint int) *Index {
	return &Index{
		buckets: make(map[uint64][]int, sizeHint),
		classes: make([]class, 0, sizeHint),
	}
}

// Add records one occurrence of l on side and returns its class id.
func (x *Index) Add(l Line, side Side) int {
	for _, id := range x.buckets[l.Hash] {
		c := &x.classes[id]
		if bytes.Equal(c.text, l.Text) {
			c.count[side]++
			return id
		}
	}
	id := len(x.classes)
	c := class{text: l.Text}
	c.count[side] = 1
	x.classes = append(x.classes, c)
	x.buckets[l.Hash] = append(x.buckets[l.Hash], id)
	return id
}

// Classify adds every line of ls on side and returns their class ids.
func (x *Index) Classify(ls []Line, side Side) []int {
	ids := make([]int, len(ls))
	for i, l := range ls {
		ids[i] = x.Add(l, side)
	}
	return ids
}

// Count returns how many lines of class id were added on side.
func (x *Index) Count(id int, side Side) int {
	return x.classes[id].count[side]
}

// Len returns the number of distinct classes.
func (x *Index) Len() int { return len(x.classes) }
