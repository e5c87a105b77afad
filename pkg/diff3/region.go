package diff3

import "fmt"

// Kind classifies a merge region.
type Kind int

const (
	Stable     Kind = iota // Unchanged on both sides.
	OursOnly               // Changed on our side only.
	TheirsOnly             // Changed on their side only.
	Concordant             // Changed identically on both sides.
	Conflict               // Changed differently on both sides.
)

var kindNames = map[Kind]string{
	Stable:     "stable",
	OursOnly:   "ours",
	TheirsOnly: "theirs",
	Concordant: "concordant",
	Conflict:   "conflict",
}

func (k Kind) String() string { return enumString(kindNames, k, "Kind") }

// Span is a range of lines [Start, Start+Len) in one text.
type Span struct {
	Start, Len int
}

// End returns the first line after the span.
func (s Span) End() int { return s.Start + s.Len }

func (s Span) String() string { return fmt.Sprintf("%d+%d", s.Start, s.Len) }

// Region is one classified stretch of the merge. The Ours spans of a plan
// tile the ours text in order, and likewise the Theirs spans. Base spans
// locate each region in the base; the pieces of a conflict that was split
// by re-diffing its sides share the base range of the original conflict.
type Region struct {
	Kind   Kind
	Base   Span
	Ours   Span
	Theirs Span

	// Resolution is the favor applied to a Conflict region when it was
	// emitted. FavorNone means it was rendered with markers.
	Resolution Favor
}

func (r Region) String() string {
	return fmt.Sprintf("%s base=%s ours=%s theirs=%s", r.Kind, r.Base, r.Ours, r.Theirs)
}

// Unresolved reports whether the region is a conflict rendered with
// markers.
func (r Region) Unresolved() bool {
	return r.Kind == Conflict && r.Resolution == FavorNone
}
