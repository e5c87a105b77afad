package diff

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Algorithm selects the strategy used to compute an edit script.
type Algorithm int

const (
	Myers     Algorithm = iota // Greedy O(ND) search with cost heuristics.
	Minimal                    // Myers with every heuristic disabled; always a shortest script.
	Patience                   // Anchors on lines unique to both sides.
	Histogram                  // Anchors on the rarest common lines.
)

var algorithmNames = map[Algorithm]string{
	Myers:     "myers",
	Minimal:   "minimal",
	Patience:  "patience",
	Histogram: "histogram",
}

func (a Algorithm) String() string {
	if name, ok := algorithmNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Algorithm(%d)", int(a))
}

// Valid reports whether a names a known algorithm.
func (a Algorithm) Valid() bool {
	_, ok := algorithmNames[a]
	return ok
}

// ParseAlgorithm maps a name such as "histogram" to its Algorithm. Matching
// is case-insensitive and "default" selects Myers.
func ParseAlgorithm(name string) (Algorithm, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "default" || name == "" {
		return Myers, nil
	}
	if a, ok := lo.FindKey(algorithmNames, name); ok {
		return a, nil
	}
	return 0, fmt.Errorf("%w %q (want one of %s)", ErrUnknownAlgorithm, name, strings.Join(Algorithms(), ", "))
}

// Algorithms returns the algorithm names in declaration order.
func Algorithms() []string {
	return []string{Myers.String(), Minimal.String(), Patience.String(), Histogram.String()}
}
