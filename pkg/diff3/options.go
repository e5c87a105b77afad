package diff3

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/samber/lo"

	"github.com/odvcencio/xmerge/pkg/diff"
)

// Style selects how unresolved conflicts are rendered.
type Style int

const (
	StyleMerge        Style = iota // Ours and theirs bands only.
	StyleDiff3                     // Adds the base band.
	StyleZealousDiff3              // Base band, with lines common to both sides moved out of the conflict.
)

// Favor resolves conflicts automatically instead of rendering markers.
type Favor int

const (
	FavorNone   Favor = iota // Render conflict markers.
	FavorOurs                // Take our side.
	FavorTheirs              // Take their side.
	FavorUnion               // Take our side followed by their side.
)

// Level controls how hard the planner works to shrink conflicts.
type Level int

const (
	// LevelDefault is LevelZealousAlnum, the level git merge-file uses.
	LevelDefault Level = iota
	// LevelMinimal reports every overlapping pair of changes as a conflict,
	// even when both sides made the same change.
	LevelMinimal
	// LevelEager accepts identical overlapping changes.
	LevelEager
	// LevelZealous also re-diffs the two sides of each conflict and keeps
	// only the lines where they differ, then joins conflicts that are at
	// most three lines apart.
	LevelZealous
	// LevelZealousAlnum also joins conflicts separated only by lines
	// without letters or digits.
	LevelZealousAlnum
)

var (
	styleNames = map[Style]string{
		StyleMerge:        "merge",
		StyleDiff3:        "diff3",
		StyleZealousDiff3: "zdiff3",
	}
	favorNames = map[Favor]string{
		FavorNone:   "none",
		FavorOurs:   "ours",
		FavorTheirs: "theirs",
		FavorUnion:  "union",
	}
	levelNames = map[Level]string{
		LevelDefault:      "default",
		LevelMinimal:      "minimal",
		LevelEager:        "eager",
		LevelZealous:      "zealous",
		LevelZealousAlnum: "zealous_alnum",
	}
)

func (s Style) String() string { return enumString(styleNames, s, "Style") }
func (f Favor) String() string { return enumString(favorNames, f, "Favor") }
func (l Level) String() string { return enumString(levelNames, l, "Level") }

func enumString[T ~int](names map[T]string, v T, kind string) string {
	if name, ok := names[v]; ok {
		return name
	}
	return fmt.Sprintf("%s(%d)", kind, int(v))
}

func parseEnum[T ~int](names map[T]string, kind, name string) (T, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if v, ok := lo.FindKey(names, name); ok {
		return v, nil
	}
	return 0, fmt.Errorf("%w: unknown %s %q", ErrInvalidInput, kind, name)
}

// ParseStyle accepts "merge" (or "normal"), "diff3" and "zdiff3".
func ParseStyle(name string) (Style, error) {
	if strings.EqualFold(strings.TrimSpace(name), "normal") {
		return StyleMerge, nil
	}
	return parseEnum(styleNames, "style", name)
}

// ParseFavor accepts "ours", "theirs", "union", and "none" or "" for no
// automatic resolution.
func ParseFavor(name string) (Favor, error) {
	if strings.TrimSpace(name) == "" {
		return FavorNone, nil
	}
	return parseEnum(favorNames, "favor", name)
}

// ParseLevel accepts "minimal", "eager", "zealous", "zealous_alnum" and
// "default".
func ParseLevel(name string) (Level, error) {
	return parseEnum(levelNames, "level", strings.ReplaceAll(name, "-", "_"))
}

// DefaultMarkerSize is the length of a conflict marker run.
const DefaultMarkerSize = 7

// MergeOptions configures a three-way merge. The zero value is equivalent
// to DefaultOptions.
type MergeOptions struct {
	Algorithm diff.Algorithm
	Style     Style
	Favor     Favor
	Level     Level

	// MarkerSize is the length of each marker run. Zero selects
	// DefaultMarkerSize.
	MarkerSize int

	// Labels appended to the marker lines after a space. Empty means no
	// label and no space, so a marker line never ends in a bare space.
	AncestorLabel string
	OursLabel     string
	TheirsLabel   string
}

// DefaultOptions returns the options git merge-file uses by default.
func DefaultOptions() MergeOptions {
	return MergeOptions{
		Algorithm:  diff.Myers,
		Style:      StyleMerge,
		Favor:      FavorNone,
		Level:      LevelZealousAlnum,
		MarkerSize: DefaultMarkerSize,
	}
}

// Validate reports every problem with o at once. Each one wraps
// ErrInvalidInput.
func (o MergeOptions) Validate() error {
	var result *multierror.Error
	invalid := func(format string, args ...any) {
		result = multierror.Append(result, fmt.Errorf("%w: "+format, append([]any{ErrInvalidInput}, args...)...))
	}

	if !o.Algorithm.Valid() {
		invalid("unknown algorithm %s", o.Algorithm)
	}
	if _, ok := styleNames[o.Style]; !ok {
		invalid("unknown style %s", o.Style)
	}
	if _, ok := favorNames[o.Favor]; !ok {
		invalid("unknown favor %s", o.Favor)
	}
	if _, ok := levelNames[o.Level]; !ok {
		invalid("unknown level %s", o.Level)
	}
	if o.MarkerSize < 0 {
		invalid("negative marker size %d", o.MarkerSize)
	}
	for _, l := range []struct{ name, value string }{
		{"ancestor", o.AncestorLabel},
		{"ours", o.OursLabel},
		{"theirs", o.TheirsLabel},
	} {
		if strings.ContainsAny(l.value, "\n\r\x00") {
			invalid("%s label %q contains a line break or NUL", l.name, l.value)
		}
	}
	return result.ErrorOrNil()
}

// effectiveLevel resolves LevelDefault and caps the level for styles that
// cannot show refined conflicts.
func (o MergeOptions) effectiveLevel() Level {
	level := o.Level
	if level == LevelDefault {
		level = LevelZealousAlnum
	}
	if o.Style == StyleDiff3 && level > LevelEager {
		return LevelEager
	}
	return level
}

func (o MergeOptions) markerSize() int {
	if o.MarkerSize <= 0 {
		return DefaultMarkerSize
	}
	return o.MarkerSize
}
