package diff

import (
	"bytes"
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/xmerge/pkg/lines"
)

var allAlgorithms = []Algorithm{Myers, Minimal, Patience, Histogram}

func splitText(s string) []lines.Line { return lines.Split([]byte(s)).Lines }

// rebuild applies s to a, taking replaced lines from b.
func rebuild(s *Script, a, b []lines.Line) []byte {
	var buf bytes.Buffer
	ai := 0
	for _, h := range s.Hunks {
		for ; ai < h.BaseStart; ai++ {
			buf.Write(a[ai].Text)
		}
		for _, l := range b[h.OtherStart:h.OtherEnd()] {
			buf.Write(l.Text)
		}
		ai = h.BaseEnd()
	}
	for ; ai < len(a); ai++ {
		buf.Write(a[ai].Text)
	}
	return buf.Bytes()
}

func cost(s *Script) int {
	n := 0
	for _, h := range s.Hunks {
		n += h.BaseLen + h.OtherLen
	}
	return n
}

// lcsLen is the textbook dynamic-programming LCS length.
func lcsLen(a, b []lines.Line) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := range a {
		for j := range b {
			switch {
			case a[i].Equal(b[j]):
				cur[j+1] = prev[j] + 1
			case prev[j+1] >= cur[j]:
				cur[j+1] = prev[j+1]
			default:
				cur[j+1] = cur[j]
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

func randomText(r *rand.Rand, n, alphabet int) string {
	var sb strings.Builder
	for range n {
		fmt.Fprintf(&sb, "line %d\n", r.IntN(alphabet))
	}
	return sb.String()
}

// mutate copies text with random deletions, insertions and replacements.
func mutate(r *rand.Rand, text string, alphabet int) string {
	var sb strings.Builder
	for _, l := range strings.SplitAfter(text, "\n") {
		if l == "" {
			continue
		}
		switch r.IntN(8) {
		case 0:
		case 1:
			fmt.Fprintf(&sb, "new %d\n", r.IntN(alphabet))
			sb.WriteString(l)
		case 2:
			fmt.Fprintf(&sb, "line %d\n", r.IntN(alphabet))
		default:
			sb.WriteString(l)
		}
	}
	return sb.String()
}

// ---------------------------------------------------------------------------
// Basic behaviour
// ---------------------------------------------------------------------------

func TestCompute_SingleReplacement(t *testing.T) {
	a, b := splitText("a\nb\nc\n"), splitText("a\nx\nc\n")
	for _, alg := range allAlgorithms {
		t.Run(alg.String(), func(t *testing.T) {
			s, err := Compute(a, b, alg)
			require.NoError(t, err)
			assert.Equal(t, []Hunk{{BaseStart: 1, BaseLen: 1, OtherStart: 1, OtherLen: 1}}, s.Hunks)
		})
	}
}

func TestCompute_Identical(t *testing.T) {
	a := splitText("one\ntwo\nthree\n")
	for _, alg := range allAlgorithms {
		s, err := Compute(a, a, alg)
		require.NoError(t, err)
		assert.True(t, s.Empty(), alg.String())
		assert.Equal(t, 3, s.BaseLen)
		assert.Equal(t, 3, s.OtherLen)
	}
}

func TestCompute_EmptySides(t *testing.T) {
	a := splitText("a\nb\n")
	for _, alg := range allAlgorithms {
		t.Run(alg.String(), func(t *testing.T) {
			s, err := Compute(nil, a, alg)
			require.NoError(t, err)
			assert.Equal(t, []Hunk{{BaseStart: 0, BaseLen: 0, OtherStart: 0, OtherLen: 2}}, s.Hunks)

			s, err = Compute(a, nil, alg)
			require.NoError(t, err)
			assert.Equal(t, []Hunk{{BaseStart: 0, BaseLen: 2, OtherStart: 0, OtherLen: 0}}, s.Hunks)

			s, err = Compute(nil, nil, alg)
			require.NoError(t, err)
			assert.True(t, s.Empty())
		})
	}
}

func TestCompute_MissingNewlineIsAChange(t *testing.T) {
	a, b := splitText("a\nb\n"), splitText("a\nb")
	for _, alg := range allAlgorithms {
		s, err := Compute(a, b, alg)
		require.NoError(t, err)
		assert.Equal(t, []Hunk{{BaseStart: 1, BaseLen: 1, OtherStart: 1, OtherLen: 1}}, s.Hunks, alg.String())
	}
}

func TestCompute_UnknownAlgorithm(t *testing.T) {
	_, err := Compute(nil, nil, Algorithm(42))
	assert.ErrorIs(t, err, ErrUnknownAlgorithm)
}

// ---------------------------------------------------------------------------
// Compaction
// ---------------------------------------------------------------------------

func TestCompute_DeletionSlidesDown(t *testing.T) {
	a, b := splitText("x\na\nb\na\nb\ny\n"), splitText("x\na\nb\ny\n")
	for _, alg := range allAlgorithms {
		s, err := Compute(a, b, alg)
		require.NoError(t, err)
		assert.Equal(t, []Hunk{{BaseStart: 3, BaseLen: 2, OtherStart: 3, OtherLen: 0}}, s.Hunks, alg.String())
	}
}

func TestCompute_InsertionSlidesDown(t *testing.T) {
	a, b := splitText("{\n}\n"), splitText("{\n}\n{\n}\n")
	for _, alg := range allAlgorithms {
		s, err := Compute(a, b, alg)
		require.NoError(t, err)
		assert.Equal(t, []Hunk{{BaseStart: 2, BaseLen: 0, OtherStart: 2, OtherLen: 2}}, s.Hunks, alg.String())
	}
}

func TestCompute_FrequentLines(t *testing.T) {
	a := splitText(strings.Repeat("x\n", 70))
	b := splitText(strings.Repeat("x\n", 71))
	for _, alg := range allAlgorithms {
		s, err := Compute(a, b, alg)
		require.NoError(t, err)
		assert.Equal(t, []Hunk{{BaseStart: 70, BaseLen: 0, OtherStart: 70, OtherLen: 1}}, s.Hunks, alg.String())
	}
}

func TestCompute_HistogramSkipsOverusedAnchors(t *testing.T) {
	var sb strings.Builder
	for i := range 70 {
		fmt.Fprintf(&sb, "x\ny%d\n", i)
	}
	sb.WriteString("x\nx\ns\n")
	a := splitText(strings.Repeat("x\n", 70) + "q\nx\nr\n")
	b := splitText(sb.String())

	// "x" is the only common line and occurs 71 times, so no anchor
	// qualifies and the whole range goes to the classic search.
	hist, err := Compute(a, b, Histogram)
	require.NoError(t, err)
	myers, err := Compute(a, b, Myers)
	require.NoError(t, err)
	assert.Equal(t, myers.Hunks, hist.Hunks)

	inserts := 0
	for _, h := range hist.Hunks {
		if h.BaseLen == 0 && h.OtherLen == 1 {
			inserts++
		}
	}
	assert.GreaterOrEqual(t, inserts, 35, "%+v", hist.Hunks)
	assert.Equal(t, sb.String(), string(rebuild(hist, a, b)))
}

func TestCompute_HistogramAnchorsBelowLimit(t *testing.T) {
	// 64 occurrences still anchor.
	a := splitText(strings.Repeat("x\n", 64) + "q\n")
	b := splitText(strings.Repeat("x\n", 64) + "s\n")
	s, err := Compute(a, b, Histogram)
	require.NoError(t, err)
	assert.Equal(t, []Hunk{{BaseStart: 64, BaseLen: 1, OtherStart: 64, OtherLen: 1}}, s.Hunks)
}

// ---------------------------------------------------------------------------
// Properties over random inputs
// ---------------------------------------------------------------------------

func TestCompute_RandomScriptsAreValid(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for iter := range 300 {
		alphabet := 2 + r.IntN(20)
		at := randomText(r, r.IntN(60), alphabet)
		bt := mutate(r, at, alphabet)
		if iter%5 == 0 {
			bt = randomText(r, r.IntN(60), alphabet)
		}
		a, b := splitText(at), splitText(bt)
		want := len(a) + len(b) - 2*lcsLen(a, b)

		for _, alg := range allAlgorithms {
			s, err := Compute(a, b, alg)
			require.NoError(t, err)
			require.NoError(t, s.Validate(), "%s on case %d", alg, iter)
			require.Equal(t, bt, string(rebuild(s, a, b)), "%s on case %d", alg, iter)
			if alg == Minimal {
				require.Equal(t, want, cost(s), "minimal cost on case %d", iter)
			} else {
				require.GreaterOrEqual(t, cost(s), want, "%s on case %d", alg, iter)
			}
		}
	}
}

func TestCompute_MinimalNoWorseThanReference(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 7))
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0
	for iter := range 50 {
		at := randomText(r, 40+r.IntN(80), 12)
		bt := mutate(r, at, 12)

		c1, c2, arr := dmp.DiffLinesToChars(at, bt)
		ref := 0
		for _, d := range dmp.DiffCharsToLines(dmp.DiffMain(c1, c2, false), arr) {
			if d.Type != diffmatchpatch.DiffEqual {
				ref += strings.Count(d.Text, "\n")
			}
		}

		s, err := Compute(splitText(at), splitText(bt), Minimal)
		require.NoError(t, err)
		assert.LessOrEqual(t, cost(s), ref, "case %d", iter)
	}
}

func TestCompute_LargeInputsUseHeuristics(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))
	at := randomText(r, 4000, 5000)
	bt := randomText(r, 4000, 5000)
	a, b := splitText(at), splitText(bt)
	for _, alg := range allAlgorithms {
		s, err := Compute(a, b, alg)
		require.NoError(t, err)
		require.NoError(t, s.Validate(), alg.String())
		require.Equal(t, bt, string(rebuild(s, a, b)), alg.String())
	}
}

func TestCompute_CommonLinesAmongNoise(t *testing.T) {
	// Many copies of a blank line scattered among unique lines exercise
	// the pruning of too-common lines.
	var sa, sb strings.Builder
	for i := range 400 {
		fmt.Fprintf(&sa, "a%d\n\n", i)
		fmt.Fprintf(&sb, "b%d\n\n", i)
		if i%50 == 0 {
			sa.WriteString("shared\n")
			sb.WriteString("shared\n")
		}
	}
	a, b := splitText(sa.String()), splitText(sb.String())
	for _, alg := range allAlgorithms {
		s, err := Compute(a, b, alg)
		require.NoError(t, err)
		require.NoError(t, s.Validate(), alg.String())
		require.Equal(t, sb.String(), string(rebuild(s, a, b)), alg.String())
	}
}

// ---------------------------------------------------------------------------
// Script validation
// ---------------------------------------------------------------------------

func TestScriptValidate(t *testing.T) {
	tests := []struct {
		name string
		s    Script
		ok   bool
	}{
		{"empty", Script{BaseLen: 2, OtherLen: 2}, true},
		{"replace", Script{Hunks: []Hunk{{1, 1, 1, 2}}, BaseLen: 3, OtherLen: 4}, true},
		{"empty hunk", Script{Hunks: []Hunk{{1, 0, 1, 0}}, BaseLen: 2, OtherLen: 2}, false},
		{"touching", Script{Hunks: []Hunk{{0, 1, 0, 0}, {1, 1, 0, 1}}, BaseLen: 2, OtherLen: 1}, false},
		{"uneven context", Script{Hunks: []Hunk{{1, 1, 2, 1}}, BaseLen: 2, OtherLen: 3}, false},
		{"overrun", Script{Hunks: []Hunk{{1, 3, 1, 1}}, BaseLen: 2, OtherLen: 2}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.s.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestParseAlgorithm(t *testing.T) {
	for _, name := range Algorithms() {
		alg, err := ParseAlgorithm(strings.ToUpper(name))
		require.NoError(t, err)
		assert.Equal(t, name, alg.String())
	}
	alg, err := ParseAlgorithm("default")
	require.NoError(t, err)
	assert.Equal(t, Myers, alg)

	_, err = ParseAlgorithm("quadratic")
	assert.ErrorIs(t, err, ErrUnknownAlgorithm)
	assert.False(t, Algorithm(-1).Valid())
	assert.Equal(t, "Algorithm(9)", Algorithm(9).String())
}
