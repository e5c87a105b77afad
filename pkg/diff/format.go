package diff

import (
	"bufio"
	"fmt"
	"io"

	"github.com/odvcencio/xmerge/pkg/lines"
)

// DiffType classifies a line in a flattened diff.
type DiffType int

const (
	Equal  DiffType = iota // Line is unchanged between a and b.
	Insert                 // Line exists only in b.
	Delete                 // Line exists only in a.
)

// DiffLine is one line of a flattened diff. Content keeps the line
// terminator when the line has one.
type DiffLine struct {
	Type    DiffType
	Content []byte
}

// Lines flattens a script into per-line operations. Within a hunk deletions
// come before insertions.
func Lines(s *Script, a, b []lines.Line) []DiffLine {
	out := make([]DiffLine, 0, max(len(a), len(b)))
	ai, bi := 0, 0
	for _, h := range s.Hunks {
		for ; ai < h.BaseStart; ai, bi = ai+1, bi+1 {
			out = append(out, DiffLine{Type: Equal, Content: a[ai].Text})
		}
		for ; ai < h.BaseEnd(); ai++ {
			out = append(out, DiffLine{Type: Delete, Content: a[ai].Text})
		}
		for ; bi < h.OtherEnd(); bi++ {
			out = append(out, DiffLine{Type: Insert, Content: b[bi].Text})
		}
	}
	for ; ai < len(a); ai++ {
		out = append(out, DiffLine{Type: Equal, Content: a[ai].Text})
	}
	return out
}

// UnifiedHunk is a window of a flattened diff printed under one "@@" header.
type UnifiedHunk struct {
	start, end int

	OldStart, OldCount int
	NewStart, NewCount int
}

// UnifiedHunks groups the changed lines of dl into windows with up to
// context equal lines around each change. Windows whose context would
// overlap or touch are joined.
func UnifiedHunks(dl []DiffLine, context int) []UnifiedHunk {
	if context < 0 {
		context = 0
	}

	var hunks []UnifiedHunk
	for i, l := range dl {
		if l.Type == Equal {
			continue
		}
		start := max(i-context, 0)
		end := min(i+context+1, len(dl))

		if len(hunks) == 0 || start > hunks[len(hunks)-1].end {
			hunks = append(hunks, UnifiedHunk{start: start, end: end})
			continue
		}
		if end > hunks[len(hunks)-1].end {
			hunks[len(hunks)-1].end = end
		}
	}

	for i := range hunks {
		hunks[i].setRange(dl)
	}
	return hunks
}

func (h *UnifiedHunk) setRange(dl []DiffLine) {
	oldLine, newLine := 1, 1
	for i := 0; i < h.start; i++ {
		switch dl[i].Type {
		case Equal:
			oldLine++
			newLine++
		case Delete:
			oldLine++
		case Insert:
			newLine++
		}
	}
	h.OldStart, h.NewStart = oldLine, newLine

	for i := h.start; i < h.end; i++ {
		switch dl[i].Type {
		case Equal:
			h.OldCount++
			h.NewCount++
		case Delete:
			h.OldCount++
		case Insert:
			h.NewCount++
		}
	}

	// An empty range names the line before it.
	if h.OldCount == 0 {
		h.OldStart--
	}
	if h.NewCount == 0 {
		h.NewStart--
	}
}

// Header returns the "@@ -a,b +c,d @@" line of the hunk, without newline.
func (h UnifiedHunk) Header() string {
	return fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.OldStart, h.OldCount, h.NewStart, h.NewCount)
}

// WriteUnified prints dl in unified format under "---"/"+++" headers naming
// oldName and newName. Nothing is written when there are no changes.
func WriteUnified(w io.Writer, oldName, newName string, dl []DiffLine, context int) error {
	hunks := UnifiedHunks(dl, context)
	if len(hunks) == 0 {
		return nil
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "--- %s\n", oldName)
	fmt.Fprintf(bw, "+++ %s\n", newName)
	for _, h := range hunks {
		fmt.Fprintln(bw, h.Header())
		for _, l := range dl[h.start:h.end] {
			switch l.Type {
			case Equal:
				bw.WriteByte(' ')
			case Insert:
				bw.WriteByte('+')
			case Delete:
				bw.WriteByte('-')
			}
			bw.Write(l.Content)
			if len(l.Content) == 0 || l.Content[len(l.Content)-1] != '\n' {
				bw.WriteString("\n\\ No newline at end of file\n")
			}
		}
	}
	return bw.Flush()
}

// Unified diffs a and b with alg and prints the result with WriteUnified.
func Unified(w io.Writer, oldName, newName string, a, b []byte, alg Algorithm, context int) error {
	as, bs := lines.Split(a), lines.Split(b)
	s, err := Compute(as.Lines, bs.Lines, alg)
	if err != nil {
		return err
	}
	return WriteUnified(w, oldName, newName, Lines(s, as.Lines, bs.Lines), context)
}
