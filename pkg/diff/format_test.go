package diff

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unified(t *testing.T, a, b string, context int) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Unified(&buf, "a/f", "b/f", []byte(a), []byte(b), Myers, context))
	return buf.String()
}

func TestUnified_Replacement(t *testing.T) {
	got := unified(t, "a\nb\nc\n", "a\nB\nc\n", 3)
	want := "--- a/f\n+++ b/f\n@@ -1,3 +1,3 @@\n a\n-b\n+B\n c\n"
	assert.Equal(t, want, got)
}

func TestUnified_Identical(t *testing.T) {
	assert.Empty(t, unified(t, "same\n", "same\n", 3))
}

func TestUnified_MissingNewline(t *testing.T) {
	got := unified(t, "a\n", "a\nb", 3)
	want := "--- a/f\n+++ b/f\n@@ -1,1 +1,2 @@\n a\n+b\n\\ No newline at end of file\n"
	assert.Equal(t, want, got)
}

func TestUnified_FromEmpty(t *testing.T) {
	got := unified(t, "", "x\ny\n", 3)
	want := "--- a/f\n+++ b/f\n@@ -0,0 +1,2 @@\n+x\n+y\n"
	assert.Equal(t, want, got)
}

func TestUnifiedHunks_SplitsDistantChanges(t *testing.T) {
	var a, b strings.Builder
	for i := range 20 {
		line := string(rune('a'+i)) + "\n"
		a.WriteString(line)
		if i == 2 || i == 17 {
			b.WriteString("changed\n")
			continue
		}
		b.WriteString(line)
	}
	got := unified(t, a.String(), b.String(), 2)
	assert.Equal(t, 2, strings.Count(got, "@@ -"))
	assert.Contains(t, got, "@@ -1,5 +1,5 @@\n")
	assert.Contains(t, got, "@@ -16,5 +16,5 @@\n")

	// With wide context the windows touch and are joined.
	assert.Equal(t, 1, strings.Count(unified(t, a.String(), b.String(), 7), "@@ -"))
}

func TestLines_DeletesBeforeInserts(t *testing.T) {
	a, b := splitText("a\nb\nc\n"), splitText("a\nx\ny\nc\n")
	s, err := Compute(a, b, Histogram)
	require.NoError(t, err)

	var types []DiffType
	for _, l := range Lines(s, a, b) {
		types = append(types, l.Type)
	}
	assert.Equal(t, []DiffType{Equal, Delete, Insert, Insert, Equal}, types)
}
