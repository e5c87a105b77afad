package textio

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadInput_PlainFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "base.txt")
	require.NoError(t, os.WriteFile(path, []byte("a\nb\n"), 0o644))

	data, err := ReadInput(path)
	require.NoError(t, err)
	assert.Equal(t, "a\nb\n", string(data))
}

func TestReadInput_Stdin(t *testing.T) {
	data, err := readInput(Stdin, strings.NewReader("from stdin\n"))
	require.NoError(t, err)
	assert.Equal(t, "from stdin\n", string(data))
}

func TestReadInput_ZstdIsDecoded(t *testing.T) {
	want := bytes.Repeat([]byte("compressible line\n"), 200)
	z, err := compressZstd(want)
	require.NoError(t, err)
	require.True(t, isZstdFrame(z))

	path := filepath.Join(t.TempDir(), "ours.txt.zst")
	require.NoError(t, os.WriteFile(path, z, 0o644))
	data, err := ReadInput(path)
	require.NoError(t, err)
	assert.Equal(t, want, data)

	data, err = readInput(Stdin, bytes.NewReader(z))
	require.NoError(t, err)
	assert.Equal(t, want, data)
}

func TestReadInput_CorruptZstd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad")
	require.NoError(t, os.WriteFile(path, append(append([]byte{}, zstdMagic...), 0xff, 0xff, 0xff), 0o644))
	_, err := ReadInput(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decompress")
}

func TestReadInput_Missing(t *testing.T) {
	_, err := ReadInput(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "merged.txt")
	require.NoError(t, os.WriteFile(path, []byte("old\n"), 0o600))

	require.NoError(t, WriteFileAtomic(path, []byte("new\n")))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new\n", string(data))

	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), fi.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func TestWriteFileAtomic_ZstdRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "merged.txt.zst")
	want := []byte("a\nb\nc\n")
	require.NoError(t, WriteFileAtomic(path, want))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, isZstdFrame(raw))

	got, err := ReadInput(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
