// Package textio reads merge inputs and writes merge results for the
// command line. Inputs may come from stdin and may be zstd-compressed.
package textio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Stdin is the path that names standard input.
const Stdin = "-"

// ReadInput reads the file at path, or stdin when path is "-". Content that
// starts with a zstd frame is decompressed.
func ReadInput(path string) ([]byte, error) {
	return readInput(path, os.Stdin)
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if path == Stdin {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if !isZstdFrame(data) {
		return data, nil
	}
	out, err := decompressZstd(data)
	if err != nil {
		return nil, fmt.Errorf("read %s: decompress: %w", path, err)
	}
	return out, nil
}

// WriteFileAtomic replaces path with data through a temp file in the same
// directory. A path ending in ".zst" is written zstd-compressed. The mode of
// an existing file is kept.
func WriteFileAtomic(path string, data []byte) error {
	if strings.HasSuffix(path, ".zst") {
		var err error
		if data, err = compressZstd(data); err != nil {
			return fmt.Errorf("write %s: compress: %w", path, err)
		}
	}

	mode := os.FileMode(0o644)
	if fi, err := os.Stat(path); err == nil {
		mode = fi.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("write %s: tmpfile: %w", path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: write: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: sync: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write %s: close: %w", path, err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write %s: chmod: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write %s: rename: %w", path, err)
	}
	return nil
}
