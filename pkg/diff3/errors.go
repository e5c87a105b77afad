package diff3

import (
	"errors"
	"fmt"

	"github.com/odvcencio/xmerge/pkg/diff"
)

var (
	// ErrInvalidInput reports options or inputs rejected before any work is
	// done.
	ErrInvalidInput = errors.New("invalid merge input")

	// ErrInternal reports a broken invariant in the diff or merge engine.
	ErrInternal = errors.New("internal merge error")

	// ErrOutOfMemory reports inputs too large to process.
	ErrOutOfMemory = errors.New("merge out of memory")
)

// engineError maps an error from the diff engine onto this package's
// taxonomy while keeping the original in the chain.
func engineError(op string, err error) error {
	switch {
	case errors.Is(err, diff.ErrTooLarge):
		return fmt.Errorf("%s: %w: %w", op, ErrOutOfMemory, err)
	case errors.Is(err, diff.ErrUnknownAlgorithm):
		return fmt.Errorf("%s: %w: %w", op, ErrInvalidInput, err)
	default:
		return fmt.Errorf("%s: %w: %w", op, ErrInternal, err)
	}
}
