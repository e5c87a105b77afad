package diff

import "github.com/pkg/errors"

var (
	// ErrInternal marks a broken invariant inside the engine. It is never
	// caused by input content.
	ErrInternal = errors.New("diff: internal error")

	// ErrTooLarge is returned when an input has more lines than the search
	// tables can address.
	ErrTooLarge = errors.New("diff: input too large")

	// ErrUnknownAlgorithm is returned for an Algorithm outside the known set.
	ErrUnknownAlgorithm = errors.New("diff: unknown algorithm")
)

// maxRecords bounds the line count of either side.
const maxRecords = 1<<31 - 1

func internalf(format string, args ...any) error {
	return errors.Wrapf(ErrInternal, format, args...)
}
