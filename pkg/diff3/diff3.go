// Package diff3 merges two texts derived from a common ancestor.
//
// Merge diffs the ancestor ("base") against each side, plans the result as a
// sequence of regions, and renders them with conflict markers where both
// sides changed the same lines differently. The output is byte-compatible
// with git merge-file for the same options.
package diff3

import (
	"bytes"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/odvcencio/xmerge/pkg/diff"
	"github.com/odvcencio/xmerge/pkg/lines"
)

// Result holds the outcome of a three-way merge.
type Result struct {
	Merged    []byte   // Full merged content, with conflict markers if any conflict is unresolved.
	Conflicts int      // Number of conflicts rendered with markers.
	Regions   []Region // Regions in document order.
}

// HasConflicts reports whether any conflict was left for manual resolution.
func (r *Result) HasConflicts() bool { return r.Conflicts > 0 }

// Count returns the number of regions of kind k.
func (r *Result) Count(k Kind) int {
	return lo.CountBy(r.Regions, func(reg Region) bool { return reg.Kind == k })
}

// Merge performs a three-way merge of base, ours and theirs.
//
// Steps:
//  1. Split the three texts into lines.
//  2. Diff base against ours and base against theirs, concurrently.
//  3. Plan regions from the two scripts (see Plan).
//  4. Render the regions (see Emit).
//
// When one side did not change the base at all the other side is returned
// verbatim. Options are validated before any work is done; on error no
// result is returned.
func Merge(base, ours, theirs []byte, opts MergeOptions) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	bseq, oseq, tseq := lines.Split(base), lines.Split(ours), lines.Split(theirs)

	var baseOurs, baseTheirs *diff.Script
	var g errgroup.Group
	g.Go(func() (err error) {
		baseOurs, err = diff.Compute(bseq.Lines, oseq.Lines, opts.Algorithm)
		return err
	})
	g.Go(func() (err error) {
		baseTheirs, err = diff.Compute(bseq.Lines, tseq.Lines, opts.Algorithm)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, engineError("merge", err)
	}

	regions, err := Plan(bseq, oseq, tseq, baseOurs, baseTheirs, opts)
	if err != nil {
		return nil, err
	}

	switch {
	case baseOurs.Empty():
		return &Result{Merged: bytes.Clone(theirs), Regions: regions}, nil
	case baseTheirs.Empty():
		return &Result{Merged: bytes.Clone(ours), Regions: regions}, nil
	}
	return Emit(regions, bseq, oseq, tseq, opts)
}
