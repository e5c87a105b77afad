package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/odvcencio/xmerge/pkg/config"
	"github.com/odvcencio/xmerge/pkg/diff"
	"github.com/odvcencio/xmerge/pkg/diff3"
	"github.com/odvcencio/xmerge/pkg/lines"
	"github.com/odvcencio/xmerge/pkg/textio"
)

// maxExitConflicts caps the conflict count reported as exit status.
const maxExitConflicts = 127

type mergeFileFlags struct {
	stdout     bool
	quiet      bool
	diff3      bool
	zdiff3     bool
	ours       bool
	theirs     bool
	union      bool
	algorithm  string
	level      string
	markerSize int
	labels     []string
	maxLines   int
}

func newMergeFileCmd(a *app) *cobra.Command {
	var f mergeFileFlags

	cmd := &cobra.Command{
		Use:   "merge-file [flags] <ours> <base> <theirs>",
		Short: "Merge the changes from base to theirs into ours",
		Long: `Incorporate all changes that lead from <base> to <theirs> into <ours>.
The result is written over <ours> unless --stdout is given. A path of "-"
reads standard input. Conflicts are marked as git merge-file marks them, and
the exit status is the number of conflicts (at most 127).`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, cfgPath, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			if cfgPath != "" {
				a.log.Debug("loaded config", zap.String("path", cfgPath))
			}
			opts, err := mergeOptions(cmd.Flags(), cfg, &f, args)
			if err != nil {
				return err
			}

			n, err := runMergeFile(cmd, a, opts, &f, args[0], args[1], args[2])
			if err != nil {
				return err
			}
			a.exitCode = min(n, maxExitConflicts)
			return nil
		},
	}

	fl := cmd.Flags()
	fl.BoolVarP(&f.stdout, "stdout", "p", false, "send results to standard output instead of overwriting <ours>")
	fl.BoolVarP(&f.quiet, "quiet", "q", false, "do not warn about conflicts")
	fl.BoolVar(&f.diff3, "diff3", false, "show the base version in conflicts")
	fl.BoolVar(&f.zdiff3, "zdiff3", false, "like --diff3, with lines common to both sides moved out of conflicts")
	fl.BoolVar(&f.ours, "ours", false, "resolve conflicts in favor of our side")
	fl.BoolVar(&f.theirs, "theirs", false, "resolve conflicts in favor of their side")
	fl.BoolVar(&f.union, "union", false, "resolve conflicts by keeping both sides")
	fl.StringVar(&f.algorithm, "diff-algorithm", "", "diff algorithm: "+strings.Join(diff.Algorithms(), ", "))
	fl.StringVar(&f.level, "level", "", "conflict simplification: default, minimal, eager, zealous or zealous_alnum")
	fl.IntVar(&f.markerSize, "marker-size", diff3.DefaultMarkerSize, "length of conflict markers")
	fl.StringArrayVarP(&f.labels, "label", "L", nil, "label for ours, base and theirs markers, in that order (repeatable)")
	fl.IntVar(&f.maxLines, "max-lines", 0, "refuse inputs longer than this many lines (0 for no limit)")
	cmd.MarkFlagsMutuallyExclusive("diff3", "zdiff3")
	cmd.MarkFlagsMutuallyExclusive("ours", "theirs", "union")

	return cmd
}

// mergeOptions starts from the config file and applies the flags that were
// set on the command line.
func mergeOptions(fl *pflag.FlagSet, cfg *config.Config, f *mergeFileFlags, args []string) (diff3.MergeOptions, error) {
	opts, err := cfg.MergeOptions()
	if err != nil {
		return opts, err
	}
	changed := fl.Changed

	if changed("diff-algorithm") {
		if opts.Algorithm, err = diff.ParseAlgorithm(f.algorithm); err != nil {
			return opts, err
		}
	}
	if changed("level") {
		if opts.Level, err = diff3.ParseLevel(f.level); err != nil {
			return opts, err
		}
	}
	switch {
	case f.diff3:
		opts.Style = diff3.StyleDiff3
	case f.zdiff3:
		opts.Style = diff3.StyleZealousDiff3
	}
	switch {
	case f.ours:
		opts.Favor = diff3.FavorOurs
	case f.theirs:
		opts.Favor = diff3.FavorTheirs
	case f.union:
		opts.Favor = diff3.FavorUnion
	}
	if changed("marker-size") {
		opts.MarkerSize = f.markerSize
	}

	if len(f.labels) > 3 {
		return opts, fmt.Errorf("too many labels: %d (at most 3)", len(f.labels))
	}
	names := append(append([]string{}, f.labels...), args[len(f.labels):]...)
	opts.OursLabel, opts.AncestorLabel, opts.TheirsLabel = names[0], names[1], names[2]

	return opts, opts.Validate()
}

func runMergeFile(cmd *cobra.Command, a *app, opts diff3.MergeOptions, f *mergeFileFlags, oursPath, basePath, theirsPath string) (int, error) {
	inputs := make(map[string][]byte, 3)
	for _, in := range []struct{ role, path string }{
		{"ours", oursPath},
		{"base", basePath},
		{"theirs", theirsPath},
	} {
		data, err := textio.ReadInput(in.path)
		if err != nil {
			return 0, err
		}
		n := lines.Split(data).Len()
		a.log.Debug("read input",
			zap.String("role", in.role),
			zap.String("path", in.path),
			zap.String("size", humanize.IBytes(uint64(len(data)))),
			zap.Int("lines", n))
		if f.maxLines > 0 && n > f.maxLines {
			return 0, fmt.Errorf("%s: %s lines exceeds --max-lines %s",
				in.path, humanize.Comma(int64(n)), humanize.Comma(int64(f.maxLines)))
		}
		inputs[in.role] = data
	}

	a.log.Debug("merging",
		zap.Stringer("algorithm", opts.Algorithm),
		zap.Stringer("style", opts.Style),
		zap.Stringer("favor", opts.Favor),
		zap.Stringer("level", opts.Level),
		zap.Int("marker_size", opts.MarkerSize))

	res, err := diff3.Merge(inputs["base"], inputs["ours"], inputs["theirs"], opts)
	if err != nil {
		return 0, err
	}
	a.log.Debug("merged",
		zap.Int("conflicts", res.Conflicts),
		zap.Int("regions", len(res.Regions)),
		zap.Int("resolved", lo.CountBy(res.Regions, func(r diff3.Region) bool {
			return r.Kind == diff3.Conflict && !r.Unresolved()
		})),
		zap.String("size", humanize.IBytes(uint64(len(res.Merged)))))

	if f.stdout || oursPath == textio.Stdin {
		if _, err := cmd.OutOrStdout().Write(res.Merged); err != nil {
			return 0, fmt.Errorf("write result: %w", err)
		}
	} else if err := textio.WriteFileAtomic(oursPath, res.Merged); err != nil {
		return 0, err
	}

	if res.HasConflicts() && !f.quiet {
		errOut := cmd.ErrOrStderr()
		fmt.Fprintf(errOut, "warning: %d conflict", res.Conflicts)
		if res.Conflicts != 1 {
			fmt.Fprint(errOut, "s")
		}
		fmt.Fprintf(errOut, " in %s\n", oursPath)
	}
	return res.Conflicts, nil
}
