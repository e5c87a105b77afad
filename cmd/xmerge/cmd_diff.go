package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/odvcencio/xmerge/pkg/config"
	"github.com/odvcencio/xmerge/pkg/diff"
	"github.com/odvcencio/xmerge/pkg/lines"
	"github.com/odvcencio/xmerge/pkg/textio"
)

func newDiffCmd(a *app) *cobra.Command {
	var (
		context   int
		algorithm string
	)

	cmd := &cobra.Command{
		Use:   "diff [flags] <a> <b>",
		Short: "Show a unified line diff of two files",
		Long: `Print the changes from <a> to <b> in unified format. The exit status is
0 when the files are equal and 1 when they differ.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			alg, err := cfg.DiffAlgorithm()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("diff-algorithm") {
				if alg, err = diff.ParseAlgorithm(algorithm); err != nil {
					return err
				}
			}
			if !cmd.Flags().Changed("unified") {
				context = cfg.Diff.Context
			}
			if context < 0 {
				return fmt.Errorf("negative context %d", context)
			}

			before, err := textio.ReadInput(args[0])
			if err != nil {
				return err
			}
			after, err := textio.ReadInput(args[1])
			if err != nil {
				return err
			}

			as, bs := lines.Split(before), lines.Split(after)
			s, err := diff.Compute(as.Lines, bs.Lines, alg)
			if err != nil {
				return err
			}
			a.log.Debug("diffed",
				zap.Stringer("algorithm", alg),
				zap.Int("hunks", len(s.Hunks)),
				zap.Int("context", context))
			if s.Empty() {
				return nil
			}
			a.exitCode = 1
			return diff.WriteUnified(cmd.OutOrStdout(), args[0], args[1], diff.Lines(s, as.Lines, bs.Lines), context)
		},
	}

	cmd.Flags().IntVarP(&context, "unified", "U", config.DefaultContext, "lines of context around each change")
	cmd.Flags().StringVar(&algorithm, "diff-algorithm", "", "diff algorithm: "+strings.Join(diff.Algorithms(), ", "))
	return cmd
}
