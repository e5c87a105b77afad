package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const version = "0.1.0-dev"

// exitError is the status for failures, matching git merge-file's -1.
const exitError = 255

// app carries state shared by the subcommands of one invocation.
type app struct {
	configPath string
	verbose    bool
	log        *zap.Logger
	stderr     io.Writer

	// exitCode is set by commands whose status reports a result rather
	// than a failure.
	exitCode int
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	a := &app{log: zap.NewNop(), stderr: stderr}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	_ = a.log.Sync()
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}
	return a.exitCode
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "xmerge",
		Short:         "Line diff and git-compatible three-way merge",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if a.verbose {
				a.log = newLogger(a.stderr)
			}
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "read defaults from this TOML file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log progress to stderr")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newMergeFileCmd(a))
	root.AddCommand(newDiffCmd(a))
	return root
}

// newLogger returns a development logger writing to w.
func newLogger(w io.Writer) *zap.Logger {
	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), zapcore.DebugLevel)
	return zap.New(core)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "xmerge %s\n", version)
		},
	}
}
