// Package cli implements the gokanterm command line.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	mk "github.com/gitrdm/gokanterm/pkg/minikanren"
)

// Version may be overridden at build time with -ldflags.
var Version = mk.Version

// NewRootCommand builds the gokanterm command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "gokanterm",
		Short: "gokanterm solves relational programs over symbolic terms",
		Long: `gokanterm runs miniKanren-style logic programs written in YAML. Terms are
matched by unification, optionally modulo associativity and commutativity
of declared operators.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolP("verbose", "v", false, "Log solver activity to stderr")

	root.AddCommand(newSolveCommand(), newVersionCommand())
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(cmd *cobra.Command, w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
