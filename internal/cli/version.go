package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	mk "github.com/gitrdm/gokanterm/pkg/minikanren"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of gokanterm",
		Run: func(cmd *cobra.Command, args []string) {
			info := mk.GetVersionInfo()
			fmt.Fprintf(cmd.OutOrStdout(), "gokanterm version %s (engine %s, %s)\n", Version, info.Version, info.GoVersion)
		},
	}
}
