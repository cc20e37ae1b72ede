package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/fatou/pkg/buildinfo"
)

// versionCommand creates the version command.
func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(buildinfo.String())
		},
	}
}
