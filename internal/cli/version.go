package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is overridden at build time with -ldflags.
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the hackmate version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("hackmate", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
