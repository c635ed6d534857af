package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	agendev "github.com/thesohamdatta/AgenDev-Studio"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of agendev",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "agendev version %s\n", strings.TrimSpace(agendev.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
