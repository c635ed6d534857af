package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/thesohamdatta/AgenDev-Studio/internal/cli"
)

var memoryCmd = &cobra.Command{
	Use:   "memory",
	Short: "Inspect and extend the lesson store",
}

var memoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored lessons",
	RunE: func(cmd *cobra.Command, args []string) error {
		stores, err := cli.OpenStores(cmd.Context(), globalOptions(cmd))
		if err != nil {
			return err
		}
		defer stores.Close()
		return cli.PrintLessons(cmd.Context(), stores.Memory, cmd.OutOrStdout())
	},
}

var memoryFeedbackCmd = &cobra.Command{
	Use:   "feedback <text...>",
	Short: "Record a feedback lesson for future runs",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stores, err := cli.OpenStores(cmd.Context(), globalOptions(cmd))
		if err != nil {
			return err
		}
		defer stores.Close()
		return cli.AddFeedback(cmd.Context(), stores.Memory, strings.Join(args, " "))
	},
}

func init() {
	memoryCmd.AddCommand(memoryListCmd, memoryFeedbackCmd)
	rootCmd.AddCommand(memoryCmd)
}
