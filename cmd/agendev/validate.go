package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thesohamdatta/AgenDev-Studio/internal/cli"
	"github.com/thesohamdatta/AgenDev-Studio/internal/logging"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the workflow for consistency",
	Long:  `Loads the workflow and reports every step whose agent or validator cannot be resolved.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := cli.NewEngine(globalOptions(cmd), logging.NewNop(), nil)
		if err != nil {
			return err
		}
		if err := engine.Check(); err != nil {
			return fmt.Errorf("validation failed:\n%w", err)
		}

		wf := engine.Workflow()
		fmt.Fprintf(cmd.OutOrStdout(), "Workflow '%s' is valid (%d steps) ✅\n", wf.Name, wf.Len())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
