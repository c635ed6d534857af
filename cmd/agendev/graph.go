package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thesohamdatta/AgenDev-Studio/internal/cli"
	"github.com/thesohamdatta/AgenDev-Studio/internal/presentation/graph"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/workflow"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the workflow as a Mermaid diagram",
	Long:  `Outputs a Mermaid flowchart (graph TD) of the workflow. With --run, the step outcomes of a stored run are painted on it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := globalOptions(cmd)

		wf := workflow.Default()
		if opts.WorkflowPath != "" {
			var err error
			if wf, err = workflow.Load(opts.WorkflowPath); err != nil {
				return err
			}
		}

		var overlay *graph.Overlay
		if runID, _ := cmd.Flags().GetString("run"); runID != "" {
			stores, err := cli.OpenStores(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer stores.Close()

			res, err := stores.Runs.Load(cmd.Context(), runID)
			if err != nil {
				return err
			}
			overlay = graph.OverlayFromRun(res)
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(wf, overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("run", "", "Overlay the outcome of a stored run")
}
