package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thesohamdatta/AgenDev-Studio/internal/cli"
	"github.com/thesohamdatta/AgenDev-Studio/internal/presentation/report"
	"github.com/thesohamdatta/AgenDev-Studio/internal/presentation/tui"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Browse the run history",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored runs, most recent first",
	RunE: func(cmd *cobra.Command, args []string) error {
		stores, err := cli.OpenStores(cmd.Context(), globalOptions(cmd))
		if err != nil {
			return err
		}
		defer stores.Close()

		ids, err := stores.Runs.List(cmd.Context())
		if err != nil {
			return err
		}
		for _, id := range ids {
			fmt.Fprintln(cmd.OutOrStdout(), id)
		}
		return nil
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print the report of a stored run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stores, err := cli.OpenStores(cmd.Context(), globalOptions(cmd))
		if err != nil {
			return err
		}
		defer stores.Close()

		res, err := stores.Runs.Load(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		all, _ := cmd.Flags().GetBool("all")
		out := cmd.OutOrStdout()
		var render tui.RenderFunc = tui.Plain
		if f, ok := out.(*os.File); ok {
			render = tui.NewRenderer(f)
		}
		text, err := render(report.Markdown(res, all))
		if err != nil {
			return err
		}
		fmt.Fprint(out, text)
		return nil
	},
}

var runsTraceCmd = &cobra.Command{
	Use:   "trace <id>",
	Short: "Print the lineage of every message of a stored run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := globalOptions(cmd)
		stores, err := cli.OpenStores(cmd.Context(), opts)
		if err != nil {
			return err
		}
		defer stores.Close()

		res, err := stores.Runs.Load(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		// Subscriptions come from the configured agents, not from the stored run.
		engine, err := cli.NewEngine(opts, nil, nil)
		if err != nil {
			return err
		}
		cli.PrintTrace(res, engine.Agents(), cmd.OutOrStdout())
		return nil
	},
}

func init() {
	runsShowCmd.Flags().Bool("all", false, "Include rejected attempts")
	runsCmd.AddCommand(runsListCmd, runsShowCmd, runsTraceCmd)
	rootCmd.AddCommand(runsCmd)
}
