package main

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	agendev "github.com/thesohamdatta/AgenDev-Studio"
	"github.com/thesohamdatta/AgenDev-Studio/internal/cli"
	"github.com/thesohamdatta/AgenDev-Studio/internal/presentation/tui"
)

var runCmd = &cobra.Command{
	Use:   "run [idea...]",
	Short: "Run the workflow on a project idea",
	Long: `Runs every step of the workflow on the given idea and prints the
accepted output of each agent. The idea is read from stdin when no
arguments are given and stdin is not a terminal.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		seed := strings.Join(args, " ")
		if seed == "" && !tui.IsTerminal(os.Stdin) {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return err
			}
			seed = string(data)
		}
		if strings.TrimSpace(seed) == "" {
			return errors.New("a project idea is required, e.g. agendev run \"a CLI to rename photos\"")
		}

		opts := cli.RunOptions{Options: globalOptions(cmd), Version: strings.TrimSpace(agendev.Version)}
		opts.JSON, _ = cmd.Flags().GetBool("json")
		opts.All, _ = cmd.Flags().GetBool("all")
		opts.Quiet, _ = cmd.Flags().GetBool("quiet")
		opts.NoLessons, _ = cmd.Flags().GetBool("no-lessons")

		ctx := cli.NewSignalContext(context.Background())
		defer ctx.Cancel()

		res, err := cli.RunSession(ctx, opts, seed, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		if !res.Success {
			return errRunFailed
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("json", false, "Print the full run result as JSON")
	runCmd.Flags().Bool("all", false, "Include rejected attempts in the report")
	runCmd.Flags().BoolP("quiet", "q", false, "Only print the report")
	runCmd.Flags().Bool("no-lessons", false, "Do not record lessons from this run")
}
