package cmd

import (
	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"go.nposlab.org/elections/version"
)

func (cli *CLI) RootCmd() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "npos-fuzz",
		Short: "Fuzz the stake-weighted election engine",
		Long: heredoc.Doc(`
			npos-fuzz generates random stake-weighted elections, solves
			each one with and without balancing, and verifies that
			balancing never degrades the election score.

			Every round derives its randomness from the base seed plus
			the round number, so a reported round replays exactly.
		`),
	}

	cmd.AddCommand(cli.fuzzCmd())
	cmd.AddCommand(cli.loopCmd())
	cmd.AddCommand(cli.solveCmd())
	cmd.AddCommand(version.VersionCmd())

	cmd.PersistentFlags().AddGoFlagSet(cli.Config.Flags())

	return cmd
}

func (cli *CLI) fuzzCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run a single fuzz round",
		RunE:  cli.Run(cli.fuzzRun),
	}
}

func (cli *CLI) loopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "loop",
		Short: "Run fuzz rounds until interrupted",
		RunE:  cli.Run(cli.fuzzLoop),
	}
}

func (cli *CLI) solveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "solve <instance.json>",
		Short: "Solve one election instance from a file",
		Args:  cobra.ExactArgs(1),
		RunE:  cli.Run(cli.solveFile),
	}
}
