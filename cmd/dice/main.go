// Command dice rolls an XdY+Z dice expression and prints the result.
package main

import (
	"fmt"
	"os"

	"agentrpg/internal/config"
	"agentrpg/internal/dice"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var seed int64

	cmd := &cobra.Command{
		Use:   "dice <expression>",
		Short: "Roll dice using XdY+Z notation (e.g. 1d20+5)",
		Long: "Rolls X dice with Y sides, adds the modifier Z and prints every roll and the total.\n" +
			"A single d20 rolling 20 or 1 is reported as a critical success or failure.",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := config.Defaults().NewLogger()
			out := cmd.OutOrStdout()

			var roller *dice.Roller
			if cmd.Flags().Changed("seed") {
				roller = dice.NewRoller(seed)
			} else {
				r, err := dice.NewRandomRoller()
				if err != nil {
					return err
				}
				roller = r
			}

			res, err := roller.RollString(args[0])
			if err != nil {
				// User-facing message, not a failure exit.
				logger.Debug("dice expression rejected", "expression", args[0], "err", err)
				fmt.Fprintln(out, dice.UserMessage(err))
				return nil
			}
			return res.Report(out)
		},
	}
	cmd.Flags().Int64Var(&seed, "seed", 0, "seed for a reproducible roll")
	return cmd
}
