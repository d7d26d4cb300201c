// Command rpgctx reads and updates per-campaign world state.
package main

import (
	"fmt"
	"os"

	"agentrpg/internal/campaign"
	"agentrpg/internal/config"

	"github.com/spf13/cobra"
)

// options are the persistent flags shared by every subcommand.
type options struct {
	configPath string
	root       string
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:          "rpgctx",
		Short:        "RPG context manager",
		Long:         "Reads and updates campaign world state stored at <root>/<campaign>/world.json.",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to config.json (default: ~/.agentrpg/config.json)")
	root.PersistentFlags().StringVar(&opts.root, "root", "", "campaign memory root (default: memory/rpg)")

	root.AddCommand(getStateCmd(opts))
	root.AddCommand(setFlagCmd(opts))
	return root
}

// openStore resolves config and flags into a campaign store.
func (o *options) openStore() (*campaign.Store, error) {
	path := o.configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	cfg, err := config.LoadOrDefaults(path)
	if err != nil {
		return nil, err
	}
	if o.root != "" {
		cfg.Memory.Root = config.ExpandPath(o.root)
	}
	logger := cfg.NewLogger()
	logger.Debug("campaign store", "root", cfg.Memory.Root, "config", path)
	return campaign.NewStore(cfg.Memory.Root, logger), nil
}

func getStateCmd(opts *options) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "get_state",
		Short: "Print a campaign's world state as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := opts.openStore()
			if err != nil {
				return err
			}
			return store.WriteState(cmd.OutOrStdout(), name)
		},
	}
	cmd.Flags().StringVar(&name, "campaign", "", "campaign name")
	cmd.MarkFlagRequired("campaign")
	return cmd
}

func setFlagCmd(opts *options) *cobra.Command {
	var name, key, value string
	cmd := &cobra.Command{
		Use:   "set_flag",
		Short: "Set flags[key] in a campaign's world state",
		Long:  "Sets flags[key] to value. \"true\" and \"false\" (any case) are stored as booleans; anything else is stored as a string.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := opts.openStore()
			if err != nil {
				return err
			}
			stored, err := store.SetFlag(name, key, value)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), campaign.Confirmation(key, stored))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "campaign", "", "campaign name")
	cmd.Flags().StringVar(&key, "key", "", "flag name")
	cmd.Flags().StringVar(&value, "value", "", "flag value")
	cmd.MarkFlagRequired("campaign")
	cmd.MarkFlagRequired("key")
	cmd.MarkFlagRequired("value")
	return cmd
}
