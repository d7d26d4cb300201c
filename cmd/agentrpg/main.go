// Command agentrpg exposes the dice roller and campaign state as agent tools and skills.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"agentrpg/internal/campaign"
	"agentrpg/internal/config"
	"agentrpg/internal/domain"
	"agentrpg/internal/skill"
	"agentrpg/internal/tool"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type options struct {
	configPath string
	root       string
}

// app bundles everything a subcommand needs.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	tools  *tool.Registry
	skills *skill.Registry
}

func rootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:          "agentrpg",
		Short:        "Tabletop RPG tools for agents",
		Long:         "agentrpg lists and runs the dice and campaign-state tools, and the skills built from them.",
		Version:      version,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to config.json (default: ~/.agentrpg/config.json)")
	root.PersistentFlags().StringVar(&opts.root, "root", "", "campaign memory root (default: memory/rpg)")

	root.AddCommand(toolsCmd(opts))
	root.AddCommand(callCmd(opts))
	root.AddCommand(skillsCmd(opts))
	root.AddCommand(runCmd(opts))
	root.AddCommand(matchCmd(opts))
	return root
}

func (o *options) load() (*app, error) {
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

	tools := tool.NewRegistry(logger)
	tool.RegisterDefaults(tools, campaign.NewStore(cfg.Memory.Root, logger))

	skills := skill.NewRegistry(logger)
	if err := skills.RegisterBuiltins(); err != nil {
		return nil, err
	}
	if err := skills.RegisterDirectory(cfg.Skills.Dir); err != nil {
		logger.Warn("user skills not loaded", "dir", cfg.Skills.Dir, "err", err)
	}

	return &app{cfg: cfg, logger: logger, tools: tools, skills: skills}, nil
}

func toolsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "Print tool definitions as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.load()
			if err != nil {
				return err
			}
			return writeJSON(cmd, a.tools.GetDefinitions())
		},
	}
}

func callCmd(opts *options) *cobra.Command {
	var pairs []string
	var raw string
	cmd := &cobra.Command{
		Use:   "call <tool>",
		Short: "Execute a tool",
		Example: `  agentrpg call roll_dice --arg expression=1d20+5
  agentrpg call set_flag --json '{"campaign":"test","key":"active","value":true}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.load()
			if err != nil {
				return err
			}
			toolArgs, err := parseToolArgs(pairs, raw)
			if err != nil {
				return err
			}
			out, err := a.tools.Execute(cmd.Context(), args[0], toolArgs)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(out, "\n"))
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&pairs, "arg", nil, "tool argument as key=value (repeatable)")
	cmd.Flags().StringVar(&raw, "json", "", "tool arguments as a JSON object")
	return cmd
}

func skillsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "skills",
		Short: "List available skills",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.load()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, s := range a.skills.List() {
				origin := "user"
				if s.BuiltIn {
					origin = "builtin"
				}
				fmt.Fprintf(out, "%-18s %-8s %s\n", s.Name, origin, s.Description)
			}
			return nil
		},
	}
}

func runCmd(opts *options) *cobra.Command {
	var pairs []string
	var message string
	cmd := &cobra.Command{
		Use:     "run <skill>",
		Short:   "Run a skill",
		Example: `  agentrpg run mark_flag --arg campaign=test --arg key=active --arg value=true`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.load()
			if err != nil {
				return err
			}
			def := a.skills.Get(args[0])
			if def == nil {
				return fmt.Errorf("unknown skill: %s", args[0])
			}
			input := domain.SkillInput{UserMessage: message, Args: map[string]string{}}
			for _, p := range pairs {
				k, v, err := splitPair(p)
				if err != nil {
					return err
				}
				input.Args[k] = v
			}
			res, err := skill.NewExecutor(a.tools, a.logger).Execute(cmd.Context(), *def, input)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Content)
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&pairs, "arg", nil, "skill argument as key=value (repeatable)")
	cmd.Flags().StringVar(&message, "message", "", "free text available to steps as {{message}}")
	return cmd
}

func matchCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "match <text>",
		Short: "Print the skill that matches free text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.load()
			if err != nil {
				return err
			}
			text := strings.Join(args, " ")
			s := a.skills.Match(text)
			if s == nil {
				return fmt.Errorf("no skill matches %q", text)
			}
			fmt.Fprintln(cmd.OutOrStdout(), s.Name)
			return nil
		},
	}
}

// parseToolArgs merges a JSON object with key=value pairs; pairs win.
func parseToolArgs(pairs []string, raw string) (map[string]any, error) {
	args := map[string]any{}
	if raw != "" {
		var decoded map[string]any
		if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
			return nil, fmt.Errorf("parse --json: %w", err)
		}
		if decoded == nil {
			return nil, errors.New("parse --json: expected a JSON object")
		}
		args = decoded
	}
	for _, p := range pairs {
		k, v, err := splitPair(p)
		if err != nil {
			return nil, err
		}
		args[k] = v
	}
	return args, nil
}

func splitPair(p string) (string, string, error) {
	k, v, ok := strings.Cut(p, "=")
	if !ok || k == "" {
		return "", "", fmt.Errorf("invalid argument %q: want key=value", p)
	}
	return k, v, nil
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
