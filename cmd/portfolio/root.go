package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/tendant/simple-portfolio/pkg/portfolio"
	"github.com/tendant/simple-portfolio/pkg/portfolio/config"
)

// app holds the global flags and the lazily loaded configuration
type app struct {
	root       string
	configPath string
	verbose    bool

	cfg *config.ServerConfig
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "portfolio",
		Short: "Local editor for a static portfolio site",
		Long: `portfolio manages the JSON collections and images of a static portfolio
site and publishes changes with git.

Articles, projects and notes live in data/<kind>.json under the site root.
Run "portfolio serve" for the HTTP API, or use the subcommands directly.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if a.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))

			if cmd.Name() == "env" {
				return nil
			}
			return a.loadConfig()
		},
	}

	cmd.PersistentFlags().StringVar(&a.root, "root", "", "site project directory (default: $PORTFOLIO_ROOT or .)")
	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (yaml, json or toml)")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(
		newServeCmd(a),
		newListCmd(a),
		newAddCmd(a),
		newDeleteCmd(a),
		newShowCmd(a),
		newPublishCmd(a),
		newEnvCmd(),
	)
	return cmd
}

func (a *app) loadConfig() error {
	opts := []config.Option{config.WithFile(a.configPath), config.WithEnv()}
	if a.root != "" {
		opts = append(opts, config.WithRoot(a.root))
	}

	cfg, err := config.Load(opts...)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	a.cfg = cfg
	slog.Debug("Configuration loaded", "root", cfg.Root, "environment", cfg.Environment)
	return nil
}

func (a *app) service() (portfolio.Service, error) {
	svc, err := a.cfg.BuildService()
	if err != nil {
		return nil, fmt.Errorf("failed to build service: %w", err)
	}
	return svc, nil
}

// kindFlag registers the --kind flag shared by the content commands
func kindFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVarP(target, "kind", "k", string(portfolio.DefaultKind), "article, project or note")
}

func newEnvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "List the environment variables portfolio reads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			usage, err := config.Usage()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), usage)
			return nil
		},
	}
}

