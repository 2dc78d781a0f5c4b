// Package cli implements the canvasboard command line.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"canvasboard/internal/config"
	"canvasboard/internal/logging"
)

var version = "dev"

// SetVersion sets the version reported by --version and the MCP server.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// CLI holds state shared by every subcommand.
type CLI struct {
	configPath string
	verbose    bool
	cfg        config.Config
}

// Execute runs the canvasboard CLI.
func Execute() error {
	return NewRootCommand().ExecuteContext(context.Background())
}

// NewRootCommand builds the command tree. Configuration is loaded and the
// logger attached to the command context before any subcommand runs.
func NewRootCommand() *cobra.Command {
	c := &CLI{}

	root := &cobra.Command{
		Use:          "canvasboard",
		Short:        "Canvas widget placement engine with tenant-scoped persistence",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			if c.verbose {
				cfg.Log.Level = "debug"
			}
			logger, err := logging.New(cmd.ErrOrStderr(), cfg.Log.Level)
			if err != nil {
				return err
			}
			c.cfg = cfg
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(logging.WithLogger(ctx, logger))
			return nil
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("canvasboard %s\n", version))
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "path to YAML config (default $CANVASBOARD_CONFIG)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.serveCommand())
	root.AddCommand(c.showCommand())
	root.AddCommand(c.clearCommand())

	return root
}

// addTenantFlags registers the required --suite/--office pair.
func addTenantFlags(cmd *cobra.Command, suite, office *string) {
	cmd.Flags().StringVar(suite, "suite", "", "suite identifier")
	cmd.Flags().StringVar(office, "office", "", "office identifier")
	_ = cmd.MarkFlagRequired("suite")
	_ = cmd.MarkFlagRequired("office")
}
