package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"canvasboard/internal/app"
	"canvasboard/internal/logging"
	mcpserver "canvasboard/internal/mcp"
)

// serveCommand runs the MCP server on stdio until the client disconnects.
func (c *CLI) serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve canvas tools over MCP stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := logging.FromContext(ctx)

			a, err := app.New(ctx, c.cfg, logger, nil)
			if err != nil {
				return err
			}
			defer func() {
				if err := a.Close(ctx); err != nil {
					logger.Warn("close", "err", err)
				}
			}()

			logger.Info("serving", "driver", c.cfg.Storage.Driver, "grid", c.cfg.Canvas.GridSize)
			if err := mcpserver.New(a, logger, version).ServeStdio(); err != nil {
				return fmt.Errorf("mcp server: %w", err)
			}
			return nil
		},
	}
}
