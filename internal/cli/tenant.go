package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"canvasboard/internal/app"
	"canvasboard/internal/domain"
	"canvasboard/internal/logging"
)

// showCommand prints a tenant's persisted canvas as JSON.
func (c *CLI) showCommand() *cobra.Command {
	var suite, office string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the saved canvas of a suite/office",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := app.New(ctx, c.cfg, logging.FromContext(ctx), nil)
			if err != nil {
				return err
			}
			defer a.Close(ctx)

			t := domain.Tenant{SuiteID: suite, OfficeID: office}
			state := a.States().Load(ctx, t)
			if state == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "no saved canvas for %s/%s\n", suite, office)
				return nil
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(state)
		},
	}
	addTenantFlags(cmd, &suite, &office)
	return cmd
}

// clearCommand deletes a tenant's persisted canvas.
func (c *CLI) clearCommand() *cobra.Command {
	var suite, office string
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete the saved canvas of a suite/office",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := app.New(ctx, c.cfg, logging.FromContext(ctx), nil)
			if err != nil {
				return err
			}
			defer a.Close(ctx)

			t := domain.Tenant{SuiteID: suite, OfficeID: office}
			a.States().Clear(ctx, t)
			fmt.Fprintf(cmd.OutOrStdout(), "cleared %s\n", a.States().Key(t))
			return nil
		},
	}
	addTenantFlags(cmd, &suite, &office)
	return cmd
}
