package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var cmdBalance = &cobra.Command{
	Use:   "balance <address>...",
	Short: "Show the token balance of one or more addresses",
	RunE: func(c *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.New("at least one address is required")
		}

		ctx := c.Context()
		client, _, err := newClient()
		if err != nil {
			return err
		}

		cfg, err := client.Config(ctx)
		if err != nil {
			return fmt.Errorf("fetch service config: %w", err)
		}

		total, err := client.Balance(ctx, args)
		if err != nil {
			return err
		}

		fmt.Printf("%s MNEE (%d atomic units)\n", cfg.FromAtomic(total), total)
		return nil
	},
}
