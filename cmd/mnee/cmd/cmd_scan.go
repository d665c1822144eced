package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mnee-xyz/mnee-go/wallet"
)

var (
	flagScanPassword string
	flagScanGap      uint32
)

var cmdScan = &cobra.Command{
	Use:   "scan",
	Short: "Discover funded wallet addresses and show their balances",
	RunE: func(c *cobra.Command, args []string) error {
		client, fc, err := newClient()
		if err != nil {
			return err
		}
		if fc.Wallet.SeedFile == "" {
			return errors.New("config: wallet.seed_file is required")
		}

		encrypted, err := os.ReadFile(fc.Wallet.SeedFile)
		if err != nil {
			return fmt.Errorf("read seed file: %w", err)
		}
		if flagScanPassword == "" {
			flagScanPassword, err = readSecret(fc.Wallet.SeedFile + ".password")
			if err != nil {
				return errors.New("--password is required")
			}
		}

		seed, err := wallet.DecryptSeed(encrypted, flagScanPassword)
		if err != nil {
			return err
		}

		w, err := wallet.NewWallet(seed)
		if err != nil {
			return err
		}

		var store *wallet.Store
		if fc.Wallet.StoreDB != "" {
			store, err = wallet.OpenStore(fc.Wallet.StoreDB)
			if err != nil {
				return err
			}
			defer store.Close()
		}

		ctx := c.Context()
		funded, err := w.Scan(ctx, client, store, flagScanGap)
		if err != nil {
			return err
		}

		cfg, err := client.Config(ctx)
		if err != nil {
			return fmt.Errorf("fetch service config: %w", err)
		}

		for _, f := range funded {
			fmt.Printf("%-12s %s  %s MNEE\n", f.Key.Path, f.Key.Address, cfg.FromAtomic(f.Balance))
		}
		fmt.Printf("total: %s MNEE\n", cfg.FromAtomic(wallet.Balance(funded)))
		return nil
	},
}

func init() {
	cmdScan.Flags().StringVar(&flagScanPassword, "password", "", "seed file password")
	cmdScan.Flags().Uint32Var(&flagScanGap, "gap", wallet.DefaultGapLimit, "address gap limit")
}
