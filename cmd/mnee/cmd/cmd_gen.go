package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mnee-xyz/mnee-go/wallet"
)

var (
	flagGenWords    int
	flagGenPassword string
	flagGenOut      string
)

var cmdGen = &cobra.Command{
	Use:   "gen",
	Short: "Generate a new wallet mnemonic and first receive address",
	RunE: func(c *cobra.Command, args []string) error {
		entropy := wallet.Mnemonic12Words
		if flagGenWords == 24 {
			entropy = wallet.Mnemonic24Words
		}

		mnemonic, err := wallet.GenerateMnemonic(entropy)
		if err != nil {
			return err
		}

		seed, err := wallet.SeedFromMnemonic(mnemonic, "")
		if err != nil {
			return err
		}

		w, err := wallet.NewWallet(seed)
		if err != nil {
			return err
		}

		kp, err := w.ReceiveKey(0)
		if err != nil {
			return err
		}

		fmt.Printf("Mnemonic : %s\n", mnemonic)
		fmt.Printf("Address  : %s\n", kp.Address)
		fmt.Printf("Path     : %s\n", kp.Path)

		if flagGenOut != "" {
			if flagGenPassword == "" {
				return fmt.Errorf("--password is required with --out")
			}
			enc, err := wallet.EncryptSeed(seed, flagGenPassword)
			if err != nil {
				return err
			}
			if err := os.WriteFile(flagGenOut, enc, 0600); err != nil {
				return fmt.Errorf("write seed file: %w", err)
			}
			fmt.Printf("Seed file: %s\n", flagGenOut)
		}
		return nil
	},
}

func init() {
	cmdGen.Flags().IntVar(&flagGenWords, "words", 12, "mnemonic length (12 or 24)")
	cmdGen.Flags().StringVar(&flagGenPassword, "password", "", "password for the encrypted seed file")
	cmdGen.Flags().StringVar(&flagGenOut, "out", "", "write the encrypted seed to this file")
}
