package cmd

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/mnee-xyz/mnee-go/engine"
	"github.com/mnee-xyz/mnee-go/wallet"
)

var flagWIF string

var cmdTransfer = &cobra.Command{
	Use:   "transfer <recipient> <amount>",
	Short: "Send tokens to a recipient",
	RunE: func(c *cobra.Command, args []string) error {
		if len(args) != 2 {
			return errors.New("usage: transfer <recipient> <amount>")
		}
		if flagWIF == "" {
			return errors.New("--wif is required")
		}

		amount, err := decimal.NewFromString(args[1])
		if err != nil {
			return fmt.Errorf("invalid amount %q: %w", args[1], err)
		}

		kp, err := wallet.ImportWIF(flagWIF)
		if err != nil {
			return err
		}

		ctx := c.Context()
		eng, err := newEngine(ctx)
		if err != nil {
			return err
		}

		result, err := eng.Transfer(ctx, []engine.TransferRequest{
			{Address: args[0], Amount: amount},
		}, kp.PrivateKey)
		if err != nil {
			return err
		}

		fmt.Printf("txid: %s\n", result.TxID)
		return nil
	},
}

func init() {
	cmdTransfer.Flags().StringVar(&flagWIF, "wif", "", "WIF private key of the sending address")
}
