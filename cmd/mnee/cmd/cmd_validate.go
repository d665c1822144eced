package cmd

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/mnee-xyz/mnee-go/engine"
)

var (
	flagValidateTo     []string
	flagValidateAmount []string
)

var cmdValidate = &cobra.Command{
	Use:   "validate <rawtx-hex>",
	Short: "Check that a cosigned transaction pays the expected recipients",
	RunE: func(c *cobra.Command, args []string) error {
		if len(args) != 1 {
			return errors.New("usage: validate <rawtx-hex>")
		}
		if len(flagValidateTo) != len(flagValidateAmount) {
			return errors.New("--to and --amount must be given the same number of times")
		}

		expected := make([]engine.TransferRequest, 0, len(flagValidateTo))
		for i, to := range flagValidateTo {
			amount, err := decimal.NewFromString(flagValidateAmount[i])
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", flagValidateAmount[i], err)
			}
			expected = append(expected, engine.TransferRequest{Address: to, Amount: amount})
		}

		ctx := c.Context()
		eng, err := newEngine(ctx)
		if err != nil {
			return err
		}

		if eng.Validate(ctx, args[0], expected) {
			fmt.Println("valid")
			return nil
		}
		fmt.Println("invalid")
		return errors.New("transaction failed validation")
	},
}

func init() {
	cmdValidate.Flags().StringArrayVar(&flagValidateTo, "to", nil, "expected recipient address (repeatable)")
	cmdValidate.Flags().StringArrayVar(&flagValidateAmount, "amount", nil, "expected amount for the matching --to (repeatable)")
}
