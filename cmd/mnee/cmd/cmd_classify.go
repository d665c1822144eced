package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var cmdClassify = &cobra.Command{
	Use:   "classify <rawtx-hex|txid>",
	Short: "Decode and classify a token transaction",
	RunE: func(c *cobra.Command, args []string) error {
		if len(args) != 1 {
			return errors.New("usage: classify <rawtx-hex|txid>")
		}

		ctx := c.Context()
		eng, err := newEngine(ctx)
		if err != nil {
			return err
		}

		parsed, err := eng.Classify(ctx, args[0])
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(parsed, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}
