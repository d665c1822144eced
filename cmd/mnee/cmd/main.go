// Package cmd implements the mnee command line tool.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/mnee-xyz/mnee-go/engine"
	"github.com/mnee-xyz/mnee-go/network"
)

var (
	flagConfig string
	flagDebug  bool
)

var rootCmd = &cobra.Command{
	Use:   "mnee",
	Short: "MNEE token wallet and transaction tool",
	PersistentPreRun: func(c *cobra.Command, args []string) {
		level := slog.LevelInfo
		if flagDebug {
			level = slog.LevelDebug
		}
		handler := tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: time.RFC3339,
		})
		slog.SetDefault(slog.New(handler))
	},
}

func Execute() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "mnee.yaml", "path to config file")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logs")

	rootCmd.AddCommand(cmdBalance)
	rootCmd.AddCommand(cmdTransfer)
	rootCmd.AddCommand(cmdClassify)
	rootCmd.AddCommand(cmdValidate)
	rootCmd.AddCommand(cmdGen)
	rootCmd.AddCommand(cmdScan)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newClient loads the config file and builds the API client.
func newClient() (*network.Client, *FileConfig, error) {
	fc, err := LoadFileConfig(flagConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("load config %s: %w", flagConfig, err)
	}
	return network.NewClient(fc.API.URL, fc.API.Key), fc, nil
}

// newEngine fetches the service configuration and wires the engine with the
// API client as every collaborator.
func newEngine(ctx context.Context) (*engine.Engine, error) {
	client, _, err := newClient()
	if err != nil {
		return nil, err
	}

	cfg, err := client.Config(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch service config: %w", err)
	}

	return engine.New(cfg, engine.Dependencies{
		UTXOs:       client,
		Chain:       client,
		Cosigner:    client,
		Broadcaster: client,
		Logger:      slog.Default(),
	})
}
