package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/paw-chain/swapcore/app"
)

const (
	flagHome   = "home"
	flagFrom   = "from"
	flagOutput = "output"
)

type configKey struct{}

// NewRootCmd creates a new root command for swapd. It is called once in the
// main function.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "swapd",
		Short: "Constant-product exchange node",
		Long: `swapd runs a single-node ledger of fungible tokens and the
constant-product pairs that trade them. Every command applies one atomic
transition to the local state and commits it as a new block.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SetOut(cmd.OutOrStdout())
			cmd.SetErr(cmd.ErrOrStderr())

			home, err := cmd.Flags().GetString(flagHome)
			if err != nil {
				return err
			}
			cfg, err := app.LoadConfig(home)
			if err != nil {
				return err
			}

			cmd.SetContext(withConfig(cmd, cfg))
			return nil
		},
	}

	rootCmd.PersistentFlags().String(flagHome, defaultHome(), "directory for config and data")
	rootCmd.PersistentFlags().StringP(flagOutput, "o", "text", "Output format (text|json)")

	rootCmd.AddCommand(
		InitCmd(),
		KeysCmd(),
		TokenCmd(),
		FactoryCmd(),
		PairCmd(),
		QueryCmd(),
		ExportCmd(),
		StartCmd(),
	)

	return rootCmd
}

func defaultHome() string {
	if home := os.Getenv(app.EnvPrefix + "_HOME"); home != "" {
		return home
	}
	return app.DefaultNodeHome
}

func homeDir(cmd *cobra.Command) string {
	home, _ := cmd.Flags().GetString(flagHome)
	return home
}

func nodeConfig(cmd *cobra.Command) (app.Config, error) {
	if cmd.Context() != nil {
		if cfg, ok := cmd.Context().Value(configKey{}).(app.Config); ok {
			return cfg, nil
		}
	}
	return app.Config{}, errors.New("node configuration not loaded")
}

func withConfig(cmd *cobra.Command, cfg app.Config) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, configKey{}, cfg)
}

// openApp opens the node state, loading genesis.json on first use.
func openApp(cmd *cobra.Command) (*app.App, error) {
	cfg, err := nodeConfig(cmd)
	if err != nil {
		return nil, err
	}
	home := homeDir(cmd)

	db, err := cfg.OpenDB(home)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	node, err := app.New(cfg.NewLogger(cmd.ErrOrStderr()), db, cfg.ChainID)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	provider, err := cfg.NewTelemetry(cmd.Context())
	if err != nil {
		_ = node.Close()
		return nil, err
	}
	node.SetTelemetry(provider)
	if node.Initialized() {
		return node, nil
	}

	doc, err := app.LoadGenesisDoc(app.GenesisPath(home))
	if err != nil {
		_ = node.Close()
		return nil, fmt.Errorf("chain is not initialized, run swapd init: %w", err)
	}
	if err := node.InitChain(doc); err != nil {
		_ = node.Close()
		return nil, err
	}
	return node, nil
}
