package cmd

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cobra"

	"github.com/paw-chain/swapcore/app"
)

// FactoryCmd returns the factory transaction commands.
func FactoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "factory",
		Short: "Factory transactions",
	}

	cmd.AddCommand(
		CreatePairCmd(),
		SetFeeToCmd(),
		SetFeeToSetterCmd(),
	)
	return cmd
}

// CreatePairCmd creates the pair of two tokens.
func CreatePairCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-pair [token-a] [token-b]",
		Short: "Create the pair for two tokens",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := fromAddress(cmd); err != nil {
				return err
			}
			tokenA, err := parseAddress(cmd, args[0])
			if err != nil {
				return err
			}
			tokenB, err := parseAddress(cmd, args[1])
			if err != nil {
				return err
			}
			return runTx(cmd, func(node *app.App, ctx sdk.Context, result map[string]string) error {
				pair, err := node.AMMKeeper.CreatePair(ctx, tokenA, tokenB)
				if err != nil {
					return err
				}
				result["pair"] = pair.Hex()
				return nil
			})
		},
	}
	addFromFlag(cmd)
	return cmd
}

// SetFeeToCmd sets the protocol fee recipient. Only the fee-to-setter may.
func SetFeeToCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-fee-to [address]",
		Short: "Set the protocol fee recipient; the zero address turns the fee off",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := fromAddress(cmd)
			if err != nil {
				return err
			}
			feeTo, err := parseAddress(cmd, args[0])
			if err != nil {
				return err
			}
			return runTx(cmd, func(node *app.App, ctx sdk.Context, _ map[string]string) error {
				return node.AMMKeeper.SetFeeTo(ctx, from, feeTo)
			})
		},
	}
	addFromFlag(cmd)
	return cmd
}

// SetFeeToSetterCmd hands the fee-to-setter role to another account.
func SetFeeToSetterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-fee-to-setter [address]",
		Short: "Transfer the fee-to-setter role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := fromAddress(cmd)
			if err != nil {
				return err
			}
			setter, err := parseAddress(cmd, args[0])
			if err != nil {
				return err
			}
			return runTx(cmd, func(node *app.App, ctx sdk.Context, _ map[string]string) error {
				return node.AMMKeeper.SetFeeToSetter(ctx, from, setter)
			})
		},
	}
	addFromFlag(cmd)
	return cmd
}
