package cmd

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/spf13/cobra"

	"github.com/paw-chain/swapcore/app"
	ammtypes "github.com/paw-chain/swapcore/x/amm/types"
)

const (
	flagTo     = "to"
	flagMinOut = "min-out"
)

// PairCmd returns the pair transaction commands. Each command pays the pair
// and calls it in the same transition.
func PairCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pair",
		Short: "Pair transactions",
	}

	cmd.AddCommand(
		MintCmd(),
		BurnCmd(),
		SwapCmd(),
		SyncCmd(),
		SkimCmd(),
		SyncAllCmd(),
	)
	return cmd
}

// recipient returns --to, defaulting to the sender.
func recipient(cmd *cobra.Command, from common.Address) (common.Address, error) {
	to, _ := cmd.Flags().GetString(flagTo)
	if to == "" {
		return from, nil
	}
	return parseAddress(cmd, to)
}

func addToFlag(cmd *cobra.Command, usage string) {
	cmd.Flags().String(flagTo, "", usage)
}

// MintCmd deposits both tokens and mints liquidity.
func MintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mint [pair] [amount0] [amount1]",
		Short: "Deposit token0 and token1 into a pair and mint liquidity",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := fromAddress(cmd)
			if err != nil {
				return err
			}
			to, err := recipient(cmd, from)
			if err != nil {
				return err
			}
			pairAddr, err := parseAddress(cmd, args[0])
			if err != nil {
				return err
			}
			amount0, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			amount1, err := parseAmount(args[2])
			if err != nil {
				return err
			}
			return runTx(cmd, func(node *app.App, ctx sdk.Context, result map[string]string) error {
				p, err := node.AMMKeeper.Pair(ctx, pairAddr)
				if err != nil {
					return err
				}
				if err := node.ERC20Keeper.Transfer(ctx, p.Token0, from, pairAddr, amount0); err != nil {
					return err
				}
				if err := node.ERC20Keeper.Transfer(ctx, p.Token1, from, pairAddr, amount1); err != nil {
					return err
				}
				liquidity, err := node.AMMKeeper.Mint(ctx, from, pairAddr, to)
				if err != nil {
					return err
				}
				result["liquidity"] = liquidity.Dec()
				return nil
			})
		},
	}
	addFromFlag(cmd)
	addToFlag(cmd, "Recipient of the liquidity (defaults to the sender)")
	return cmd
}

// BurnCmd returns liquidity to the pair and withdraws the underlying tokens.
func BurnCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "burn [pair] [liquidity]",
		Short: "Burn liquidity and withdraw the proportional reserves",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := fromAddress(cmd)
			if err != nil {
				return err
			}
			to, err := recipient(cmd, from)
			if err != nil {
				return err
			}
			pairAddr, err := parseAddress(cmd, args[0])
			if err != nil {
				return err
			}
			liquidity, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			return runTx(cmd, func(node *app.App, ctx sdk.Context, result map[string]string) error {
				if err := node.ERC20Keeper.Transfer(ctx, pairAddr, from, pairAddr, liquidity); err != nil {
					return err
				}
				amount0, amount1, err := node.AMMKeeper.Burn(ctx, from, pairAddr, to)
				if err != nil {
					return err
				}
				result["amount0"] = amount0.Dec()
				result["amount1"] = amount1.Dec()
				return nil
			})
		},
	}
	addFromFlag(cmd)
	addToFlag(cmd, "Recipient of the withdrawn tokens (defaults to the sender)")
	return cmd
}

// SwapCmd pays an exact input and takes the largest output the pair allows.
func SwapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "swap [pair] [token-in] [amount-in]",
		Short: "Swap an exact amount of one token for the other",
		Long: `Transfer amount-in of token-in to the pair and withdraw the largest
amount of the other token that keeps the fee-adjusted reserve product. The
output is computed from what the pair actually received, so tokens that burn
on transfer are priced correctly.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := fromAddress(cmd)
			if err != nil {
				return err
			}
			to, err := recipient(cmd, from)
			if err != nil {
				return err
			}
			pairAddr, err := parseAddress(cmd, args[0])
			if err != nil {
				return err
			}
			tokenIn, err := parseAddress(cmd, args[1])
			if err != nil {
				return err
			}
			amountIn, err := parseAmount(args[2])
			if err != nil {
				return err
			}
			minOut, err := parseAmount(cmd.Flag(flagMinOut).Value.String())
			if err != nil {
				return err
			}

			return runTx(cmd, func(node *app.App, ctx sdk.Context, result map[string]string) error {
				p, err := node.AMMKeeper.Pair(ctx, pairAddr)
				if err != nil {
					return err
				}
				params, err := node.AMMKeeper.GetParams(ctx)
				if err != nil {
					return err
				}

				var reserveIn, reserveOut *uint256.Int
				switch tokenIn {
				case p.Token0:
					reserveIn, reserveOut = p.Reserve0, p.Reserve1
				case p.Token1:
					reserveIn, reserveOut = p.Reserve1, p.Reserve0
				default:
					return fmt.Errorf("token %s is not in pair %s", tokenIn.Hex(), pairAddr.Hex())
				}

				if err := node.ERC20Keeper.Transfer(ctx, tokenIn, from, pairAddr, amountIn); err != nil {
					return err
				}
				received := new(uint256.Int)
				if balance := node.ERC20Keeper.BalanceOf(ctx, tokenIn, pairAddr); balance.Gt(reserveIn) {
					received.Sub(balance, reserveIn)
				}
				amountOut, err := ammtypes.GetAmountOut(received, reserveIn, reserveOut, params.SwapFee)
				if err != nil {
					return err
				}
				if amountOut.Lt(minOut) {
					return ammtypes.ErrInsufficientLiquidity.Wrapf("output %s below minimum %s", amountOut.Dec(), minOut.Dec())
				}

				amount0Out, amount1Out := new(uint256.Int), new(uint256.Int)
				if tokenIn == p.Token0 {
					amount1Out.Set(amountOut)
				} else {
					amount0Out.Set(amountOut)
				}
				if err := node.AMMKeeper.Swap(ctx, from, pairAddr, amount0Out, amount1Out, to, nil); err != nil {
					return err
				}
				result["amount_in"] = received.Dec()
				result["amount_out"] = amountOut.Dec()
				return nil
			})
		},
	}
	addFromFlag(cmd)
	addToFlag(cmd, "Recipient of the output (defaults to the sender)")
	cmd.Flags().String(flagMinOut, "0", "Fail unless at least this much is received")
	return cmd
}

// SyncCmd forces the reserves to match the balances.
func SyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync [pair]",
		Short: "Set a pair's reserves to its balances",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := fromAddress(cmd)
			if err != nil {
				return err
			}
			pairAddr, err := parseAddress(cmd, args[0])
			if err != nil {
				return err
			}
			return runTx(cmd, func(node *app.App, ctx sdk.Context, _ map[string]string) error {
				return node.AMMKeeper.Sync(ctx, from, pairAddr)
			})
		},
	}
	addFromFlag(cmd)
	return cmd
}

// SkimCmd sends balances above the reserves to a recipient.
func SkimCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "skim [pair] [to]",
		Short: "Send a pair's balances in excess of its reserves to an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := fromAddress(cmd)
			if err != nil {
				return err
			}
			pairAddr, err := parseAddress(cmd, args[0])
			if err != nil {
				return err
			}
			to, err := parseAddress(cmd, args[1])
			if err != nil {
				return err
			}
			return runTx(cmd, func(node *app.App, ctx sdk.Context, _ map[string]string) error {
				return node.AMMKeeper.Skim(ctx, from, pairAddr, to)
			})
		},
	}
	addFromFlag(cmd)
	return cmd
}

// SyncAllCmd syncs every pair the factory created.
func SyncAllCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync-all",
		Short: "Sync the reserves of every pair",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			from, err := fromAddress(cmd)
			if err != nil {
				return err
			}
			return runTx(cmd, func(node *app.App, ctx sdk.Context, result map[string]string) error {
				n, err := node.AMMKeeper.SyncAll(ctx, from)
				if err != nil {
					return err
				}
				result["synced"] = fmt.Sprint(n)
				return nil
			})
		},
	}
	addFromFlag(cmd)
	return cmd
}
