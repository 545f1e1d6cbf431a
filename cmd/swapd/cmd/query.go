package cmd

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cobra"

	"github.com/paw-chain/swapcore/api"
	"github.com/paw-chain/swapcore/app"
	erc20types "github.com/paw-chain/swapcore/x/erc20/types"
)

// QueryCmd returns the read-only commands. Queries never write state.
func QueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "query",
		Aliases: []string{"q"},
		Short:   "Query the committed state",
	}

	cmd.AddCommand(
		QueryFactoryCmd(),
		QueryPairsCmd(),
		QueryPairCmd(),
		QueryPairByTokensCmd(),
		QueryPriceCmd(),
		QueryTokenCmd(),
		QueryBalanceCmd(),
		QueryAllowanceCmd(),
		QueryNonceCmd(),
		QueryInvariantsCmd(),
	)
	return cmd
}

func QueryFactoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "factory",
		Short: "Show the factory registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runQuery(cmd, func(node *app.App, ctx sdk.Context) (interface{}, error) {
				params, err := node.AMMKeeper.GetParams(ctx)
				if err != nil {
					return nil, err
				}
				return api.NewFactoryResponse(node, ctx, params), nil
			})
		},
	}
}

func QueryPairsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pairs",
		Short: "List all pairs in creation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runQuery(cmd, func(node *app.App, ctx sdk.Context) (interface{}, error) {
				resp := api.PairsResponse{Pairs: []api.PairResponse{}}
				resp.Total = node.AMMKeeper.AllPairsLength(ctx)
				resp.Limit = resp.Total
				for i := uint64(0); i < resp.Total; i++ {
					addr, err := node.AMMKeeper.AllPairs(ctx, i)
					if err != nil {
						return nil, err
					}
					p, err := node.AMMKeeper.Pair(ctx, addr)
					if err != nil {
						return nil, err
					}
					index := i
					pr := api.NewPairResponse(node, ctx, p)
					pr.Index = &index
					resp.Pairs = append(resp.Pairs, pr)
				}
				return resp, nil
			})
		},
	}
}

func QueryPairCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pair [pair]",
		Short: "Show the state of a pair",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := parseAddress(cmd, args[0])
			if err != nil {
				return err
			}
			return runQuery(cmd, func(node *app.App, ctx sdk.Context) (interface{}, error) {
				p, err := node.AMMKeeper.Pair(ctx, addr)
				if err != nil {
					return nil, err
				}
				return api.NewPairResponse(node, ctx, p), nil
			})
		},
	}
}

// QueryPairByTokensCmd looks a pair up by its tokens, in either order.
func QueryPairByTokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get-pair [token-a] [token-b]",
		Short: "Look up the pair of two tokens",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tokenA, err := parseAddress(cmd, args[0])
			if err != nil {
				return err
			}
			tokenB, err := parseAddress(cmd, args[1])
			if err != nil {
				return err
			}
			return runQuery(cmd, func(node *app.App, ctx sdk.Context) (interface{}, error) {
				addr, _ := node.AMMKeeper.GetPair(ctx, tokenA, tokenB)
				return map[string]string{"pair": addr.Hex()}, nil
			})
		},
	}
}

func QueryPriceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "price [pair]",
		Short: "Show the spot and cumulative prices of a pair",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := parseAddress(cmd, args[0])
			if err != nil {
				return err
			}
			return runQuery(cmd, func(node *app.App, ctx sdk.Context) (interface{}, error) {
				return api.NewPriceResponse(node, ctx, addr)
			})
		},
	}
}

func QueryTokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "token [token]",
		Short: "Show token metadata and supply",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := parseAddress(cmd, args[0])
			if err != nil {
				return err
			}
			return runQuery(cmd, func(node *app.App, ctx sdk.Context) (interface{}, error) {
				meta, err := node.ERC20Keeper.GetToken(ctx, addr)
				if err != nil {
					return nil, err
				}
				separator, err := node.ERC20Keeper.DomainSeparator(ctx, addr)
				if err != nil {
					return nil, err
				}
				return api.NewTokenResponse(node, ctx, addr, meta, separator), nil
			})
		},
	}
}

func QueryBalanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance [token] [account]",
		Short: "Show the balance of an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := parseAddress(cmd, args[0])
			if err != nil {
				return err
			}
			account, err := parseAddress(cmd, args[1])
			if err != nil {
				return err
			}
			return runQuery(cmd, func(node *app.App, ctx sdk.Context) (interface{}, error) {
				if !node.ERC20Keeper.HasToken(ctx, token) {
					return nil, erc20types.ErrTokenNotFound.Wrap(token.Hex())
				}
				return api.BalanceResponse{
					Token:   token.Hex(),
					Account: account.Hex(),
					Balance: node.ERC20Keeper.BalanceOf(ctx, token, account).Dec(),
				}, nil
			})
		},
	}
}

func QueryAllowanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "allowance [token] [owner] [spender]",
		Short: "Show the allowance of a spender",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := parseAddress(cmd, args[0])
			if err != nil {
				return err
			}
			owner, err := parseAddress(cmd, args[1])
			if err != nil {
				return err
			}
			spender, err := parseAddress(cmd, args[2])
			if err != nil {
				return err
			}
			return runQuery(cmd, func(node *app.App, ctx sdk.Context) (interface{}, error) {
				if !node.ERC20Keeper.HasToken(ctx, token) {
					return nil, erc20types.ErrTokenNotFound.Wrap(token.Hex())
				}
				return api.AllowanceResponse{
					Token:     token.Hex(),
					Owner:     owner.Hex(),
					Spender:   spender.Hex(),
					Allowance: node.ERC20Keeper.Allowance(ctx, token, owner, spender).Dec(),
				}, nil
			})
		},
	}
}

func QueryNonceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "nonce [token] [owner]",
		Short: "Show the next permit nonce of an owner",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := parseAddress(cmd, args[0])
			if err != nil {
				return err
			}
			owner, err := parseAddress(cmd, args[1])
			if err != nil {
				return err
			}
			return runQuery(cmd, func(node *app.App, ctx sdk.Context) (interface{}, error) {
				if !node.ERC20Keeper.HasToken(ctx, token) {
					return nil, erc20types.ErrTokenNotFound.Wrap(token.Hex())
				}
				return api.NonceResponse{
					Token: token.Hex(),
					Owner: owner.Hex(),
					Nonce: node.ERC20Keeper.Nonces(ctx, token, owner),
				}, nil
			})
		},
	}
}

// QueryInvariantsCmd checks token supplies and pair reserves against balances.
func QueryInvariantsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "invariants",
		Short: "Check the supply and reserve invariants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			node, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer node.Close()

			msg, broken := node.CheckInvariants()
			return printOutput(cmd, map[string]interface{}{
				"broken":  broken,
				"message": msg,
			})
		},
	}
}
