package keeper

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"

	"github.com/paw-chain/swapcore/x/amm/types"
)

// RegisterInvariants registers all amm invariants
func RegisterInvariants(ir sdk.InvariantRegistry, k Keeper) {
	ir.RegisterRoute(types.ModuleName, "pair-reserves", PairReservesInvariant(k))
	ir.RegisterRoute(types.ModuleName, "minimum-liquidity", MinimumLiquidityInvariant(k))
	ir.RegisterRoute(types.ModuleName, "pair-registry", PairRegistryInvariant(k))
}

// AllInvariants runs all invariants of the amm module
func AllInvariants(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		res, stop := PairReservesInvariant(k)(ctx)
		if stop {
			return res, stop
		}

		res, stop = MinimumLiquidityInvariant(k)(ctx)
		if stop {
			return res, stop
		}

		return PairRegistryInvariant(k)(ctx)
	}
}

// PairReservesInvariant checks that no pair records more reserves than it holds
func PairReservesInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		err := k.IteratePairs(ctx, func(_ uint64, p types.Pair) bool {
			balance0, balance1 := k.balances(ctx, p)
			if balance0.Lt(p.Reserve0) {
				count++
				msg += fmt.Sprintf("pair %s: balance of %s (%s) < reserve0 (%s)\n",
					p.Address.Hex(), p.Token0.Hex(), balance0.Dec(), p.Reserve0.Dec())
			}
			if balance1.Lt(p.Reserve1) {
				count++
				msg += fmt.Sprintf("pair %s: balance of %s (%s) < reserve1 (%s)\n",
					p.Address.Hex(), p.Token1.Hex(), balance1.Dec(), p.Reserve1.Dec())
			}
			if p.Reserve0.Gt(types.MaxUint112) || p.Reserve1.Gt(types.MaxUint112) {
				count++
				msg += fmt.Sprintf("pair %s: reserves %s/%s exceed uint112\n",
					p.Address.Hex(), p.Reserve0.Dec(), p.Reserve1.Dec())
			}
			return false
		})
		if err != nil {
			count++
			msg += err.Error() + "\n"
		}

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "pair-reserves",
			fmt.Sprintf("found %d pairs with reserve > balance\n%s", count, msg),
		), broken
	}
}

// MinimumLiquidityInvariant checks that every pair with shares outstanding
// still has the minimum liquidity locked at the zero address
func MinimumLiquidityInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		err := k.IteratePairs(ctx, func(_ uint64, p types.Pair) bool {
			supply := k.tokenKeeper.TotalSupply(ctx, p.Address)
			if supply.IsZero() {
				return false
			}
			locked := k.tokenKeeper.BalanceOf(ctx, p.Address, common.Address{})
			if locked.Lt(types.MinimumLiquidity) {
				count++
				msg += fmt.Sprintf("pair %s: locked shares %s < %s\n",
					p.Address.Hex(), locked.Dec(), types.MinimumLiquidity.Dec())
			}
			return false
		})
		if err != nil {
			count++
			msg += err.Error() + "\n"
		}

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "minimum-liquidity",
			fmt.Sprintf("found %d pairs without locked liquidity\n%s", count, msg),
		), broken
	}
}

// PairRegistryInvariant checks that the pair list, the pair count and the
// token index agree
func PairRegistryInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
			seen  uint64
		)

		err := k.IteratePairs(ctx, func(index uint64, p types.Pair) bool {
			if index != seen {
				count++
				msg += fmt.Sprintf("pair %s: index %d, expected %d\n", p.Address.Hex(), index, seen)
			}
			seen++

			for _, tokens := range [][2]common.Address{{p.Token0, p.Token1}, {p.Token1, p.Token0}} {
				addr, found := k.GetPair(ctx, tokens[0], tokens[1])
				if !found || addr != p.Address {
					count++
					msg += fmt.Sprintf("pair %s: token index %s/%s resolves to %s\n",
						p.Address.Hex(), tokens[0].Hex(), tokens[1].Hex(), addr.Hex())
				}
			}
			return false
		})
		if err != nil {
			count++
			msg += err.Error() + "\n"
		}
		if length := k.AllPairsLength(ctx); length != seen {
			count++
			msg += fmt.Sprintf("pair count %d, but %d pairs listed\n", length, seen)
		}

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "pair-registry",
			fmt.Sprintf("found %d registry inconsistencies\n%s", count, msg),
		), broken
	}
}
