package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"

	"github.com/paw-chain/swapcore/x/amm/types"
)

// Skim sends whatever the pair holds beyond its recorded reserves to to.
func (k Keeper) Skim(ctx context.Context, sender, pairAddr, to common.Address) error {
	return k.WithReentrancyGuard(ctx, pairAddr, "skim", func(ctx sdk.Context) error {
		p, err := k.Pair(ctx, pairAddr)
		if err != nil {
			return err
		}

		balance0, balance1 := k.balances(ctx, p)
		excess0, err := SafeSub(balance0, p.Reserve0, "excess of token0")
		if err != nil {
			return err
		}
		excess1, err := SafeSub(balance1, p.Reserve1, "excess of token1")
		if err != nil {
			return err
		}

		if err := k.tokenKeeper.Transfer(ctx, p.Token0, pairAddr, to, excess0); err != nil {
			return err
		}
		if err := k.tokenKeeper.Transfer(ctx, p.Token1, pairAddr, to, excess1); err != nil {
			return err
		}

		k.Logger(ctx).Debug("pair skimmed", "pair", pairAddr.Hex(), "sender", sender.Hex(),
			"to", to.Hex(), "amount0", excess0.Dec(), "amount1", excess1.Dec())
		return nil
	})
}

// Sync sets the recorded reserves to the balances the pair actually holds.
func (k Keeper) Sync(ctx context.Context, sender, pairAddr common.Address) error {
	return k.WithReentrancyGuard(ctx, pairAddr, "sync", func(ctx sdk.Context) error {
		p, err := k.Pair(ctx, pairAddr)
		if err != nil {
			return err
		}

		balance0, balance1 := k.balances(ctx, p)
		if err := k.update(ctx, &p, balance0, balance1); err != nil {
			return err
		}

		k.Logger(ctx).Debug("pair synced", "pair", pairAddr.Hex(), "sender", sender.Hex(),
			"reserve0", p.Reserve0.Dec(), "reserve1", p.Reserve1.Dec())
		return nil
	})
}

// SyncAll is Sync over every pair, for operators recovering from skewed balances.
func (k Keeper) SyncAll(ctx context.Context, sender common.Address) (int, error) {
	var pairs []common.Address
	if err := k.IteratePairs(ctx, func(_ uint64, p types.Pair) bool {
		pairs = append(pairs, p.Address)
		return false
	}); err != nil {
		return 0, err
	}
	for _, pair := range pairs {
		if err := k.Sync(ctx, sender, pair); err != nil {
			return 0, err
		}
	}
	return len(pairs), nil
}
