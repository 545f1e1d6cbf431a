package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/paw-chain/swapcore/x/amm/types"
)

// Pair returns the state of the pair at addr.
func (k Keeper) Pair(ctx context.Context, addr common.Address) (types.Pair, error) {
	bz := k.getStore(ctx).Get(types.GetPairKey(addr))
	if bz == nil {
		return types.Pair{}, types.ErrPairNotFound.Wrapf("pair %s", addr.Hex())
	}
	return types.UnmarshalPair(bz)
}

// HasPair reports whether a pair exists at addr.
func (k Keeper) HasPair(ctx context.Context, addr common.Address) bool {
	return k.getStore(ctx).Has(types.GetPairKey(addr))
}

func (k Keeper) setPair(ctx context.Context, p types.Pair) error {
	bz, err := types.MarshalPair(p)
	if err != nil {
		return err
	}
	k.getStore(ctx).Set(types.GetPairKey(p.Address), bz)
	return nil
}

// GetReserves returns the recorded reserves of a pair and the 32-bit block
// timestamp of their last update.
func (k Keeper) GetReserves(ctx context.Context, addr common.Address) (reserve0, reserve1 *uint256.Int, blockTimestampLast uint32, err error) {
	p, err := k.Pair(ctx, addr)
	if err != nil {
		return nil, nil, 0, err
	}
	return p.Reserve0, p.Reserve1, p.BlockTimestampLast, nil
}

// blockTimestamp returns the block time truncated to 32 bits.
func blockTimestamp(ctx context.Context) uint32 {
	return uint32(sdk.UnwrapSDKContext(ctx).BlockTime().Unix())
}

// balances returns what the pair actually holds of each asset.
func (k Keeper) balances(ctx context.Context, p types.Pair) (*uint256.Int, *uint256.Int) {
	return k.tokenKeeper.BalanceOf(ctx, p.Token0, p.Address), k.tokenKeeper.BalanceOf(ctx, p.Token1, p.Address)
}

// update records balances as the new reserves. On the first update of a
// block, the price accumulators advance by the price that held since the
// previous update.
func (k Keeper) update(ctx context.Context, p *types.Pair, balance0, balance1 *uint256.Int) error {
	if balance0.Gt(types.MaxUint112) || balance1.Gt(types.MaxUint112) {
		return types.ErrOverflow.Wrapf("pair %s balances %s/%s exceed uint112", p.Address.Hex(), balance0.Dec(), balance1.Dec())
	}

	now := blockTimestamp(ctx)
	elapsed := types.ElapsedSeconds(p.BlockTimestampLast, now)
	if elapsed > 0 && !p.Reserve0.IsZero() && !p.Reserve1.IsZero() {
		p.Price0CumulativeLast = types.AdvanceCumulative(p.Price0CumulativeLast, types.Price(p.Reserve1, p.Reserve0), elapsed)
		p.Price1CumulativeLast = types.AdvanceCumulative(p.Price1CumulativeLast, types.Price(p.Reserve0, p.Reserve1), elapsed)
		k.metrics.TWAPUpdates.Inc()
	}

	p.Reserve0 = new(uint256.Int).Set(balance0)
	p.Reserve1 = new(uint256.Int).Set(balance1)
	p.BlockTimestampLast = now
	if err := k.setPair(ctx, *p); err != nil {
		return err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeSync,
			sdk.NewAttribute(types.AttributeKeyReserve0, p.Reserve0.Dec()),
			sdk.NewAttribute(types.AttributeKeyReserve1, p.Reserve1.Dec()),
			sdk.NewAttribute(types.AttributeKeyContract, p.Address.Hex()),
		),
	)
	k.metrics.recordReserves(*p)
	return nil
}
