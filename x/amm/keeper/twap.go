package keeper

import (
	"context"

	"cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/paw-chain/swapcore/x/amm/types"
)

// CurrentCumulativePrices returns the pair's price accumulators as they would
// read if the pair were updated at the current block time, without writing.
// Oracles sample this at two points in time and divide the difference by the
// elapsed seconds.
func (k Keeper) CurrentCumulativePrices(ctx context.Context, pairAddr common.Address) (price0Cumulative, price1Cumulative *uint256.Int, timestamp uint32, err error) {
	p, err := k.Pair(ctx, pairAddr)
	if err != nil {
		return nil, nil, 0, err
	}

	timestamp = blockTimestamp(ctx)
	price0Cumulative = new(uint256.Int).Set(p.Price0CumulativeLast)
	price1Cumulative = new(uint256.Int).Set(p.Price1CumulativeLast)

	if elapsed := types.ElapsedSeconds(p.BlockTimestampLast, timestamp); elapsed > 0 && !p.Reserve0.IsZero() && !p.Reserve1.IsZero() {
		price0Cumulative = types.AdvanceCumulative(price0Cumulative, types.Price(p.Reserve1, p.Reserve0), elapsed)
		price1Cumulative = types.AdvanceCumulative(price1Cumulative, types.Price(p.Reserve0, p.Reserve1), elapsed)
	}

	k.Logger(ctx).Debug("read cumulative prices", "pair", pairAddr.Hex(), "timestamp", timestamp)
	return price0Cumulative, price1Cumulative, timestamp, nil
}

// SpotPrices returns the instantaneous prices implied by the recorded
// reserves: token0 in units of token1, and token1 in units of token0.
func (k Keeper) SpotPrices(ctx context.Context, pairAddr common.Address) (price0, price1 math.LegacyDec, err error) {
	p, err := k.Pair(ctx, pairAddr)
	if err != nil {
		return math.LegacyDec{}, math.LegacyDec{}, err
	}
	if p.Reserve0.IsZero() || p.Reserve1.IsZero() {
		return math.LegacyZeroDec(), math.LegacyZeroDec(), nil
	}
	price0 = types.UQ112x112ToDec(types.Price(p.Reserve1, p.Reserve0))
	price1 = types.UQ112x112ToDec(types.Price(p.Reserve0, p.Reserve1))
	return price0, price1, nil
}
