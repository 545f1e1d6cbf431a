package keeper

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/paw-chain/swapcore/x/amm/types"
)

// protocolFeeFactor sets the protocol's cut to 1/(factor+1) of the growth in sqrt(k).
var protocolFeeFactor = uint256.NewInt(5)

// mintFee mints the protocol's share of the fees accrued since the last
// liquidity event to FeeTo, and reports whether the protocol fee is on.
// With the fee off a stale KLast is cleared. Callers persist p.
func (k Keeper) mintFee(ctx context.Context, p *types.Pair) (bool, error) {
	feeTo := k.FeeTo(ctx)
	feeOn := feeTo != (common.Address{})

	if !feeOn {
		if !p.KLast.IsZero() {
			p.KLast = new(uint256.Int)
		}
		return false, nil
	}
	if p.KLast.IsZero() {
		return true, nil
	}

	// reserves fit in 112 bits, so their product cannot overflow
	rootK := Sqrt(new(uint256.Int).Mul(p.Reserve0, p.Reserve1))
	rootKLast := Sqrt(p.KLast)
	if !rootK.Gt(rootKLast) {
		return true, nil
	}

	totalSupply := k.tokenKeeper.TotalSupply(ctx, p.Address)
	numerator, err := SafeMul(totalSupply, new(uint256.Int).Sub(rootK, rootKLast), "protocol fee numerator")
	if err != nil {
		return false, err
	}
	denominator, err := SafeMul(rootK, protocolFeeFactor, "protocol fee denominator")
	if err != nil {
		return false, err
	}
	if denominator, err = SafeAdd(denominator, rootKLast, "protocol fee denominator"); err != nil {
		return false, err
	}

	liquidity := numerator.Div(numerator, denominator)
	if liquidity.IsZero() {
		return true, nil
	}
	if err := k.tokenKeeper.Mint(ctx, p.Address, feeTo, liquidity); err != nil {
		return false, err
	}
	k.metrics.ProtocolFeesMinted.Inc()
	return true, nil
}

// recordKLast stores reserve0*reserve1 after a liquidity event with the protocol fee on.
func (k Keeper) recordKLast(ctx context.Context, p *types.Pair) error {
	p.KLast = new(uint256.Int).Mul(p.Reserve0, p.Reserve1)
	return k.setPair(ctx, *p)
}
