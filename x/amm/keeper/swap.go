package keeper

import (
	"context"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/paw-chain/swapcore/x/amm/types"
)

// feeScaleSquared is FeeDenominator².
var feeScaleSquared = uint256.NewInt(types.FeeDenominator * types.FeeDenominator)

// Swap sends amount0Out and amount1Out to to and then requires the pair to
// have been paid enough that the fee-adjusted reserve product does not
// decrease. When data is non-empty the callee registered for to is invoked
// between the payout and the check, which lets it repay within the same
// transition (flash swap).
func (k Keeper) Swap(
	ctx context.Context,
	sender, pairAddr common.Address,
	amount0Out, amount1Out *uint256.Int,
	to common.Address,
	data []byte,
) error {
	var amount0In, amount1In *uint256.Int

	err := k.WithReentrancyGuard(ctx, pairAddr, "swap", func(ctx sdk.Context) error {
		if amount0Out.IsZero() && amount1Out.IsZero() {
			return types.ErrInsufficientLiquidity.Wrap("no output requested")
		}

		p, err := k.Pair(ctx, pairAddr)
		if err != nil {
			return err
		}
		if !amount0Out.Lt(p.Reserve0) || !amount1Out.Lt(p.Reserve1) {
			return types.ErrInsufficientLiquidity.Wrapf(
				"outputs %s/%s against reserves %s/%s", amount0Out.Dec(), amount1Out.Dec(), p.Reserve0.Dec(), p.Reserve1.Dec())
		}

		if !amount0Out.IsZero() {
			if err := k.tokenKeeper.Transfer(ctx, p.Token0, pairAddr, to, amount0Out); err != nil {
				return err
			}
		}
		if !amount1Out.IsZero() {
			if err := k.tokenKeeper.Transfer(ctx, p.Token1, pairAddr, to, amount1Out); err != nil {
				return err
			}
		}
		if len(data) > 0 {
			callee, ok := k.lookupCallee(to)
			if !ok {
				return types.ErrInvalidCallee.Wrapf("no swap callee registered at %s", to.Hex())
			}
			if err := callee.SwapCall(ctx, sender, amount0Out, amount1Out, data); err != nil {
				return errorsmod.Wrapf(err, "swap callback at %s", to.Hex())
			}
		}
		if to == p.Token0 || to == p.Token1 {
			return types.ErrInvalidRecipient.Wrapf("recipient %s is a pair asset", to.Hex())
		}

		balance0, balance1 := k.balances(ctx, p)
		amount0In = surplus(balance0, p.Reserve0, amount0Out)
		amount1In = surplus(balance1, p.Reserve1, amount1Out)

		params, err := k.GetParams(ctx)
		if err != nil {
			return err
		}
		if err := checkInvariant(p, balance0, balance1, amount0In, amount1In, params.SwapFee); err != nil {
			return err
		}

		if err := k.update(ctx, &p, balance0, balance1); err != nil {
			return err
		}

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeSwap,
				sdk.NewAttribute(types.AttributeKeySender, sender.Hex()),
				sdk.NewAttribute(types.AttributeKeyAmount0In, amount0In.Dec()),
				sdk.NewAttribute(types.AttributeKeyAmount1In, amount1In.Dec()),
				sdk.NewAttribute(types.AttributeKeyAmount0Out, amount0Out.Dec()),
				sdk.NewAttribute(types.AttributeKeyAmount1Out, amount1Out.Dec()),
				sdk.NewAttribute(types.AttributeKeyTo, to.Hex()),
				sdk.NewAttribute(types.AttributeKeyContract, pairAddr.Hex()),
			),
		)
		return nil
	})
	if err != nil {
		k.metrics.SwapsTotal.WithLabelValues("failure").Inc()
		k.Logger(ctx).Debug("swap failed", "pair", pairAddr.Hex(), "sender", sender.Hex(), "error", err)
		return err
	}

	k.metrics.SwapsTotal.WithLabelValues("success").Inc()
	return nil
}

// surplus returns how much of an asset arrived beyond what the pair kept
// after paying out: balance - (reserve - out), floored at zero.
func surplus(balance, reserve, out *uint256.Int) *uint256.Int {
	kept := new(uint256.Int).Sub(reserve, out)
	if !balance.Gt(kept) {
		return new(uint256.Int)
	}
	return new(uint256.Int).Sub(balance, kept)
}

// checkInvariant requires
// (balance0*1000 - in0*fee) * (balance1*1000 - in1*fee) >= reserve0*reserve1*1000².
func checkInvariant(p types.Pair, balance0, balance1, amount0In, amount1In *uint256.Int, swapFee uint64) error {
	if amount0In.IsZero() && amount1In.IsZero() {
		return types.ErrInvariantViolation.Wrap("no input supplied")
	}

	adjusted0, err := adjustedBalance(balance0, amount0In, swapFee)
	if err != nil {
		return err
	}
	adjusted1, err := adjustedBalance(balance1, amount1In, swapFee)
	if err != nil {
		return err
	}

	after, err := SafeMul(adjusted0, adjusted1, "adjusted balance product")
	if err != nil {
		return err
	}
	// reserves fit in 112 bits: the product times 10^6 stays below 2^244
	before := new(uint256.Int).Mul(p.Reserve0, p.Reserve1)
	before.Mul(before, feeScaleSquared)

	if after.Lt(before) {
		return types.ErrInvariantViolation.Wrapf("adjusted product %s < %s", after.Dec(), before.Dec())
	}
	return nil
}

func adjustedBalance(balance, amountIn *uint256.Int, swapFee uint64) (*uint256.Int, error) {
	scaled, err := SafeMul(balance, uint256.NewInt(types.FeeDenominator), "scaled balance")
	if err != nil {
		return nil, err
	}
	// amountIn <= balance and swapFee < FeeDenominator, so this cannot underflow
	fee := new(uint256.Int).Mul(amountIn, uint256.NewInt(swapFee))
	return scaled.Sub(scaled, fee), nil
}
