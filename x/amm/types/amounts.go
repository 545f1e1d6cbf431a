package types

import (
	"github.com/holiman/uint256"
)

// GetAmountOut returns the largest output a pair with the given reserves
// pays for amountIn of the other asset, after a fee of swapFee thousandths.
func GetAmountOut(amountIn, reserveIn, reserveOut *uint256.Int, swapFee uint64) (*uint256.Int, error) {
	if amountIn.IsZero() {
		return nil, ErrInsufficientLiquidity.Wrap("input amount is zero")
	}
	if reserveIn.IsZero() || reserveOut.IsZero() {
		return nil, ErrInsufficientLiquidity.Wrap("pair has no reserves")
	}

	amountInWithFee, overflow := new(uint256.Int).MulOverflow(amountIn, uint256.NewInt(FeeDenominator-swapFee))
	if overflow {
		return nil, ErrOverflow.Wrap("amount in with fee")
	}
	numerator, overflow := new(uint256.Int).MulOverflow(amountInWithFee, reserveOut)
	if overflow {
		return nil, ErrOverflow.Wrap("amount out numerator")
	}
	denominator, overflow := new(uint256.Int).MulOverflow(reserveIn, uint256.NewInt(FeeDenominator))
	if overflow {
		return nil, ErrOverflow.Wrap("amount out denominator")
	}
	if _, overflow = denominator.AddOverflow(denominator, amountInWithFee); overflow {
		return nil, ErrOverflow.Wrap("amount out denominator")
	}
	return numerator.Div(numerator, denominator), nil
}
