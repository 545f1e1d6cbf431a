package keeper

import (
	"github.com/holiman/uint256"

	"github.com/paw-chain/swapcore/x/amm/types"
)

// Overflow-checked uint256 arithmetic. Every helper fails with
// types.ErrOverflow instead of wrapping; what names the failing step.

// SafeAdd adds two amounts with overflow checking
func SafeAdd(a, b *uint256.Int, what string) (*uint256.Int, error) {
	result, overflow := new(uint256.Int).AddOverflow(a, b)
	if overflow {
		return nil, types.ErrOverflow.Wrapf("%s: %s + %s", what, a.Dec(), b.Dec())
	}
	return result, nil
}

// SafeSub subtracts two amounts with underflow checking
func SafeSub(a, b *uint256.Int, what string) (*uint256.Int, error) {
	result, underflow := new(uint256.Int).SubOverflow(a, b)
	if underflow {
		return nil, types.ErrOverflow.Wrapf("%s: %s - %s underflows", what, a.Dec(), b.Dec())
	}
	return result, nil
}

// SafeMul multiplies two amounts with overflow checking
func SafeMul(a, b *uint256.Int, what string) (*uint256.Int, error) {
	result, overflow := new(uint256.Int).MulOverflow(a, b)
	if overflow {
		return nil, types.ErrOverflow.Wrapf("%s: %s * %s", what, a.Dec(), b.Dec())
	}
	return result, nil
}

// SafeMulDiv performs (a * b) / c with overflow protection on the product.
// Division by zero yields zero, which callers reject as an insufficient amount.
func SafeMulDiv(a, b, c *uint256.Int, what string) (*uint256.Int, error) {
	product, err := SafeMul(a, b, what)
	if err != nil {
		return nil, err
	}
	return product.Div(product, c), nil
}

// Sqrt returns floor(sqrt(x)).
func Sqrt(x *uint256.Int) *uint256.Int {
	return new(uint256.Int).Sqrt(x)
}

// Min returns the smaller of two amounts.
func Min(a, b *uint256.Int) *uint256.Int {
	if a.Lt(b) {
		return new(uint256.Int).Set(a)
	}
	return new(uint256.Int).Set(b)
}
