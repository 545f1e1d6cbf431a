package types

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	erc20types "github.com/paw-chain/swapcore/x/erc20/types"
)

// TokenKeeper defines the ledger the amm module moves tokens through. The
// same ledger holds every pair's LP token, keyed by the pair address.
type TokenKeeper interface {
	CreateToken(ctx context.Context, addr common.Address, meta erc20types.TokenMetadata) error
	BalanceOf(ctx context.Context, token, account common.Address) *uint256.Int
	TotalSupply(ctx context.Context, token common.Address) *uint256.Int
	Transfer(ctx context.Context, token, from, to common.Address, value *uint256.Int) error
	Mint(ctx context.Context, token, to common.Address, value *uint256.Int) error
	Burn(ctx context.Context, token, from common.Address, value *uint256.Int) error
}

// SwapCallee receives the flash-swap callback. It runs after the pair has
// sent the requested outputs and before the pair verifies that it was paid.
// Any error aborts the swap.
type SwapCallee interface {
	SwapCall(ctx context.Context, sender common.Address, amount0Out, amount1Out *uint256.Int, data []byte) error
}

// SwapCalleeFunc adapts a function to SwapCallee.
type SwapCalleeFunc func(ctx context.Context, sender common.Address, amount0Out, amount1Out *uint256.Int, data []byte) error

// SwapCall implements SwapCallee.
func (f SwapCalleeFunc) SwapCall(ctx context.Context, sender common.Address, amount0Out, amount1Out *uint256.Int, data []byte) error {
	return f(ctx, sender, amount0Out, amount1Out, data)
}
