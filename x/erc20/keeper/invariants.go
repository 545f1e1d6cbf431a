package keeper

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/paw-chain/swapcore/x/erc20/types"
)

// SupplyInvariant checks that the balances of token sum to its total supply.
func (k Keeper) SupplyInvariant(ctx context.Context, token common.Address) (string, bool) {
	sum := new(uint256.Int)
	overflow := false
	k.IterateBalances(ctx, token, func(_ common.Address, amount *uint256.Int) bool {
		_, overflow = sum.AddOverflow(sum, amount)
		return overflow
	})
	supply := k.TotalSupply(ctx, token)
	if overflow || !sum.Eq(supply) {
		return fmt.Sprintf("%s: token %s balances sum to %s, total supply is %s (overflow=%t)",
			types.ModuleName, token.Hex(), sum.Dec(), supply.Dec(), overflow), true
	}
	return "", false
}

// AllSupplyInvariants runs SupplyInvariant over every registered token and
// returns the first violation found.
func (k Keeper) AllSupplyInvariants(ctx context.Context) (string, bool) {
	var (
		msg    string
		broken bool
	)
	err := k.IterateTokens(ctx, func(addr common.Address, _ types.TokenMetadata) bool {
		msg, broken = k.SupplyInvariant(ctx, addr)
		return broken
	})
	if err != nil {
		return err.Error(), true
	}
	return msg, broken
}
