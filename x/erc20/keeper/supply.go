package keeper

import (
	"context"

	storetypes "cosmossdk.io/store/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/paw-chain/swapcore/x/erc20/types"
)

// BalanceOf returns the balance of account in token. Unknown tokens and
// accounts have a zero balance.
func (k Keeper) BalanceOf(ctx context.Context, token, account common.Address) *uint256.Int {
	return getAmount(k.getStore(ctx), types.GetBalanceKey(token, account))
}

// TotalSupply returns the total supply of token.
func (k Keeper) TotalSupply(ctx context.Context, token common.Address) *uint256.Int {
	return getAmount(k.getStore(ctx), types.GetTotalSupplyKey(token))
}

// IterateBalances calls cb for every non-zero balance of token in account order.
func (k Keeper) IterateBalances(ctx context.Context, token common.Address, cb func(account common.Address, amount *uint256.Int) (stop bool)) {
	prefix := types.GetBalancePrefix(token)
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), prefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		account := common.BytesToAddress(iterator.Key()[len(prefix):])
		if cb(account, new(uint256.Int).SetBytes(iterator.Value())) {
			return
		}
	}
}

// Mint creates value new units of token and credits them to to.
func (k Keeper) Mint(ctx context.Context, token, to common.Address, value *uint256.Int) error {
	if !k.HasToken(ctx, token) {
		return types.ErrTokenNotFound.Wrapf("token %s", token.Hex())
	}
	store := k.getStore(ctx)

	supply, overflow := new(uint256.Int).AddOverflow(k.TotalSupply(ctx, token), value)
	if overflow {
		return types.ErrOverflow.Wrapf("minting %s overflows total supply of %s", value.Dec(), token.Hex())
	}
	// balance <= supply, so the credit cannot overflow once the supply fits
	balance := new(uint256.Int).Add(k.BalanceOf(ctx, token, to), value)

	setAmount(store, types.GetTotalSupplyKey(token), supply)
	setAmount(store, types.GetBalanceKey(token, to), balance)

	k.emitTransfer(ctx, token, common.Address{}, to, value)
	k.metrics.SupplyChanges.WithLabelValues("mint").Inc()
	return nil
}

// Burn destroys value units of token held by from.
func (k Keeper) Burn(ctx context.Context, token, from common.Address, value *uint256.Int) error {
	if !k.HasToken(ctx, token) {
		return types.ErrTokenNotFound.Wrapf("token %s", token.Hex())
	}
	if err := k.burn(ctx, token, from, value); err != nil {
		return err
	}
	k.metrics.SupplyChanges.WithLabelValues("burn").Inc()
	return nil
}

func (k Keeper) burn(ctx context.Context, token, from common.Address, value *uint256.Int) error {
	store := k.getStore(ctx)

	balance, underflow := new(uint256.Int).SubOverflow(k.BalanceOf(ctx, token, from), value)
	if underflow {
		return types.ErrInsufficientBalance.Wrapf("burn %s from %s", value.Dec(), from.Hex())
	}
	supply := new(uint256.Int).Sub(k.TotalSupply(ctx, token), value)

	setAmount(store, types.GetBalanceKey(token, from), balance)
	setAmount(store, types.GetTotalSupplyKey(token), supply)

	k.emitTransfer(ctx, token, from, common.Address{}, value)
	return nil
}
