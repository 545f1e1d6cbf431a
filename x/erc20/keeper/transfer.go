package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/paw-chain/swapcore/x/erc20/types"
)

// Transfer moves value of token from the caller to to. A zero value is a
// valid transfer and still emits a transfer event.
func (k Keeper) Transfer(ctx context.Context, token, from, to common.Address, value *uint256.Int) error {
	if from == (common.Address{}) {
		return types.ErrInvalidSender.Wrap("transfer from the zero address")
	}
	meta, err := k.GetToken(ctx, token)
	if err != nil {
		return err
	}
	return k.transfer(ctx, token, meta, from, to, value)
}

// TransferFrom moves value of token from owner to to on behalf of spender.
// The spender's allowance is decremented unless it is the unlimited sentinel.
func (k Keeper) TransferFrom(ctx context.Context, token, spender, owner, to common.Address, value *uint256.Int) error {
	if spender == (common.Address{}) {
		return types.ErrInvalidSender.Wrap("spender cannot be the zero address")
	}
	meta, err := k.GetToken(ctx, token)
	if err != nil {
		return err
	}

	allowance := k.Allowance(ctx, token, owner, spender)
	if !allowance.Eq(types.MaxAmount) {
		remaining, underflow := new(uint256.Int).SubOverflow(allowance, value)
		if underflow {
			return types.ErrInsufficientAllowance.Wrapf(
				"spender %s allowance %s < %s", spender.Hex(), allowance.Dec(), value.Dec())
		}
		if balance := k.BalanceOf(ctx, token, owner); balance.Lt(value) {
			return types.ErrInsufficientBalance.Wrapf("balance %s < %s", balance.Dec(), value.Dec())
		}
		k.setAllowance(ctx, token, owner, spender, remaining)
	}

	return k.transfer(ctx, token, meta, owner, to, value)
}

// transfer moves value between two balances. Fee-on-transfer tokens burn
// their share from the sender first and deliver the remainder.
func (k Keeper) transfer(ctx context.Context, token common.Address, meta types.TokenMetadata, from, to common.Address, value *uint256.Int) error {
	if balance := k.BalanceOf(ctx, token, from); balance.Lt(value) {
		return types.ErrInsufficientBalance.Wrapf(
			"account %s balance %s < %s", from.Hex(), balance.Dec(), value.Dec())
	}

	delivered := value
	if burn := meta.BurnOnTransfer(value); !burn.IsZero() {
		if err := k.burn(ctx, token, from, burn); err != nil {
			return err
		}
		delivered = new(uint256.Int).Sub(value, burn)
	}

	if from != to {
		store := k.getStore(ctx)
		fromBalance := new(uint256.Int).Sub(k.BalanceOf(ctx, token, from), delivered)
		// bounded by total supply
		toBalance := new(uint256.Int).Add(k.BalanceOf(ctx, token, to), delivered)
		setAmount(store, types.GetBalanceKey(token, from), fromBalance)
		setAmount(store, types.GetBalanceKey(token, to), toBalance)
	}

	k.emitTransfer(ctx, token, from, to, delivered)
	k.metrics.TransfersTotal.WithLabelValues(token.Hex()).Inc()
	return nil
}

func (k Keeper) emitTransfer(ctx context.Context, token, from, to common.Address, value *uint256.Int) {
	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeTransfer,
			sdk.NewAttribute(types.AttributeKeyFrom, from.Hex()),
			sdk.NewAttribute(types.AttributeKeyTo, to.Hex()),
			sdk.NewAttribute(types.AttributeKeyValue, value.Dec()),
			sdk.NewAttribute(types.AttributeKeyContract, token.Hex()),
		),
	)
}
