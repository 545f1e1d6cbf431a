package keeper

import (
	"context"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/paw-chain/swapcore/x/erc20/types"
)

// Allowance returns how much of owner's token spender may move.
func (k Keeper) Allowance(ctx context.Context, token, owner, spender common.Address) *uint256.Int {
	return getAmount(k.getStore(ctx), types.GetAllowanceKey(token, owner, spender))
}

// Approve sets spender's allowance over owner's token to exactly value.
// No balance check is made.
func (k Keeper) Approve(ctx context.Context, token, owner, spender common.Address, value *uint256.Int) error {
	if owner == (common.Address{}) {
		return types.ErrInvalidSender.Wrap("approve from the zero address")
	}
	if !k.HasToken(ctx, token) {
		return types.ErrTokenNotFound.Wrapf("token %s", token.Hex())
	}
	k.approve(ctx, token, owner, spender, value)
	k.metrics.ApprovalsTotal.WithLabelValues("direct").Inc()
	return nil
}

func (k Keeper) approve(ctx context.Context, token, owner, spender common.Address, value *uint256.Int) {
	k.setAllowance(ctx, token, owner, spender, value)

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeApproval,
			sdk.NewAttribute(types.AttributeKeyOwner, owner.Hex()),
			sdk.NewAttribute(types.AttributeKeySpender, spender.Hex()),
			sdk.NewAttribute(types.AttributeKeyValue, value.Dec()),
			sdk.NewAttribute(types.AttributeKeyContract, token.Hex()),
		),
	)
}

func (k Keeper) setAllowance(ctx context.Context, token, owner, spender common.Address, value *uint256.Int) {
	setAmount(k.getStore(ctx), types.GetAllowanceKey(token, owner, spender), value)
}

// IterateAllowances calls cb for every non-zero allowance of token.
func (k Keeper) IterateAllowances(ctx context.Context, token common.Address, cb func(owner, spender common.Address, amount *uint256.Int) (stop bool)) {
	prefix := types.GetAllowancePrefix(token)
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), prefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		rest := iterator.Key()[len(prefix):]
		owner := common.BytesToAddress(rest[:common.AddressLength])
		spender := common.BytesToAddress(rest[common.AddressLength:])
		if cb(owner, spender, new(uint256.Int).SetBytes(iterator.Value())) {
			return
		}
	}
}
