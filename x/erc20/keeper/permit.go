package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/paw-chain/swapcore/x/erc20/types"
)

// Nonces returns the next permit nonce of owner for token.
func (k Keeper) Nonces(ctx context.Context, token, owner common.Address) uint64 {
	return k.permitNonces.Current(sdk.UnwrapSDKContext(ctx), types.PermitNonceID(token, owner))
}

// Permit sets spender's allowance over owner's token to value, authorized by
// owner's signature in split (v, r, s) form instead of a direct call.
func (k Keeper) Permit(
	ctx context.Context,
	token, owner, spender common.Address,
	value, deadline *uint256.Int,
	v uint8, r, s [32]byte,
) error {
	return k.permit(ctx, token, owner, spender, value, deadline, types.NewSignature(v, r, s))
}

// PermitPacked is Permit with the signature packed as 65 bytes r ‖ s ‖ v.
func (k Keeper) PermitPacked(
	ctx context.Context,
	token, owner, spender common.Address,
	value, deadline *uint256.Int,
	signature []byte,
) error {
	sig, err := types.SignatureFromBytes(signature)
	if err != nil {
		k.metrics.PermitFailures.WithLabelValues("malformed").Inc()
		return err
	}
	return k.permit(ctx, token, owner, spender, value, deadline, sig)
}

func (k Keeper) permit(
	ctx context.Context,
	token, owner, spender common.Address,
	value, deadline *uint256.Int,
	sig types.Signature,
) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	domain, err := k.DomainSeparator(ctx, token)
	if err != nil {
		return err
	}

	now := new(uint256.Int)
	if ts := sdkCtx.BlockTime().Unix(); ts > 0 {
		now.SetUint64(uint64(ts))
	}
	if now.Gt(deadline) {
		k.metrics.PermitFailures.WithLabelValues("expired").Inc()
		return types.ErrExpiredSignature.Wrapf("deadline %s passed at %s", deadline.Dec(), now.Dec())
	}

	id := types.PermitNonceID(token, owner)
	digest, err := types.Permit{
		Owner:    owner,
		Spender:  spender,
		Value:    value,
		Nonce:    k.permitNonces.Current(sdkCtx, id),
		Deadline: deadline,
	}.Digest(domain)
	if err != nil {
		return err
	}

	signer, err := sig.Recover(digest)
	if err != nil {
		k.metrics.PermitFailures.WithLabelValues("invalid").Inc()
		return err
	}
	if signer != owner {
		k.metrics.PermitFailures.WithLabelValues("invalid").Inc()
		return types.ErrInvalidSignature.Wrapf("recovered %s, expected owner %s", signer.Hex(), owner.Hex())
	}

	if _, err := k.permitNonces.Consume(sdkCtx, id); err != nil {
		return err
	}
	k.approve(ctx, token, owner, spender, value)
	k.metrics.ApprovalsTotal.WithLabelValues("permit").Inc()

	k.Logger(ctx).Debug("permit accepted", "token", token.Hex(), "owner", owner.Hex(), "spender", spender.Hex())
	return nil
}
