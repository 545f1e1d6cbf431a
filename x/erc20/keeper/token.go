package keeper

import (
	"context"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"

	"github.com/paw-chain/swapcore/x/erc20/types"
)

// CreateToken registers a token instance at addr with an empty ledger.
func (k Keeper) CreateToken(ctx context.Context, addr common.Address, meta types.TokenMetadata) error {
	if addr == (common.Address{}) {
		return types.ErrInvalidMetadata.Wrap("token address cannot be zero")
	}
	if err := meta.Validate(); err != nil {
		return err
	}
	if k.HasToken(ctx, addr) {
		return types.ErrTokenExists.Wrapf("token %s", addr.Hex())
	}
	return k.setToken(ctx, addr, meta)
}

// Deploy creates a new token owned by deployer. The address is derived from
// the deployer and its deployment count, and the initial supply is minted to
// the deployer.
func (k Keeper) Deploy(ctx context.Context, deployer common.Address, meta types.TokenMetadata, initialSupply *uint256.Int) (common.Address, error) {
	if deployer == (common.Address{}) {
		return common.Address{}, types.ErrInvalidSender.Wrap("deployer cannot be zero")
	}
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	addr := crypto.CreateAddress(deployer, k.deployNonces.Current(sdkCtx, deployer.Bytes()))
	if err := k.CreateToken(ctx, addr, meta); err != nil {
		return common.Address{}, err
	}
	if _, err := k.deployNonces.Consume(sdkCtx, deployer.Bytes()); err != nil {
		return common.Address{}, err
	}
	if err := k.Mint(ctx, addr, deployer, initialSupply); err != nil {
		return common.Address{}, err
	}

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeDeploy,
			sdk.NewAttribute(types.AttributeKeyDeployer, deployer.Hex()),
			sdk.NewAttribute(types.AttributeKeyName, meta.Name),
			sdk.NewAttribute(types.AttributeKeySymbol, meta.Symbol),
			sdk.NewAttribute(types.AttributeKeyContract, addr.Hex()),
		),
	)

	k.Logger(ctx).Info("token deployed", "token", addr.Hex(), "deployer", deployer.Hex(), "supply", initialSupply.Dec())
	return addr, nil
}

// DeployNonce returns the number of tokens deployed by deployer so far.
func (k Keeper) DeployNonce(ctx context.Context, deployer common.Address) uint64 {
	return k.deployNonces.Current(sdk.UnwrapSDKContext(ctx), deployer.Bytes())
}

// HasToken reports whether a token is registered at addr.
func (k Keeper) HasToken(ctx context.Context, addr common.Address) bool {
	return k.getStore(ctx).Has(types.GetTokenKey(addr))
}

// GetToken returns the metadata of the token at addr.
func (k Keeper) GetToken(ctx context.Context, addr common.Address) (types.TokenMetadata, error) {
	bz := k.getStore(ctx).Get(types.GetTokenKey(addr))
	if bz == nil {
		return types.TokenMetadata{}, types.ErrTokenNotFound.Wrapf("token %s", addr.Hex())
	}
	return types.UnmarshalTokenMetadata(bz)
}

func (k Keeper) setToken(ctx context.Context, addr common.Address, meta types.TokenMetadata) error {
	bz, err := types.MarshalTokenMetadata(meta)
	if err != nil {
		return err
	}
	k.getStore(ctx).Set(types.GetTokenKey(addr), bz)
	return nil
}

// IterateTokens calls cb for every registered token in address order.
func (k Keeper) IterateTokens(ctx context.Context, cb func(addr common.Address, meta types.TokenMetadata) (stop bool)) error {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.TokenKey)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		meta, err := types.UnmarshalTokenMetadata(iterator.Value())
		if err != nil {
			return err
		}
		if cb(common.BytesToAddress(iterator.Key()[len(types.TokenKey):]), meta) {
			return nil
		}
	}
	return nil
}

// DomainSeparator returns the permit signing domain of the token at addr.
func (k Keeper) DomainSeparator(ctx context.Context, addr common.Address) (common.Hash, error) {
	meta, err := k.GetToken(ctx, addr)
	if err != nil {
		return common.Hash{}, err
	}
	return types.DomainSeparator(meta.Name, k.chainID, addr)
}
