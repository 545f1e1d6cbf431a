package keeper

import (
	"context"
	"strconv"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"

	"github.com/paw-chain/swapcore/x/amm/types"
	erc20types "github.com/paw-chain/swapcore/x/erc20/types"
	sharedkeeper "github.com/paw-chain/swapcore/x/shared/keeper"
)

// GetParams returns the module parameters.
func (k Keeper) GetParams(ctx context.Context) (types.Params, error) {
	bz := k.getStore(ctx).Get(types.ParamsKey)
	if bz == nil {
		return types.DefaultParams(), nil
	}
	return types.UnmarshalParams(bz)
}

// SetParams stores the module parameters.
func (k Keeper) SetParams(ctx context.Context, params types.Params) error {
	if err := params.Validate(); err != nil {
		return err
	}
	bz, err := types.MarshalParams(params)
	if err != nil {
		return err
	}
	k.getStore(ctx).Set(types.ParamsKey, bz)
	return nil
}

// FactoryAddress returns the factory identity pair addresses are derived from.
func (k Keeper) FactoryAddress(ctx context.Context) common.Address {
	return common.BytesToAddress(k.getStore(ctx).Get(types.FactoryKey))
}

func (k Keeper) setFactoryAddress(ctx context.Context, factory common.Address) {
	k.getStore(ctx).Set(types.FactoryKey, factory.Bytes())
}

// FeeTo returns the protocol fee recipient. The zero address disables the protocol fee.
func (k Keeper) FeeTo(ctx context.Context) common.Address {
	return common.BytesToAddress(k.getStore(ctx).Get(types.FeeToKey))
}

// FeeToSetter returns the address allowed to change FeeTo and FeeToSetter.
func (k Keeper) FeeToSetter(ctx context.Context) common.Address {
	return common.BytesToAddress(k.getStore(ctx).Get(types.FeeToSetterKey))
}

// SetFeeTo changes the protocol fee recipient. Only the fee setter may call it.
func (k Keeper) SetFeeTo(ctx context.Context, sender, feeTo common.Address) error {
	if err := sharedkeeper.ValidateAuthority(k.FeeToSetter(ctx), sender, types.ErrAccessDenied); err != nil {
		return err
	}
	k.getStore(ctx).Set(types.FeeToKey, feeTo.Bytes())

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeSetFeeTo,
			sdk.NewAttribute(types.AttributeKeyFeeTo, feeTo.Hex()),
			sdk.NewAttribute(types.AttributeKeyContract, k.FactoryAddress(ctx).Hex()),
		),
	)
	k.Logger(ctx).Info("protocol fee recipient updated", "fee_to", feeTo.Hex())
	return nil
}

// SetFeeToSetter hands the fee setter role to setter. Only the current fee
// setter may call it; afterwards it has no privileges left.
func (k Keeper) SetFeeToSetter(ctx context.Context, sender, setter common.Address) error {
	if err := sharedkeeper.ValidateAuthority(k.FeeToSetter(ctx), sender, types.ErrAccessDenied); err != nil {
		return err
	}
	k.getStore(ctx).Set(types.FeeToSetterKey, setter.Bytes())

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeSetFeeToSetter,
			sdk.NewAttribute(types.AttributeKeyFeeSetter, setter.Hex()),
			sdk.NewAttribute(types.AttributeKeyContract, k.FactoryAddress(ctx).Hex()),
		),
	)
	k.Logger(ctx).Info("fee setter role transferred", "from", sender.Hex(), "to", setter.Hex())
	return nil
}

// GetPair returns the pair registered for two tokens, in either order.
func (k Keeper) GetPair(ctx context.Context, tokenA, tokenB common.Address) (common.Address, bool) {
	bz := k.getStore(ctx).Get(types.GetPairByTokensKey(tokenA, tokenB))
	if bz == nil {
		return common.Address{}, false
	}
	return common.BytesToAddress(bz), true
}

// AllPairsLength returns the number of pairs created so far.
func (k Keeper) AllPairsLength(ctx context.Context) uint64 {
	bz := k.getStore(ctx).Get(types.AllPairsCountKey)
	if bz == nil {
		return 0
	}
	return sdk.BigEndianToUint64(bz)
}

// AllPairs returns the pair created at index, counting from zero.
func (k Keeper) AllPairs(ctx context.Context, index uint64) (common.Address, error) {
	bz := k.getStore(ctx).Get(types.GetAllPairsKey(index))
	if bz == nil {
		return common.Address{}, types.ErrPairNotFound.Wrapf("no pair at index %d", index)
	}
	return common.BytesToAddress(bz), nil
}

// IteratePairs calls cb for every pair in creation order.
func (k Keeper) IteratePairs(ctx context.Context, cb func(index uint64, pair types.Pair) (stop bool)) error {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.AllPairsKey)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		index := sdk.BigEndianToUint64(iterator.Key()[len(types.AllPairsKey):])
		pair, err := k.Pair(ctx, common.BytesToAddress(iterator.Value()))
		if err != nil {
			return err
		}
		if cb(index, pair) {
			return nil
		}
	}
	return nil
}

// CreatePair registers the pair for two tokens at its deterministic address
// and creates its LP token. Either argument order identifies the same pair.
func (k Keeper) CreatePair(ctx context.Context, tokenA, tokenB common.Address) (common.Address, error) {
	token0, token1, err := types.SortTokens(tokenA, tokenB)
	if err != nil {
		return common.Address{}, err
	}
	if existing, found := k.GetPair(ctx, token0, token1); found {
		return common.Address{}, types.ErrPairExists.Wrapf("pair %s", existing.Hex())
	}

	factory := k.FactoryAddress(ctx)
	pairAddr, err := types.PairFor(factory, token0, token1)
	if err != nil {
		return common.Address{}, err
	}

	if err := k.tokenKeeper.CreateToken(ctx, pairAddr, erc20types.NewLPTokenMetadata()); err != nil {
		return common.Address{}, err
	}
	if err := k.setPair(ctx, types.NewPair(pairAddr, factory, token0, token1)); err != nil {
		return common.Address{}, err
	}
	count := k.registerPair(ctx, token0, token1, pairAddr)

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypePairCreated,
			sdk.NewAttribute(types.AttributeKeyToken0, token0.Hex()),
			sdk.NewAttribute(types.AttributeKeyToken1, token1.Hex()),
			sdk.NewAttribute(types.AttributeKeyPair, pairAddr.Hex()),
			sdk.NewAttribute(types.AttributeKeyPairCount, strconv.FormatUint(count, 10)),
			sdk.NewAttribute(types.AttributeKeyContract, factory.Hex()),
		),
	)

	k.metrics.PairsCreated.Inc()
	k.Logger(ctx).Info("pair created", "pair", pairAddr.Hex(), "token0", token0.Hex(), "token1", token1.Hex(), "count", count)
	return pairAddr, nil
}

// registerPair indexes pair under both token orderings, appends it to the
// ordered list and returns the new pair count.
func (k Keeper) registerPair(ctx context.Context, token0, token1, pair common.Address) uint64 {
	store := k.getStore(ctx)
	store.Set(types.GetPairByTokensKey(token0, token1), pair.Bytes())
	store.Set(types.GetPairByTokensKey(token1, token0), pair.Bytes())

	index := k.AllPairsLength(ctx)
	store.Set(types.GetAllPairsKey(index), pair.Bytes())
	store.Set(types.AllPairsCountKey, sdk.Uint64ToBigEndian(index+1))
	return index + 1
}
