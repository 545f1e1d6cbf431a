package keeper

import (
	"context"
	"errors"

	"github.com/paw-chain/swapcore/x/amm/types"
	erc20types "github.com/paw-chain/swapcore/x/erc20/types"
)

// InitGenesis initializes the amm module's state from a genesis state. LP
// balances live in the erc20 genesis; LP tokens missing from it are created
// empty.
func (k Keeper) InitGenesis(ctx context.Context, gs types.GenesisState) error {
	if err := gs.Validate(); err != nil {
		return err
	}
	if err := k.SetParams(ctx, gs.Params); err != nil {
		return err
	}

	k.setFactoryAddress(ctx, gs.Factory)
	store := k.getStore(ctx)
	store.Set(types.FeeToKey, gs.FeeTo.Bytes())
	store.Set(types.FeeToSetterKey, gs.FeeToSetter.Bytes())

	for _, gp := range gs.Pairs {
		p, err := gp.ToPair(gs.Factory)
		if err != nil {
			return err
		}
		err = k.tokenKeeper.CreateToken(ctx, p.Address, erc20types.NewLPTokenMetadata())
		if err != nil && !errors.Is(err, erc20types.ErrTokenExists) {
			return err
		}
		if err := k.setPair(ctx, p); err != nil {
			return err
		}
		k.registerPair(ctx, p.Token0, p.Token1, p.Address)
	}

	k.Logger(ctx).Info("amm genesis initialized", "factory", gs.Factory.Hex(), "pairs", len(gs.Pairs))
	return nil
}

// ExportGenesis returns the amm module's exported genesis.
func (k Keeper) ExportGenesis(ctx context.Context) (*types.GenesisState, error) {
	params, err := k.GetParams(ctx)
	if err != nil {
		return nil, err
	}

	gs := &types.GenesisState{
		Params:      params,
		Factory:     k.FactoryAddress(ctx),
		FeeTo:       k.FeeTo(ctx),
		FeeToSetter: k.FeeToSetter(ctx),
		Pairs:       []types.GenesisPair{},
	}
	err = k.IteratePairs(ctx, func(_ uint64, p types.Pair) bool {
		gs.Pairs = append(gs.Pairs, types.NewGenesisPair(p))
		return false
	})
	if err != nil {
		return nil, err
	}
	return gs, nil
}
