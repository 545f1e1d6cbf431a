package keeper

import (
	"context"
	"encoding/binary"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/paw-chain/swapcore/x/erc20/types"
)

// InitGenesis initializes the erc20 module's state from a genesis state.
func (k Keeper) InitGenesis(ctx context.Context, gs types.GenesisState) error {
	if err := gs.Validate(); err != nil {
		return err
	}
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	store := k.getStore(ctx)
	store.Set(types.ChainIDKey, binary.BigEndian.AppendUint64(nil, k.chainID.Uint64()))

	for _, token := range gs.Tokens {
		if err := k.CreateToken(ctx, token.Address, token.Metadata()); err != nil {
			return err
		}

		supply := new(uint256.Int)
		for _, balance := range token.Balances {
			amount, err := types.ParseAmount(balance.Amount)
			if err != nil {
				return types.ErrInvalidGenesis.Wrap(err.Error())
			}
			setAmount(store, types.GetBalanceKey(token.Address, balance.Account), amount)
			supply.Add(supply, amount)
		}
		setAmount(store, types.GetTotalSupplyKey(token.Address), supply)

		for _, allowance := range token.Allowances {
			amount, err := types.ParseAmount(allowance.Amount)
			if err != nil {
				return types.ErrInvalidGenesis.Wrap(err.Error())
			}
			k.setAllowance(ctx, token.Address, allowance.Owner, allowance.Spender, amount)
		}

		for _, n := range token.Nonces {
			if err := k.permitNonces.Set(sdkCtx, types.PermitNonceID(token.Address, n.Account), n.Nonce); err != nil {
				return err
			}
		}
	}

	for _, n := range gs.DeployNonces {
		if err := k.deployNonces.Set(sdkCtx, n.Account.Bytes(), n.Nonce); err != nil {
			return err
		}
	}
	return nil
}

// StoredChainID returns the chain id recorded at genesis, if any.
func (k Keeper) StoredChainID(ctx context.Context) (uint64, bool) {
	bz := k.getStore(ctx).Get(types.ChainIDKey)
	if len(bz) != 8 {
		return 0, false
	}
	return binary.BigEndian.Uint64(bz), true
}

// ExportGenesis returns the erc20 module's exported genesis.
func (k Keeper) ExportGenesis(ctx context.Context) (*types.GenesisState, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	gs := types.DefaultGenesis()

	err := k.IterateTokens(ctx, func(addr common.Address, meta types.TokenMetadata) bool {
		token := types.GenesisToken{
			Address:  addr,
			Name:     meta.Name,
			Symbol:   meta.Symbol,
			Decimals: meta.Decimals,
			BurnBps:  meta.TransferBurnBps,
			Balances: []types.GenesisBalance{},
		}
		k.IterateBalances(ctx, addr, func(account common.Address, amount *uint256.Int) bool {
			token.Balances = append(token.Balances, types.GenesisBalance{Account: account, Amount: amount.Dec()})
			return false
		})
		k.IterateAllowances(ctx, addr, func(owner, spender common.Address, amount *uint256.Int) bool {
			token.Allowances = append(token.Allowances, types.GenesisAllowance{Owner: owner, Spender: spender, Amount: amount.Dec()})
			return false
		})
		gs.Tokens = append(gs.Tokens, token)
		return false
	})
	if err != nil {
		return nil, err
	}

	// permit nonce ids are token ‖ owner
	byToken := make(map[common.Address]int, len(gs.Tokens))
	for i, token := range gs.Tokens {
		byToken[token.Address] = i
	}
	k.permitNonces.Iterate(sdkCtx, func(id []byte, value uint64) bool {
		if len(id) != 2*common.AddressLength {
			return false
		}
		token := common.BytesToAddress(id[:common.AddressLength])
		if i, ok := byToken[token]; ok {
			gs.Tokens[i].Nonces = append(gs.Tokens[i].Nonces, types.GenesisNonce{
				Account: common.BytesToAddress(id[common.AddressLength:]),
				Nonce:   value,
			})
		}
		return false
	})

	k.deployNonces.Iterate(sdkCtx, func(id []byte, value uint64) bool {
		gs.DeployNonces = append(gs.DeployNonces, types.GenesisNonce{Account: common.BytesToAddress(id), Nonce: value})
		return false
	})
	return gs, nil
}
