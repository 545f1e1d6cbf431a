package keeper

import (
	"testing"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/swapcore/x/erc20/keeper"
	"github.com/paw-chain/swapcore/x/erc20/types"
)

// ERC20Keeper creates a test keeper for the erc20 module over an in-memory store
func ERC20Keeper(t testing.TB) (*keeper.Keeper, sdk.Context) {
	return ERC20KeeperWithChainID(t, TestChainID)
}

// ERC20KeeperWithChainID is ERC20Keeper with permits bound to chainID
func ERC20KeeperWithChainID(t testing.TB, chainID uint64) (*keeper.Keeper, sdk.Context) {
	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	ctx := newContext(t, storeKey)
	return keeper.NewKeeper(storeKey, chainID), ctx
}

// DeployToken deploys a plain 18-decimal token and credits its supply to deployer
func DeployToken(t testing.TB, k *keeper.Keeper, ctx sdk.Context, deployer common.Address, symbol string, supply *uint256.Int) common.Address {
	t.Helper()

	meta := types.TokenMetadata{Name: symbol + " Token", Symbol: symbol, Decimals: types.DefaultDecimals}
	addr, err := k.Deploy(ctx, deployer, meta, supply)
	require.NoError(t, err)
	return addr
}
