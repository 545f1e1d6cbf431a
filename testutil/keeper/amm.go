package keeper

import (
	"testing"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	ammkeeper "github.com/paw-chain/swapcore/x/amm/keeper"
	ammtypes "github.com/paw-chain/swapcore/x/amm/types"
	erc20keeper "github.com/paw-chain/swapcore/x/erc20/keeper"
	erc20types "github.com/paw-chain/swapcore/x/erc20/types"
)

// AMMFixture holds an amm keeper wired to the erc20 ledger it trades through
type AMMFixture struct {
	Ctx   sdk.Context
	AMM   *ammkeeper.Keeper
	ERC20 *erc20keeper.Keeper
}

// AMMKeeper creates a test keeper for the amm module with a factory deployed
// by feeToSetter
func AMMKeeper(t testing.TB, feeToSetter common.Address) *AMMFixture {
	t.Helper()

	erc20Key := storetypes.NewKVStoreKey(erc20types.StoreKey)
	ammKey := storetypes.NewKVStoreKey(ammtypes.StoreKey)
	ctx := newContext(t, erc20Key, ammKey)

	tokens := erc20keeper.NewKeeper(erc20Key, TestChainID)
	k := ammkeeper.NewKeeper(ammKey, tokens)
	require.NoError(t, k.InitGenesis(ctx, *ammtypes.DefaultGenesis(feeToSetter)))

	return &AMMFixture{Ctx: ctx, AMM: k, ERC20: tokens}
}

// CreatePair deploys two tokens owned by deployer and creates their pair.
// It returns the pair and its assets in sorted order.
func (f *AMMFixture) CreatePair(t testing.TB, deployer common.Address, supply *uint256.Int) (pair, token0, token1 common.Address) {
	t.Helper()

	tokenA := DeployToken(t, f.ERC20, f.Ctx, deployer, "TKA", supply)
	tokenB := DeployToken(t, f.ERC20, f.Ctx, deployer, "TKB", supply)
	pair, err := f.AMM.CreatePair(f.Ctx, tokenA, tokenB)
	require.NoError(t, err)

	token0, token1, err = ammtypes.SortTokens(tokenA, tokenB)
	require.NoError(t, err)
	return pair, token0, token1
}

// AddLiquidity transfers both amounts from provider into pair and mints
// shares to provider
func (f *AMMFixture) AddLiquidity(t testing.TB, pair, provider common.Address, amount0, amount1 *uint256.Int) *uint256.Int {
	t.Helper()

	p, err := f.AMM.Pair(f.Ctx, pair)
	require.NoError(t, err)
	require.NoError(t, f.ERC20.Transfer(f.Ctx, p.Token0, provider, pair, amount0))
	require.NoError(t, f.ERC20.Transfer(f.Ctx, p.Token1, provider, pair, amount1))

	liquidity, err := f.AMM.Mint(f.Ctx, provider, pair, provider)
	require.NoError(t, err)
	return liquidity
}

// Expand returns n * 10^18
func Expand(n uint64) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(n), uint256.NewInt(1_000_000_000_000_000_000))
}
