package keeper_test

import (
	"github.com/holiman/uint256"

	keepertest "github.com/paw-chain/swapcore/testutil/keeper"
	"github.com/paw-chain/swapcore/x/erc20/types"
)

func (suite *KeeperTestSuite) TestGenesisRoundTrip() {
	require := suite.Require()

	require.NoError(suite.keeper.Transfer(suite.ctx, suite.token, suite.owner.Address, suite.other.Address, uint256.NewInt(42)))
	require.NoError(suite.keeper.Approve(suite.ctx, suite.token, suite.owner.Address, suite.other.Address, types.MaxAmount))
	sig := suite.signPermit(suite.owner, uint256.NewInt(9), types.MaxAmount)
	require.NoError(suite.keeper.Permit(suite.ctx, suite.token, suite.owner.Address, suite.other.Address, uint256.NewInt(9), types.MaxAmount, sig.V, sig.R, sig.S))

	exported, err := suite.keeper.ExportGenesis(suite.ctx)
	require.NoError(err)
	require.NoError(exported.Validate())
	require.Len(exported.Tokens, 1)
	require.Len(exported.Tokens[0].Nonces, 1)

	imported, ctx := keepertest.ERC20Keeper(suite.T())
	require.NoError(imported.InitGenesis(ctx, *exported))

	require.Equal(suite.keeper.TotalSupply(suite.ctx, suite.token), imported.TotalSupply(ctx, suite.token))
	require.Equal(uint256.NewInt(42), imported.BalanceOf(ctx, suite.token, suite.other.Address))
	require.Equal(uint256.NewInt(9), imported.Allowance(ctx, suite.token, suite.owner.Address, suite.other.Address))
	require.Equal(uint64(1), imported.Nonces(ctx, suite.token, suite.owner.Address))
	require.Equal(uint64(1), imported.DeployNonce(ctx, suite.owner.Address))

	again, err := imported.ExportGenesis(ctx)
	require.NoError(err)
	require.Equal(exported, again)
}

func (suite *KeeperTestSuite) TestGenesisRejectsDuplicateTokens() {
	gs := types.GenesisState{Tokens: []types.GenesisToken{
		{Address: suite.token, Name: "a", Balances: []types.GenesisBalance{}},
		{Address: suite.token, Name: "b", Balances: []types.GenesisBalance{}},
	}}
	suite.Require().ErrorIs(gs.Validate(), types.ErrInvalidGenesis)
}

func (suite *KeeperTestSuite) TestDefaultGenesisRecordsChainID() {
	require := suite.Require()
	k, ctx := keepertest.ERC20Keeper(suite.T())

	_, ok := k.StoredChainID(ctx)
	require.False(ok)

	require.NoError(k.InitGenesis(ctx, *types.DefaultGenesis()))
	chainID, ok := k.StoredChainID(ctx)
	require.True(ok)
	require.Equal(keepertest.TestChainID, chainID)
}
