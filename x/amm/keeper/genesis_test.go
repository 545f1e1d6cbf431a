package keeper_test

import (
	"github.com/ethereum/go-ethereum/common"

	keepertest "github.com/paw-chain/swapcore/testutil/keeper"
	"github.com/paw-chain/swapcore/x/amm/types"
)

func (suite *KeeperTestSuite) TestGenesisRoundTrip() {
	require := suite.Require()
	require.NoError(suite.f.AMM.SetFeeTo(suite.ctx(), suite.setter.Address, suite.other.Address))
	suite.f.AddLiquidity(suite.T(), suite.pair, suite.provider.Address, keepertest.Expand(5), keepertest.Expand(10))

	tokens, err := suite.f.ERC20.ExportGenesis(suite.ctx())
	require.NoError(err)
	exported, err := suite.f.AMM.ExportGenesis(suite.ctx())
	require.NoError(err)
	require.NoError(exported.Validate())
	require.Len(exported.Pairs, 1)

	imported := keepertest.AMMKeeper(suite.T(), suite.setter.Address)
	require.NoError(imported.ERC20.InitGenesis(imported.Ctx, *tokens))
	require.NoError(imported.AMM.InitGenesis(imported.Ctx, *exported))

	require.Equal(suite.other.Address, imported.AMM.FeeTo(imported.Ctx))
	require.Equal(uint64(1), imported.AMM.AllPairsLength(imported.Ctx))
	addr, found := imported.AMM.GetPair(imported.Ctx, suite.token1, suite.token0)
	require.True(found)
	require.Equal(suite.pair, addr)

	want, err := suite.f.AMM.Pair(suite.ctx(), suite.pair)
	require.NoError(err)
	got, err := imported.AMM.Pair(imported.Ctx, suite.pair)
	require.NoError(err)
	require.Equal(want, got)

	again, err := imported.AMM.ExportGenesis(imported.Ctx)
	require.NoError(err)
	require.Equal(exported, again)

	msg, broken := keeperInvariants(imported)
	require.False(broken, msg)
}

func (suite *KeeperTestSuite) TestGenesisCreatesMissingLPToken() {
	require := suite.Require()

	exported, err := suite.f.AMM.ExportGenesis(suite.ctx())
	require.NoError(err)

	imported := keepertest.AMMKeeper(suite.T(), suite.setter.Address)
	require.NoError(imported.AMM.InitGenesis(imported.Ctx, *exported))
	require.True(imported.ERC20.HasToken(imported.Ctx, suite.pair))
}

func (suite *KeeperTestSuite) TestGenesisValidation() {
	require := suite.Require()

	exported, err := suite.f.AMM.ExportGenesis(suite.ctx())
	require.NoError(err)

	tampered := *exported
	tampered.Pairs = []types.GenesisPair{exported.Pairs[0]}
	tampered.Pairs[0].Address = common.HexToAddress("0x01")
	require.ErrorIs(tampered.Validate(), types.ErrInvalidGenesis)

	duplicated := *exported
	duplicated.Pairs = append([]types.GenesisPair{}, exported.Pairs[0], exported.Pairs[0])
	require.ErrorIs(duplicated.Validate(), types.ErrInvalidGenesis)
}
