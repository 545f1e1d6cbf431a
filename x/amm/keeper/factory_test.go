package keeper_test

import (
	"github.com/ethereum/go-ethereum/common"

	keepertest "github.com/paw-chain/swapcore/testutil/keeper"
	"github.com/paw-chain/swapcore/x/amm/types"
	erc20types "github.com/paw-chain/swapcore/x/erc20/types"
)

func (suite *KeeperTestSuite) TestCreatePair() {
	require := suite.Require()

	require.Equal(uint64(1), suite.f.AMM.AllPairsLength(suite.ctx()))
	first, err := suite.f.AMM.AllPairs(suite.ctx(), 0)
	require.NoError(err)
	require.Equal(suite.pair, first)

	want, err := types.PairFor(suite.f.AMM.FactoryAddress(suite.ctx()), suite.token1, suite.token0)
	require.NoError(err)
	require.Equal(want, suite.pair)

	attrs, found := findEvent(suite.ctx(), types.EventTypePairCreated)
	require.True(found)
	require.Equal(suite.token0.Hex(), attrs[types.AttributeKeyToken0])
	require.Equal(suite.token1.Hex(), attrs[types.AttributeKeyToken1])
	require.Equal(suite.pair.Hex(), attrs[types.AttributeKeyPair])
	require.Equal("1", attrs[types.AttributeKeyPairCount])

	for _, tokens := range [][2]common.Address{{suite.token0, suite.token1}, {suite.token1, suite.token0}} {
		addr, found := suite.f.AMM.GetPair(suite.ctx(), tokens[0], tokens[1])
		require.True(found)
		require.Equal(suite.pair, addr)

		_, err := suite.f.AMM.CreatePair(suite.ctx(), tokens[0], tokens[1])
		require.ErrorIs(err, types.ErrPairExists)
	}
	require.Equal(uint64(1), suite.f.AMM.AllPairsLength(suite.ctx()))

	p, err := suite.f.AMM.Pair(suite.ctx(), suite.pair)
	require.NoError(err)
	require.Equal(suite.token0, p.Token0)
	require.Equal(suite.token1, p.Token1)
	require.Equal(suite.f.AMM.FactoryAddress(suite.ctx()), p.Factory)

	meta, err := suite.f.ERC20.GetToken(suite.ctx(), suite.pair)
	require.NoError(err)
	require.Equal(erc20types.NewLPTokenMetadata(), meta)
}

func (suite *KeeperTestSuite) TestCreatePairInvalidTokens() {
	require := suite.Require()

	_, err := suite.f.AMM.CreatePair(suite.ctx(), suite.token0, suite.token0)
	require.ErrorIs(err, types.ErrIdenticalAddress)

	_, err = suite.f.AMM.CreatePair(suite.ctx(), suite.token0, common.Address{})
	require.ErrorIs(err, types.ErrZeroAddress)

	_, err = suite.f.AMM.AllPairs(suite.ctx(), 1)
	require.ErrorIs(err, types.ErrPairNotFound)
}

func (suite *KeeperTestSuite) TestCreateSecondPair() {
	require := suite.Require()

	third := keepertest.DeployToken(suite.T(), suite.f.ERC20, suite.ctx(), suite.provider.Address, "TKC", keepertest.Expand(1))
	pair, err := suite.f.AMM.CreatePair(suite.ctx(), third, suite.token0)
	require.NoError(err)
	require.NotEqual(suite.pair, pair)
	require.Equal(uint64(2), suite.f.AMM.AllPairsLength(suite.ctx()))

	second, err := suite.f.AMM.AllPairs(suite.ctx(), 1)
	require.NoError(err)
	require.Equal(pair, second)

	attrs, found := findEvent(suite.ctx(), types.EventTypePairCreated)
	require.True(found)
	require.Equal("2", attrs[types.AttributeKeyPairCount])
	suite.requireInvariants()
}

func (suite *KeeperTestSuite) TestSetFeeTo() {
	require := suite.Require()

	err := suite.f.AMM.SetFeeTo(suite.ctx(), suite.other.Address, suite.other.Address)
	require.ErrorIs(err, types.ErrAccessDenied)
	require.Equal(common.Address{}, suite.f.AMM.FeeTo(suite.ctx()))

	require.NoError(suite.f.AMM.SetFeeTo(suite.ctx(), suite.setter.Address, suite.other.Address))
	require.Equal(suite.other.Address, suite.f.AMM.FeeTo(suite.ctx()))
}

func (suite *KeeperTestSuite) TestSetFeeToSetter() {
	require := suite.Require()

	err := suite.f.AMM.SetFeeToSetter(suite.ctx(), suite.other.Address, suite.other.Address)
	require.ErrorIs(err, types.ErrAccessDenied)

	require.NoError(suite.f.AMM.SetFeeToSetter(suite.ctx(), suite.setter.Address, suite.other.Address))
	require.Equal(suite.other.Address, suite.f.AMM.FeeToSetter(suite.ctx()))

	// the previous setter has no privileges left
	require.ErrorIs(suite.f.AMM.SetFeeTo(suite.ctx(), suite.setter.Address, suite.setter.Address), types.ErrAccessDenied)
	require.ErrorIs(suite.f.AMM.SetFeeToSetter(suite.ctx(), suite.setter.Address, suite.setter.Address), types.ErrAccessDenied)

	require.NoError(suite.f.AMM.SetFeeTo(suite.ctx(), suite.other.Address, suite.provider.Address))
	require.Equal(suite.provider.Address, suite.f.AMM.FeeTo(suite.ctx()))
}

func (suite *KeeperTestSuite) TestParams() {
	require := suite.Require()

	params, err := suite.f.AMM.GetParams(suite.ctx())
	require.NoError(err)
	require.Equal(types.DefaultParams(), params)

	require.ErrorIs(suite.f.AMM.SetParams(suite.ctx(), types.Params{SwapFee: types.FeeDenominator}), types.ErrInvalidParams)
	require.NoError(suite.f.AMM.SetParams(suite.ctx(), types.Params{SwapFee: 5}))
	params, err = suite.f.AMM.GetParams(suite.ctx())
	require.NoError(err)
	require.Equal(uint64(5), params.SwapFee)
}
