package keeper_test

import (
	"time"

	"cosmossdk.io/math"
	"github.com/holiman/uint256"

	keepertest "github.com/paw-chain/swapcore/testutil/keeper"
	"github.com/paw-chain/swapcore/x/amm/types"
)

func (suite *KeeperTestSuite) TestSkim() {
	require := suite.Require()
	suite.f.AddLiquidity(suite.T(), suite.pair, suite.provider.Address, keepertest.Expand(5), keepertest.Expand(10))
	require.NoError(suite.f.ERC20.Transfer(suite.ctx(), suite.token0, suite.provider.Address, suite.pair, uint256.NewInt(100)))

	require.NoError(suite.f.AMM.Skim(suite.ctx(), suite.provider.Address, suite.pair, suite.other.Address))
	require.Equal(uint256.NewInt(100), suite.balance(suite.token0, suite.other.Address))
	require.True(suite.balance(suite.token1, suite.other.Address).IsZero())

	reserve0, reserve1 := suite.reserves()
	require.Equal(keepertest.Expand(5), reserve0)
	require.Equal(keepertest.Expand(10), reserve1)
	suite.requireInvariants()
}

func (suite *KeeperTestSuite) TestSync() {
	require := suite.Require()
	suite.f.AddLiquidity(suite.T(), suite.pair, suite.provider.Address, keepertest.Expand(5), keepertest.Expand(10))
	require.NoError(suite.f.ERC20.Transfer(suite.ctx(), suite.token1, suite.provider.Address, suite.pair, uint256.NewInt(7)))

	require.NoError(suite.f.AMM.Sync(suite.ctx(), suite.provider.Address, suite.pair))
	reserve0, reserve1 := suite.reserves()
	require.Equal(keepertest.Expand(5), reserve0)
	require.Equal(new(uint256.Int).AddUint64(keepertest.Expand(10), 7), reserve1)

	attrs, found := findEvent(suite.ctx(), types.EventTypeSync)
	require.True(found)
	require.Equal(reserve1.Dec(), attrs[types.AttributeKeyReserve1])

	n, err := suite.f.AMM.SyncAll(suite.ctx(), suite.provider.Address)
	require.NoError(err)
	require.Equal(1, n)
}

func (suite *KeeperTestSuite) TestPriceAccumulators() {
	require := suite.Require()
	amount := keepertest.Expand(3)
	suite.f.AddLiquidity(suite.T(), suite.pair, suite.provider.Address, amount, amount)

	p, err := suite.f.AMM.Pair(suite.ctx(), suite.pair)
	require.NoError(err)
	require.Equal(uint32(keepertest.GenesisTime.Unix()), p.BlockTimestampLast)
	require.True(p.Price0CumulativeLast.IsZero())

	// a second update in the same block does not accumulate
	require.NoError(suite.f.AMM.Sync(suite.ctx(), suite.provider.Address, suite.pair))
	p, err = suite.f.AMM.Pair(suite.ctx(), suite.pair)
	require.NoError(err)
	require.True(p.Price0CumulativeLast.IsZero())

	suite.f.Ctx = keepertest.AdvanceTime(suite.ctx(), time.Second)
	require.NoError(suite.f.AMM.Sync(suite.ctx(), suite.provider.Address, suite.pair))
	p, err = suite.f.AMM.Pair(suite.ctx(), suite.pair)
	require.NoError(err)
	require.Equal(types.Q112, p.Price0CumulativeLast)
	require.Equal(types.Q112, p.Price1CumulativeLast)

	// token1 becomes twice as valuable as token0
	require.NoError(suite.f.ERC20.Transfer(suite.ctx(), suite.token0, suite.provider.Address, suite.pair, amount))
	suite.f.Ctx = keepertest.AdvanceTime(suite.ctx(), 10*time.Second)
	require.NoError(suite.f.AMM.Sync(suite.ctx(), suite.provider.Address, suite.pair))
	p, err = suite.f.AMM.Pair(suite.ctx(), suite.pair)
	require.NoError(err)
	require.Equal(new(uint256.Int).Mul(types.Q112, uint256.NewInt(11)), p.Price0CumulativeLast)

	// unsynced reads extrapolate from the recorded reserves
	suite.f.Ctx = keepertest.AdvanceTime(suite.ctx(), 10*time.Second)
	price0, price1, ts, err := suite.f.AMM.CurrentCumulativePrices(suite.ctx(), suite.pair)
	require.NoError(err)
	require.Equal(uint32(keepertest.GenesisTime.Unix())+21, ts)
	half := new(uint256.Int).Rsh(types.Q112, 1)
	require.Equal(new(uint256.Int).Add(p.Price0CumulativeLast, new(uint256.Int).Mul(half, uint256.NewInt(10))), price0)
	require.Equal(new(uint256.Int).Add(p.Price1CumulativeLast, new(uint256.Int).Mul(types.Q112, uint256.NewInt(20))), price1)

	average := types.AveragePrice(p.Price0CumulativeLast, price0, 10)
	require.Equal(half, average)

	spot0, spot1, err := suite.f.AMM.SpotPrices(suite.ctx(), suite.pair)
	require.NoError(err)
	require.True(spot0.Equal(math.LegacyMustNewDecFromStr("0.5")), spot0.String())
	require.True(spot1.Equal(math.LegacyNewDec(2)), spot1.String())
}
