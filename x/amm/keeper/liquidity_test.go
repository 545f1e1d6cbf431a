package keeper_test

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	keepertest "github.com/paw-chain/swapcore/testutil/keeper"
	"github.com/paw-chain/swapcore/x/amm/types"
	erc20types "github.com/paw-chain/swapcore/x/erc20/types"
)

func (suite *KeeperTestSuite) TestFirstMint() {
	require := suite.Require()
	amount0, amount1 := keepertest.Expand(1), keepertest.Expand(4)

	suite.deposit(amount0, amount1)
	liquidity, err := suite.f.AMM.Mint(suite.ctx(), suite.provider.Address, suite.pair, suite.provider.Address)
	require.NoError(err)

	expected := new(uint256.Int).Sub(keepertest.Expand(2), types.MinimumLiquidity)
	require.Equal(expected, liquidity)
	require.Equal(keepertest.Expand(2), suite.f.ERC20.TotalSupply(suite.ctx(), suite.pair))
	require.Equal(expected, suite.balance(suite.pair, suite.provider.Address))
	require.Equal(types.MinimumLiquidity, suite.balance(suite.pair, common.Address{}))

	reserve0, reserve1 := suite.reserves()
	require.Equal(amount0, reserve0)
	require.Equal(amount1, reserve1)

	attrs, found := findEvent(suite.ctx(), types.EventTypeMint)
	require.True(found)
	require.Equal(suite.provider.Address.Hex(), attrs[types.AttributeKeySender])
	require.Equal(amount0.Dec(), attrs[types.AttributeKeyAmount0])
	require.Equal(amount1.Dec(), attrs[types.AttributeKeyAmount1])

	attrs, found = findEvent(suite.ctx(), types.EventTypeSync)
	require.True(found)
	require.Equal(amount0.Dec(), attrs[types.AttributeKeyReserve0])
	require.Equal(amount1.Dec(), attrs[types.AttributeKeyReserve1])

	require.False(suite.f.AMM.IsLocked(suite.ctx(), suite.pair))
	suite.requireInvariants()
}

func (suite *KeeperTestSuite) TestFirstMintBelowMinimum() {
	require := suite.Require()

	suite.deposit(uint256.NewInt(1000), uint256.NewInt(1000))
	_, err := suite.f.AMM.Mint(suite.ctx(), suite.provider.Address, suite.pair, suite.provider.Address)
	require.ErrorIs(err, types.ErrInsufficientLiquidityMinted)
	require.True(suite.f.ERC20.TotalSupply(suite.ctx(), suite.pair).IsZero())
	require.False(suite.f.AMM.IsLocked(suite.ctx(), suite.pair))
}

func (suite *KeeperTestSuite) TestSubsequentMintTakesSmallerRatio() {
	require := suite.Require()

	suite.f.AddLiquidity(suite.T(), suite.pair, suite.provider.Address, keepertest.Expand(1), keepertest.Expand(1))

	// an imbalanced deposit is credited at the scarcer side's ratio
	liquidity := suite.f.AddLiquidity(suite.T(), suite.pair, suite.provider.Address, keepertest.Expand(1), keepertest.Expand(3))
	require.Equal(keepertest.Expand(1), liquidity)

	_, err := suite.f.AMM.Mint(suite.ctx(), suite.provider.Address, suite.pair, suite.provider.Address)
	require.ErrorIs(err, types.ErrInsufficientLiquidityMinted)
	suite.requireInvariants()
}

func (suite *KeeperTestSuite) TestBurn() {
	require := suite.Require()
	amount := keepertest.Expand(3)

	liquidity := suite.f.AddLiquidity(suite.T(), suite.pair, suite.provider.Address, amount, amount)
	require.NoError(suite.f.ERC20.Transfer(suite.ctx(), suite.pair, suite.provider.Address, suite.pair, liquidity))

	amount0, amount1, err := suite.f.AMM.Burn(suite.ctx(), suite.provider.Address, suite.pair, suite.provider.Address)
	require.NoError(err)

	returned := new(uint256.Int).Sub(amount, uint256.NewInt(1000))
	require.Equal(returned, amount0)
	require.Equal(returned, amount1)

	require.Equal(types.MinimumLiquidity, suite.f.ERC20.TotalSupply(suite.ctx(), suite.pair))
	require.True(suite.balance(suite.pair, suite.pair).IsZero())
	reserve0, reserve1 := suite.reserves()
	require.Equal(uint256.NewInt(1000), reserve0)
	require.Equal(uint256.NewInt(1000), reserve1)

	attrs, found := findEvent(suite.ctx(), types.EventTypeBurn)
	require.True(found)
	require.Equal(returned.Dec(), attrs[types.AttributeKeyAmount0])
	require.Equal(suite.provider.Address.Hex(), attrs[types.AttributeKeyTo])
	suite.requireInvariants()
}

func (suite *KeeperTestSuite) TestBurnWithoutShares() {
	suite.f.AddLiquidity(suite.T(), suite.pair, suite.provider.Address, keepertest.Expand(1), keepertest.Expand(1))

	_, _, err := suite.f.AMM.Burn(suite.ctx(), suite.provider.Address, suite.pair, suite.provider.Address)
	suite.Require().ErrorIs(err, types.ErrInsufficientLiquidityBurned)
}

func (suite *KeeperTestSuite) TestLockedLiquidityCannotMove() {
	require := suite.Require()
	suite.f.AddLiquidity(suite.T(), suite.pair, suite.provider.Address, keepertest.Expand(1), keepertest.Expand(1))

	err := suite.f.ERC20.Transfer(suite.ctx(), suite.pair, common.Address{}, suite.pair, types.MinimumLiquidity)
	require.ErrorIs(err, erc20types.ErrInvalidSender)
	require.Equal(types.MinimumLiquidity, suite.balance(suite.pair, common.Address{}))
}

func (suite *KeeperTestSuite) TestMintOverflowIsAtomic() {
	require := suite.Require()

	huge := new(uint256.Int).Lsh(uint256.NewInt(1), 113)
	token, err := suite.f.ERC20.Deploy(suite.ctx(), suite.provider.Address, erc20types.TokenMetadata{Name: "Huge", Symbol: "HUGE"}, huge)
	require.NoError(err)
	pair, err := suite.f.AMM.CreatePair(suite.ctx(), token, suite.token0)
	require.NoError(err)

	tooMuch := new(uint256.Int).AddUint64(types.MaxUint112, 1)
	require.NoError(suite.f.ERC20.Transfer(suite.ctx(), token, suite.provider.Address, pair, tooMuch))
	require.NoError(suite.f.ERC20.Transfer(suite.ctx(), suite.token0, suite.provider.Address, pair, keepertest.Expand(1)))

	_, err = suite.f.AMM.Mint(suite.ctx(), suite.provider.Address, pair, suite.provider.Address)
	require.ErrorIs(err, types.ErrOverflow)
	require.True(suite.f.ERC20.TotalSupply(suite.ctx(), pair).IsZero())
	require.False(suite.f.AMM.IsLocked(suite.ctx(), pair))

	p, err := suite.f.AMM.Pair(suite.ctx(), pair)
	require.NoError(err)
	require.True(p.Reserve0.IsZero())
	require.True(p.Reserve1.IsZero())
}

func (suite *KeeperTestSuite) TestProtocolFeeOff() {
	require := suite.Require()
	amount := keepertest.Expand(1000)

	liquidity := suite.f.AddLiquidity(suite.T(), suite.pair, suite.provider.Address, amount, amount)
	suite.swapToken1For0(keepertest.Expand(1), uint256.MustFromDecimal("996006981039903216"))

	require.NoError(suite.f.ERC20.Transfer(suite.ctx(), suite.pair, suite.provider.Address, suite.pair, liquidity))
	_, _, err := suite.f.AMM.Burn(suite.ctx(), suite.provider.Address, suite.pair, suite.provider.Address)
	require.NoError(err)
	require.Equal(types.MinimumLiquidity, suite.f.ERC20.TotalSupply(suite.ctx(), suite.pair))

	p, err := suite.f.AMM.Pair(suite.ctx(), suite.pair)
	require.NoError(err)
	require.True(p.KLast.IsZero())
}

func (suite *KeeperTestSuite) TestProtocolFeeOn() {
	require := suite.Require()
	amount := keepertest.Expand(1000)
	require.NoError(suite.f.AMM.SetFeeTo(suite.ctx(), suite.setter.Address, suite.other.Address))

	liquidity := suite.f.AddLiquidity(suite.T(), suite.pair, suite.provider.Address, amount, amount)
	p, err := suite.f.AMM.Pair(suite.ctx(), suite.pair)
	require.NoError(err)
	require.Equal(new(uint256.Int).Mul(amount, amount), p.KLast)

	suite.swapToken1For0(keepertest.Expand(1), uint256.MustFromDecimal("996006981039903216"))

	// accrual happens only at liquidity events
	require.True(suite.balance(suite.pair, suite.other.Address).IsZero())

	require.NoError(suite.f.ERC20.Transfer(suite.ctx(), suite.pair, suite.provider.Address, suite.pair, liquidity))
	_, _, err = suite.f.AMM.Burn(suite.ctx(), suite.provider.Address, suite.pair, suite.provider.Address)
	require.NoError(err)

	fee := uint256.MustFromDecimal("249750499251388")
	require.Equal(new(uint256.Int).Add(types.MinimumLiquidity, fee), suite.f.ERC20.TotalSupply(suite.ctx(), suite.pair))
	require.Equal(fee, suite.balance(suite.pair, suite.other.Address))
	suite.requireInvariants()
}

func (suite *KeeperTestSuite) TestProtocolFeeTurnedOffClearsKLast() {
	require := suite.Require()
	require.NoError(suite.f.AMM.SetFeeTo(suite.ctx(), suite.setter.Address, suite.other.Address))
	suite.f.AddLiquidity(suite.T(), suite.pair, suite.provider.Address, keepertest.Expand(10), keepertest.Expand(10))

	require.NoError(suite.f.AMM.SetFeeTo(suite.ctx(), suite.setter.Address, common.Address{}))
	suite.f.AddLiquidity(suite.T(), suite.pair, suite.provider.Address, keepertest.Expand(1), keepertest.Expand(1))

	p, err := suite.f.AMM.Pair(suite.ctx(), suite.pair)
	require.NoError(err)
	require.True(p.KLast.IsZero())
}
