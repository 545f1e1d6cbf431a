package keeper_test

import (
	"time"

	"github.com/holiman/uint256"

	"github.com/paw-chain/swapcore/testutil/integration"
	keepertest "github.com/paw-chain/swapcore/testutil/keeper"
	"github.com/paw-chain/swapcore/x/erc20/types"
)

func (suite *KeeperTestSuite) signPermit(signer *integration.TestAccount, value, deadline *uint256.Int) types.Signature {
	domain, err := suite.keeper.DomainSeparator(suite.ctx, suite.token)
	suite.Require().NoError(err)

	sig, err := signer.SignPermit(domain, types.Permit{
		Owner:    suite.owner.Address,
		Spender:  suite.other.Address,
		Value:    value,
		Nonce:    suite.keeper.Nonces(suite.ctx, suite.token, suite.owner.Address),
		Deadline: deadline,
	})
	suite.Require().NoError(err)
	return sig
}

func (suite *KeeperTestSuite) TestPermit() {
	require := suite.Require()
	value := keepertest.Expand(10)
	sig := suite.signPermit(suite.owner, value, types.MaxAmount)

	err := suite.keeper.Permit(suite.ctx, suite.token, suite.owner.Address, suite.other.Address, value, types.MaxAmount, sig.V, sig.R, sig.S)
	require.NoError(err)

	require.Equal(value, suite.keeper.Allowance(suite.ctx, suite.token, suite.owner.Address, suite.other.Address))
	require.Equal(uint64(1), suite.keeper.Nonces(suite.ctx, suite.token, suite.owner.Address))

	attrs, found := findEvent(suite.ctx, types.EventTypeApproval)
	require.True(found)
	require.Equal(suite.owner.Address.Hex(), attrs[types.AttributeKeyOwner])
	require.Equal(suite.other.Address.Hex(), attrs[types.AttributeKeySpender])
	require.Equal(value.Dec(), attrs[types.AttributeKeyValue])

	// replaying the same signature fails once the nonce has advanced
	err = suite.keeper.Permit(suite.ctx, suite.token, suite.owner.Address, suite.other.Address, value, types.MaxAmount, sig.V, sig.R, sig.S)
	require.ErrorIs(err, types.ErrInvalidSignature)
	require.Equal(uint64(1), suite.keeper.Nonces(suite.ctx, suite.token, suite.owner.Address))
}

func (suite *KeeperTestSuite) TestPermitSetsRatherThanAdds() {
	require := suite.Require()
	require.NoError(suite.keeper.Approve(suite.ctx, suite.token, suite.owner.Address, suite.other.Address, uint256.NewInt(500)))

	sig := suite.signPermit(suite.owner, uint256.NewInt(3), types.MaxAmount)
	require.NoError(suite.keeper.Permit(suite.ctx, suite.token, suite.owner.Address, suite.other.Address, uint256.NewInt(3), types.MaxAmount, sig.V, sig.R, sig.S))
	require.Equal(uint256.NewInt(3), suite.keeper.Allowance(suite.ctx, suite.token, suite.owner.Address, suite.other.Address))
}

func (suite *KeeperTestSuite) TestPermitPacked() {
	require := suite.Require()
	value := keepertest.Expand(1)
	sig := suite.signPermit(suite.owner, value, types.MaxAmount)

	err := suite.keeper.PermitPacked(suite.ctx, suite.token, suite.owner.Address, suite.other.Address, value, types.MaxAmount, sig.Bytes())
	require.NoError(err)
	require.Equal(value, suite.keeper.Allowance(suite.ctx, suite.token, suite.owner.Address, suite.other.Address))
	require.Equal(uint64(1), suite.keeper.Nonces(suite.ctx, suite.token, suite.owner.Address))

	err = suite.keeper.PermitPacked(suite.ctx, suite.token, suite.owner.Address, suite.other.Address, value, types.MaxAmount, sig.Bytes()[:64])
	require.ErrorIs(err, types.ErrInvalidSignature)
}

func (suite *KeeperTestSuite) TestPermitAcceptsRawRecoveryID() {
	sig := suite.signPermit(suite.owner, uint256.NewInt(1), types.MaxAmount)
	err := suite.keeper.Permit(suite.ctx, suite.token, suite.owner.Address, suite.other.Address, uint256.NewInt(1), types.MaxAmount, sig.V-27, sig.R, sig.S)
	suite.Require().NoError(err)
}

func (suite *KeeperTestSuite) TestPermitExpired() {
	require := suite.Require()
	deadline := uint256.NewInt(uint64(keepertest.GenesisTime.Unix()))
	sig := suite.signPermit(suite.owner, uint256.NewInt(1), deadline)

	// the deadline itself is still valid
	cacheCtx, _ := suite.ctx.CacheContext()
	require.NoError(suite.keeper.Permit(cacheCtx, suite.token, suite.owner.Address, suite.other.Address, uint256.NewInt(1), deadline, sig.V, sig.R, sig.S))

	late := keepertest.AdvanceTime(suite.ctx, time.Second)
	err := suite.keeper.Permit(late, suite.token, suite.owner.Address, suite.other.Address, uint256.NewInt(1), deadline, sig.V, sig.R, sig.S)
	require.ErrorIs(err, types.ErrExpiredSignature)
	require.Zero(suite.keeper.Nonces(late, suite.token, suite.owner.Address))
}

func (suite *KeeperTestSuite) TestPermitWrongSigner() {
	require := suite.Require()
	sig := suite.signPermit(suite.other, uint256.NewInt(1), types.MaxAmount)

	err := suite.keeper.Permit(suite.ctx, suite.token, suite.owner.Address, suite.other.Address, uint256.NewInt(1), types.MaxAmount, sig.V, sig.R, sig.S)
	require.ErrorIs(err, types.ErrInvalidSignature)
	require.True(suite.keeper.Allowance(suite.ctx, suite.token, suite.owner.Address, suite.other.Address).IsZero())
}

func (suite *KeeperTestSuite) TestPermitBoundToChain() {
	require := suite.Require()
	sig := suite.signPermit(suite.owner, uint256.NewInt(1), types.MaxAmount)

	gs, err := suite.keeper.ExportGenesis(suite.ctx)
	require.NoError(err)

	otherChain, ctx := keepertest.ERC20KeeperWithChainID(suite.T(), keepertest.TestChainID+1)
	require.NoError(otherChain.InitGenesis(ctx, *gs))
	err = otherChain.Permit(ctx, suite.token, suite.owner.Address, suite.other.Address, uint256.NewInt(1), types.MaxAmount, sig.V, sig.R, sig.S)
	require.ErrorIs(err, types.ErrInvalidSignature)
}

func (suite *KeeperTestSuite) TestPermitUnknownToken() {
	var r, s [32]byte
	err := suite.keeper.Permit(suite.ctx, suite.other.Address, suite.owner.Address, suite.other.Address, uint256.NewInt(1), types.MaxAmount, 27, r, s)
	suite.Require().ErrorIs(err, types.ErrTokenNotFound)
}
