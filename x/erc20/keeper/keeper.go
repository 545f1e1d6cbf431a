package keeper

import (
	"context"
	"fmt"
	"math/big"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/holiman/uint256"

	"github.com/paw-chain/swapcore/x/erc20/types"
	"github.com/paw-chain/swapcore/x/shared/nonce"
)

// Keeper of the erc20 store. One keeper holds the ledgers of every token
// instance, each identified by its address.
type Keeper struct {
	storeKey     storetypes.StoreKey
	chainID      *big.Int
	permitNonces *nonce.Manager
	deployNonces *nonce.Manager
	metrics      *ERC20Metrics
}

// NewKeeper creates a new erc20 Keeper instance. chainID is bound into every
// permit signing domain.
func NewKeeper(key storetypes.StoreKey, chainID uint64) *Keeper {
	return &Keeper{
		storeKey:     key,
		chainID:      new(big.Int).SetUint64(chainID),
		permitNonces: nonce.NewManager(key, types.NonceErrorProvider{}, types.PermitNonceScope),
		deployNonces: nonce.NewManager(key, types.NonceErrorProvider{}, types.DeployNonceScope),
		metrics:      NewERC20Metrics(),
	}
}

// Logger returns a module-specific logger.
func (k Keeper) Logger(ctx context.Context) log.Logger {
	return sdk.UnwrapSDKContext(ctx).Logger().With("module", fmt.Sprintf("x/%s", types.ModuleName))
}

// ChainID returns the chain identifier used in permit domains.
func (k Keeper) ChainID() *big.Int {
	return new(big.Int).Set(k.chainID)
}

// getStore returns the KVStore for the erc20 module
func (k Keeper) getStore(ctx context.Context) storetypes.KVStore {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return sdkCtx.KVStore(k.storeKey)
}

func getAmount(store storetypes.KVStore, key []byte) *uint256.Int {
	bz := store.Get(key)
	if bz == nil {
		return new(uint256.Int)
	}
	return new(uint256.Int).SetBytes(bz)
}

// setAmount stores a 32-byte big-endian amount; zero amounts are deleted.
func setAmount(store storetypes.KVStore, key []byte, amount *uint256.Int) {
	if amount.IsZero() {
		store.Delete(key)
		return
	}
	bz := amount.Bytes32()
	store.Set(key, bz[:])
}
