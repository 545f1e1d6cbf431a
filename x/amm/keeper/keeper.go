package keeper

import (
	"context"
	"fmt"
	"sync"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"

	"github.com/paw-chain/swapcore/x/amm/types"
)

// Keeper of the amm store. It implements the factory registry and the state
// machine of every pair it creates.
type Keeper struct {
	storeKey    storetypes.StoreKey
	tokenKeeper types.TokenKeeper
	callees     *calleeRegistry
	metrics     *AMMMetrics
}

// NewKeeper creates a new amm Keeper instance
func NewKeeper(key storetypes.StoreKey, tokenKeeper types.TokenKeeper) *Keeper {
	return &Keeper{
		storeKey:    key,
		tokenKeeper: tokenKeeper,
		callees:     &calleeRegistry{callees: make(map[common.Address]types.SwapCallee)},
		metrics:     NewAMMMetrics(),
	}
}

// Logger returns a module-specific logger.
func (k Keeper) Logger(ctx context.Context) log.Logger {
	return sdk.UnwrapSDKContext(ctx).Logger().With("module", fmt.Sprintf("x/%s", types.ModuleName))
}

// getStore returns the KVStore for the amm module
func (k Keeper) getStore(ctx context.Context) storetypes.KVStore {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return sdkCtx.KVStore(k.storeKey)
}

// calleeRegistry maps recipient addresses to flash-swap callback handlers.
type calleeRegistry struct {
	mu      sync.RWMutex
	callees map[common.Address]types.SwapCallee
}

// RegisterCallee installs the handler invoked when a swap with callback data
// pays out to addr. Registering nil removes the handler.
func (k Keeper) RegisterCallee(addr common.Address, callee types.SwapCallee) {
	k.callees.mu.Lock()
	defer k.callees.mu.Unlock()
	if callee == nil {
		delete(k.callees.callees, addr)
		return
	}
	k.callees.callees[addr] = callee
}

func (k Keeper) lookupCallee(addr common.Address) (types.SwapCallee, bool) {
	k.callees.mu.RLock()
	defer k.callees.mu.RUnlock()
	callee, ok := k.callees.callees[addr]
	return callee, ok
}
