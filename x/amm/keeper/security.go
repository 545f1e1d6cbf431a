package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"

	"github.com/paw-chain/swapcore/x/amm/types"
	sharedkeeper "github.com/paw-chain/swapcore/x/shared/keeper"
)

// WithReentrancyGuard executes fn as one atomic transition of a pair. The
// pair's lock is held in the KVStore for the duration of fn, so a callback
// that re-enters any mutating entry point of the same pair fails with
// ErrReentrant. Other pairs are unaffected. When fn fails every write,
// including the lock, is discarded.
func (k Keeper) WithReentrancyGuard(ctx context.Context, pair common.Address, operation string, fn func(ctx sdk.Context) error) error {
	return sharedkeeper.ExecuteAtomic(ctx, func(ctx sdk.Context) error {
		if err := k.acquireReentrancyLock(ctx, pair, operation); err != nil {
			return err
		}
		defer k.releaseReentrancyLock(ctx, pair)

		return fn(ctx)
	})
}

// IsLocked reports whether a transition of pair is in flight in ctx.
func (k Keeper) IsLocked(ctx context.Context, pair common.Address) bool {
	return k.getStore(ctx).Has(types.GetPairLockKey(pair))
}

// acquireReentrancyLock attempts to acquire a pair lock from the KVStore
func (k Keeper) acquireReentrancyLock(ctx context.Context, pair common.Address, operation string) error {
	store := k.getStore(ctx)
	key := types.GetPairLockKey(pair)

	if store.Has(key) {
		k.metrics.ReentrancyBlocked.WithLabelValues(operation).Inc()
		return types.ErrReentrant.Wrapf("%s on pair %s while locked", operation, pair.Hex())
	}

	store.Set(key, []byte{0x01})
	return nil
}

// releaseReentrancyLock releases a pair lock from the KVStore
func (k Keeper) releaseReentrancyLock(ctx context.Context, pair common.Address) {
	k.getStore(ctx).Delete(types.GetPairLockKey(pair))
}
