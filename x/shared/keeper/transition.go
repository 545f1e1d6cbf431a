package keeper

import (
	"context"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// ExecuteAtomic runs fn against a branch of the context's multistore. The
// branch is written back and its events are forwarded to the parent only
// when fn returns nil; any error or panic discards every write made by fn.
// Branches nest, so an atomic operation invoked from inside another one
// commits into its caller's branch rather than the root store.
func ExecuteAtomic(ctx context.Context, fn func(ctx sdk.Context) error) (err error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	branch := sdkCtx.MultiStore().CacheMultiStore()
	events := sdk.NewEventManager()
	branchCtx := sdkCtx.WithMultiStore(branch).WithEventManager(events)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("transition aborted: %v", r)
		}
	}()

	if err := fn(branchCtx); err != nil {
		return err
	}

	branch.Write()
	sdkCtx.EventManager().EmitEvents(events.Events())
	return nil
}
