package keeper_test

import (
	"errors"
	"testing"

	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/testutil"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/swapcore/x/shared/keeper"
)

func setupContext(t *testing.T) (sdk.Context, storetypes.StoreKey) {
	t.Helper()
	key := storetypes.NewKVStoreKey("transition")
	ctx := testutil.DefaultContext(key, storetypes.NewTransientStoreKey("transient_transition"))
	return ctx, key
}

func TestExecuteAtomicCommits(t *testing.T) {
	ctx, key := setupContext(t)

	err := keeper.ExecuteAtomic(ctx, func(ctx sdk.Context) error {
		ctx.KVStore(key).Set([]byte("k"), []byte("v"))
		ctx.EventManager().EmitEvent(sdk.NewEvent("written"))
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []byte("v"), ctx.KVStore(key).Get([]byte("k")))
	require.Len(t, ctx.EventManager().Events(), 1)
	require.Equal(t, "written", ctx.EventManager().Events()[0].Type)
}

func TestExecuteAtomicDiscardsOnError(t *testing.T) {
	ctx, key := setupContext(t)
	boom := errors.New("boom")

	err := keeper.ExecuteAtomic(ctx, func(ctx sdk.Context) error {
		ctx.KVStore(key).Set([]byte("k"), []byte("v"))
		ctx.EventManager().EmitEvent(sdk.NewEvent("written"))
		return boom
	})
	require.ErrorIs(t, err, boom)
	require.Nil(t, ctx.KVStore(key).Get([]byte("k")))
	require.Empty(t, ctx.EventManager().Events())
}

func TestExecuteAtomicDiscardsOnPanic(t *testing.T) {
	ctx, key := setupContext(t)

	err := keeper.ExecuteAtomic(ctx, func(ctx sdk.Context) error {
		ctx.KVStore(key).Set([]byte("k"), []byte("v"))
		panic("unexpected")
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unexpected")
	require.Nil(t, ctx.KVStore(key).Get([]byte("k")))
}

func TestExecuteAtomicNested(t *testing.T) {
	ctx, key := setupContext(t)

	err := keeper.ExecuteAtomic(ctx, func(outer sdk.Context) error {
		outer.KVStore(key).Set([]byte("outer"), []byte{1})

		innerErr := keeper.ExecuteAtomic(outer, func(inner sdk.Context) error {
			inner.KVStore(key).Set([]byte("inner"), []byte{1})
			return errors.New("inner failed")
		})
		require.Error(t, innerErr)
		require.Nil(t, outer.KVStore(key).Get([]byte("inner")))

		return keeper.ExecuteAtomic(outer, func(inner sdk.Context) error {
			inner.KVStore(key).Set([]byte("inner2"), []byte{1})
			return nil
		})
	})
	require.NoError(t, err)
	require.NotNil(t, ctx.KVStore(key).Get([]byte("outer")))
	require.NotNil(t, ctx.KVStore(key).Get([]byte("inner2")))
	require.Nil(t, ctx.KVStore(key).Get([]byte("inner")))
}
