package app

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"cosmossdk.io/log"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/swapcore/testutil/integration"
	ammtypes "github.com/paw-chain/swapcore/x/amm/types"
	erc20types "github.com/paw-chain/swapcore/x/erc20/types"
)

var genesisTime = time.Unix(1_700_000_000, 0).UTC()

func newTestApp(t *testing.T, db dbm.DB) *App {
	t.Helper()
	a, err := New(log.NewNopLogger(), db, DefaultChainID)
	require.NoError(t, err)
	return a
}

func initTestApp(t *testing.T) (*App, common.Address) {
	t.Helper()
	a := newTestApp(t, dbm.NewMemDB())
	setter := integration.NewTestAccount("setter").Address
	require.NoError(t, a.InitChain(NewGenesisDoc(DefaultChainID, genesisTime, setter)))
	return a, setter
}

func deploy(t *testing.T, a *App, deployer common.Address, symbol string) common.Address {
	t.Helper()
	var token common.Address
	_, err := a.Execute(func(ctx sdk.Context) error {
		var err error
		token, err = a.ERC20Keeper.Deploy(ctx, deployer, erc20types.TokenMetadata{
			Name:     symbol,
			Symbol:   symbol,
			Decimals: erc20types.DefaultDecimals,
		}, uint256.NewInt(1_000_000))
		return err
	})
	require.NoError(t, err)
	return token
}

func TestInitChain(t *testing.T) {
	a, setter := initTestApp(t)

	require.True(t, a.Initialized())
	require.Equal(t, int64(1), a.Header().Height)
	require.Equal(t, genesisTime, a.Header().Time)

	err := a.Query(func(ctx sdk.Context) error {
		require.Equal(t, setter, a.AMMKeeper.FeeToSetter(ctx))
		require.Equal(t, ammtypes.FactoryAddressFor(setter), a.AMMKeeper.FactoryAddress(ctx))
		return nil
	})
	require.NoError(t, err)

	err = a.InitChain(NewGenesisDoc(DefaultChainID, genesisTime, setter))
	require.ErrorIs(t, err, ErrAlreadyInitialized)
}

func TestInitChainRejectsForeignChainID(t *testing.T) {
	a := newTestApp(t, dbm.NewMemDB())
	setter := integration.NewTestAccount("setter").Address

	err := a.InitChain(NewGenesisDoc(DefaultChainID+1, genesisTime, setter))
	require.Error(t, err)
	require.False(t, a.Initialized())
}

func TestExecuteBeforeInit(t *testing.T) {
	a := newTestApp(t, dbm.NewMemDB())

	_, err := a.Execute(func(sdk.Context) error { return nil })
	require.ErrorIs(t, err, ErrNotInitialized)
}

func TestExecuteReturnsEvents(t *testing.T) {
	a, _ := initTestApp(t)
	deployer := integration.NewTestAccount("deployer").Address

	var token common.Address
	events, err := a.Execute(func(ctx sdk.Context) error {
		var err error
		token, err = a.ERC20Keeper.Deploy(ctx, deployer, erc20types.TokenMetadata{Name: "A", Symbol: "A", Decimals: 18}, uint256.NewInt(5))
		return err
	})
	require.NoError(t, err)
	require.NotEmpty(t, events)
	require.NotEqual(t, common.Address{}, token)
}

func TestExecuteFailureDiscardsWrites(t *testing.T) {
	a, _ := initTestApp(t)
	deployer := integration.NewTestAccount("deployer").Address
	token := deploy(t, a, deployer, "TKA")
	other := integration.NewTestAccount("other").Address

	failure := errors.New("abort")
	_, err := a.Execute(func(ctx sdk.Context) error {
		require.NoError(t, a.ERC20Keeper.Transfer(ctx, token, deployer, other, uint256.NewInt(10)))
		return failure
	})
	require.ErrorIs(t, err, failure)

	_, err = a.Execute(func(ctx sdk.Context) error {
		require.NoError(t, a.ERC20Keeper.Transfer(ctx, token, deployer, other, uint256.NewInt(10)))
		panic("boom")
	})
	require.Error(t, err)

	require.NoError(t, a.Query(func(ctx sdk.Context) error {
		require.True(t, a.ERC20Keeper.BalanceOf(ctx, token, other).IsZero())
		return nil
	}))
}

func TestQueryDiscardsWrites(t *testing.T) {
	a, _ := initTestApp(t)
	deployer := integration.NewTestAccount("deployer").Address
	token := deploy(t, a, deployer, "TKA")
	other := integration.NewTestAccount("other").Address

	require.NoError(t, a.Query(func(ctx sdk.Context) error {
		return a.ERC20Keeper.Transfer(ctx, token, deployer, other, uint256.NewInt(10))
	}))
	require.NoError(t, a.Query(func(ctx sdk.Context) error {
		require.True(t, a.ERC20Keeper.BalanceOf(ctx, token, other).IsZero())
		return nil
	}))
}

func TestBlockTimeIsMonotonic(t *testing.T) {
	a, _ := initTestApp(t)

	header := a.BeginBlock(genesisTime.Add(10 * time.Second))
	require.Equal(t, int64(2), header.Height)
	require.Equal(t, genesisTime.Add(10*time.Second), header.Time)

	header = a.BeginBlock(genesisTime)
	require.Equal(t, genesisTime.Add(10*time.Second), header.Time)
}

func TestStateSurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	db, err := dbm.NewDB("application", dbm.GoLevelDBBackend, filepath.Join(dir, "data"))
	require.NoError(t, err)

	a := newTestApp(t, db)
	setter := integration.NewTestAccount("setter").Address
	require.NoError(t, a.InitChain(NewGenesisDoc(DefaultChainID, genesisTime, setter)))

	deployer := integration.NewTestAccount("deployer").Address
	a.BeginBlock(genesisTime.Add(time.Minute))
	token := deploy(t, a, deployer, "TKA")
	id := a.Commit()
	require.Equal(t, int64(2), id.Version)
	require.NoError(t, a.Close())

	db, err = dbm.NewDB("application", dbm.GoLevelDBBackend, filepath.Join(dir, "data"))
	require.NoError(t, err)
	reopened := newTestApp(t, db)
	defer reopened.Close()

	require.True(t, reopened.Initialized())
	require.Equal(t, int64(2), reopened.Header().Height)
	require.Equal(t, genesisTime.Add(time.Minute), reopened.Header().Time)
	require.NoError(t, reopened.Query(func(ctx sdk.Context) error {
		require.True(t, reopened.ERC20Keeper.HasToken(ctx, token))
		require.Equal(t, uint64(1_000_000), reopened.ERC20Keeper.BalanceOf(ctx, token, deployer).Uint64())
		return nil
	}))
}

func openLevelDB(t *testing.T, dir string) dbm.DB {
	t.Helper()
	db, err := dbm.NewDB("application", dbm.GoLevelDBBackend, filepath.Join(dir, "data"))
	require.NoError(t, err)
	return db
}

func TestReopenAfterDefaultGenesis(t *testing.T) {
	dir := t.TempDir()
	a := newTestApp(t, openLevelDB(t, dir))
	setter := integration.NewTestAccount("setter").Address
	require.NoError(t, a.InitChain(NewGenesisDoc(DefaultChainID, genesisTime, setter)))
	require.NoError(t, a.Close())

	reopened, err := New(log.NewNopLogger(), openLevelDB(t, dir), DefaultChainID)
	require.NoError(t, err)
	defer reopened.Close()

	require.True(t, reopened.Initialized())
	require.Equal(t, int64(1), reopened.Header().Height)
	require.NoError(t, reopened.Query(func(ctx sdk.Context) error {
		chainID, ok := reopened.ERC20Keeper.StoredChainID(ctx)
		require.True(t, ok)
		require.Equal(t, DefaultChainID, chainID)
		require.Equal(t, setter, reopened.AMMKeeper.FeeToSetter(ctx))
		return nil
	}))

	reopened.BeginBlock(genesisTime.Add(time.Minute))
	deploy(t, reopened, integration.NewTestAccount("deployer").Address, "TKA")
	require.Equal(t, int64(2), reopened.Commit().Version)
}

func TestReopenWithOtherChainID(t *testing.T) {
	dir := t.TempDir()
	a := newTestApp(t, openLevelDB(t, dir))
	require.NoError(t, a.InitChain(NewGenesisDoc(DefaultChainID, genesisTime, integration.NewTestAccount("setter").Address)))
	require.NoError(t, a.Close())

	db := openLevelDB(t, dir)
	defer db.Close()
	_, err := New(log.NewNopLogger(), db, DefaultChainID+1)
	require.ErrorIs(t, err, ErrChainIDMismatch)
}

func TestInvariantRoutes(t *testing.T) {
	a, _ := initTestApp(t)
	require.Equal(t, []string{
		"erc20/supply",
		"amm/pair-reserves",
		"amm/minimum-liquidity",
		"amm/pair-registry",
	}, a.InvariantRoutes())
}

func TestCheckInvariantsReportsBrokenSupply(t *testing.T) {
	a, setter := initTestApp(t)
	token := deploy(t, a, setter, "AAA")

	_, broken := a.CheckInvariants()
	require.False(t, broken)

	stray := integration.NewTestAccount("stray").Address
	_, err := a.Execute(func(ctx sdk.Context) error {
		bz := uint256.NewInt(7).Bytes32()
		ctx.KVStore(a.GetKey(erc20types.StoreKey)).Set(erc20types.GetBalanceKey(token, stray), bz[:])
		return nil
	})
	require.NoError(t, err)

	msg, broken := a.CheckInvariants()
	require.True(t, broken)
	require.Contains(t, msg, token.Hex())
}

func TestExportImportGenesis(t *testing.T) {
	a, setter := initTestApp(t)
	deployer := integration.NewTestAccount("deployer").Address
	tokenA := deploy(t, a, deployer, "TKA")
	tokenB := deploy(t, a, deployer, "TKB")

	var pair common.Address
	_, err := a.Execute(func(ctx sdk.Context) error {
		var err error
		pair, err = a.AMMKeeper.CreatePair(ctx, tokenA, tokenB)
		return err
	})
	require.NoError(t, err)

	doc, err := a.ExportGenesis()
	require.NoError(t, err)
	require.NoError(t, doc.AppState.Validate())

	bz, err := json.Marshal(doc)
	require.NoError(t, err)
	var decoded GenesisDoc
	require.NoError(t, json.Unmarshal(bz, &decoded))

	imported := newTestApp(t, dbm.NewMemDB())
	require.NoError(t, imported.InitChain(decoded))
	require.NoError(t, imported.Query(func(ctx sdk.Context) error {
		got, ok := imported.AMMKeeper.GetPair(ctx, tokenB, tokenA)
		require.True(t, ok)
		require.Equal(t, pair, got)
		require.Equal(t, setter, imported.AMMKeeper.FeeToSetter(ctx))
		return nil
	}))

	_, broken := imported.CheckInvariants()
	require.False(t, broken)

	stats, err := imported.Stats()
	require.NoError(t, err)
	require.Equal(t, uint64(1), stats["pairs"])
	require.Equal(t, uint64(3), stats["tokens"])
}

func TestGenesisValidation(t *testing.T) {
	setter := integration.NewTestAccount("setter").Address

	gs := NewDefaultGenesisState(setter)
	require.NoError(t, gs.Validate())

	delete(gs, ammtypes.ModuleName)
	require.Error(t, gs.Validate())

	gs = NewDefaultGenesisState(setter)
	gs[erc20types.ModuleName] = json.RawMessage(`{"tokens":`)
	require.Error(t, gs.Validate())
}

func TestGenesisFileRoundTrip(t *testing.T) {
	setter := integration.NewTestAccount("setter").Address
	path := GenesisPath(t.TempDir())

	doc := NewGenesisDoc(DefaultChainID, genesisTime, setter)
	require.NoError(t, SaveGenesisDoc(path, doc))

	loaded, err := LoadGenesisDoc(path)
	require.NoError(t, err)
	require.Equal(t, doc.ChainID, loaded.ChainID)
	require.True(t, doc.GenesisTime.Equal(loaded.GenesisTime))
	require.JSONEq(t, string(doc.AppState[ammtypes.ModuleName]), string(loaded.AppState[ammtypes.ModuleName]))
}
