package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/paw-chain/swapcore/app/telemetry"
	ammkeeper "github.com/paw-chain/swapcore/x/amm/keeper"
	ammtypes "github.com/paw-chain/swapcore/x/amm/types"
	erc20keeper "github.com/paw-chain/swapcore/x/erc20/keeper"
	erc20types "github.com/paw-chain/swapcore/x/erc20/types"
	sharedkeeper "github.com/paw-chain/swapcore/x/shared/keeper"
)

const (
	// Name is the application name.
	Name = "swapcore"

	// MetaStoreKey holds chain metadata that is not owned by a module.
	MetaStoreKey = "meta"
)

var (
	// DefaultNodeHome is the default home directory of swapd.
	DefaultNodeHome string

	lastBlockTimeKey = []byte("last_block_time")
	initializedKey   = []byte("initialized")

	// ErrNotInitialized is returned by transitions before InitChain.
	ErrNotInitialized = errors.New("chain is not initialized")
	// ErrChainIDMismatch is returned when the state was initialized for another chain.
	ErrChainIDMismatch = errors.New("chain id does not match the state")
	// ErrAlreadyInitialized is returned by InitChain on an existing chain.
	ErrAlreadyInitialized = errors.New("chain is already initialized")
)

func init() {
	userHomeDir, err := os.UserHomeDir()
	if err != nil {
		panic(err)
	}
	DefaultNodeHome = filepath.Join(userHomeDir, ".swapd")
}

// App is the swapcore state machine. Every transition runs in a cache
// branch of the commit multistore under an exclusive lock, so concurrent
// readers observe only the state before or after it.
type App struct {
	logger  log.Logger
	db      dbm.DB
	cms     storetypes.CommitMultiStore
	chainID uint64

	keys map[string]*storetypes.KVStoreKey

	ERC20Keeper *erc20keeper.Keeper
	AMMKeeper   *ammkeeper.Keeper

	tracer    trace.Tracer
	telemetry *telemetry.Provider

	invariants []invariantRoute

	mu     sync.RWMutex
	header cmtproto.Header
}

// New opens the application state in db.
func New(logger log.Logger, db dbm.DB, chainID uint64) (*App, error) {
	keys := storetypes.NewKVStoreKeys(erc20types.StoreKey, ammtypes.StoreKey, MetaStoreKey)

	cms := store.NewCommitMultiStore(db, logger, metrics.NewNoOpMetrics())
	for _, key := range keys {
		cms.MountStoreWithDB(key, storetypes.StoreTypeIAVL, nil)
	}
	if err := cms.LoadLatestVersion(); err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}

	app := &App{
		logger:  logger.With("module", "app"),
		db:      db,
		cms:     cms,
		chainID: chainID,
		keys:    keys,
		tracer:  noop.NewTracerProvider().Tracer(Name),
	}
	app.ERC20Keeper = erc20keeper.NewKeeper(keys[erc20types.StoreKey], chainID)
	app.AMMKeeper = ammkeeper.NewKeeper(keys[ammtypes.StoreKey], app.ERC20Keeper)

	app.RegisterRoute(erc20types.ModuleName, "supply", func(ctx sdk.Context) (string, bool) {
		return app.ERC20Keeper.AllSupplyInvariants(ctx)
	})
	ammkeeper.RegisterInvariants(app, *app.AMMKeeper)

	app.header = cmtproto.Header{
		ChainID: strconv.FormatUint(chainID, 10),
		Height:  cms.LastCommitID().Version,
		Time:    app.lastBlockTime(),
	}
	if err := app.Query(func(ctx sdk.Context) error {
		if stored, ok := app.ERC20Keeper.StoredChainID(ctx); ok && stored != chainID {
			return fmt.Errorf("%w: state has %d, configured %d", ErrChainIDMismatch, stored, chainID)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	app.logger.Info("state loaded", "height", app.header.Height, "chain_id", chainID)
	return app, nil
}

// ChainID returns the chain identifier bound into permit domains.
func (app *App) ChainID() uint64 { return app.chainID }

// SetTelemetry traces transitions, block starts and commits with p.
// Close shuts p down.
func (app *App) SetTelemetry(p *telemetry.Provider) {
	app.mu.Lock()
	defer app.mu.Unlock()
	app.telemetry = p
	app.tracer = p.Tracer()
}

// Logger returns the application logger.
func (app *App) Logger() log.Logger { return app.logger }

// GetKey returns the store key registered for storeKey.
func (app *App) GetKey(storeKey string) *storetypes.KVStoreKey {
	return app.keys[storeKey]
}

// Header returns the current block header.
func (app *App) Header() cmtproto.Header {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.header
}

// Initialized reports whether InitChain has run.
func (app *App) Initialized() bool {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.initialized()
}

func (app *App) initialized() bool {
	return app.cms.GetKVStore(app.keys[MetaStoreKey]).Has(initializedKey)
}

func (app *App) lastBlockTime() time.Time {
	bz := app.cms.GetKVStore(app.keys[MetaStoreKey]).Get(lastBlockTimeKey)
	if bz == nil {
		return time.Time{}
	}
	return time.Unix(int64(sdk.BigEndianToUint64(bz)), 0).UTC()
}

func (app *App) newContext(ms storetypes.MultiStore) sdk.Context {
	return sdk.NewContext(ms, app.header, false, app.logger)
}

// BeginBlock starts a new block at blockTime. Block time never moves backwards.
func (app *App) BeginBlock(blockTime time.Time) cmtproto.Header {
	app.mu.Lock()
	defer app.mu.Unlock()

	_, span := app.tracer.Start(context.Background(), "app.begin_block")
	defer span.End()

	app.header.Height++
	if blockTime.After(app.header.Time) {
		app.header.Time = blockTime.UTC()
	}
	span.SetAttributes(attribute.Int64("block.height", app.header.Height))
	return app.header
}

// Execute runs fn as one atomic transition and returns the events it
// emitted. On error or panic nothing fn wrote is kept.
func (app *App) Execute(fn func(ctx sdk.Context) error) (sdk.Events, error) {
	app.mu.Lock()
	defer app.mu.Unlock()

	spanCtx, span := app.tracer.Start(context.Background(), "app.execute",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.Int64("block.height", app.header.Height)),
	)
	defer span.End()

	if !app.initialized() {
		telemetry.RecordError(span, ErrNotInitialized)
		return nil, ErrNotInitialized
	}
	ctx := app.newContext(app.cms).WithContext(spanCtx)
	if err := sharedkeeper.ExecuteAtomic(ctx, fn); err != nil {
		app.logger.Debug("transition failed", "height", app.header.Height, "error", err)
		telemetry.RecordError(span, err)
		return nil, err
	}
	events := ctx.EventManager().Events()
	span.SetAttributes(attribute.Int("tx.events", len(events)))
	return events, nil
}

// Query runs fn against the current state. Writes made by fn are discarded.
func (app *App) Query(fn func(ctx sdk.Context) error) error {
	app.mu.RLock()
	defer app.mu.RUnlock()

	return fn(app.newContext(app.cms.CacheMultiStore()))
}

// Commit persists the state and returns the new commit id.
func (app *App) Commit() storetypes.CommitID {
	app.mu.Lock()
	defer app.mu.Unlock()

	_, span := app.tracer.Start(context.Background(), "app.commit")
	defer span.End()

	app.cms.GetKVStore(app.keys[MetaStoreKey]).Set(lastBlockTimeKey, sdk.Uint64ToBigEndian(uint64(app.header.Time.Unix())))
	id := app.cms.Commit()
	app.header.Height = id.Version
	span.SetAttributes(
		attribute.Int64("block.height", id.Version),
		attribute.String("commit.hash", fmt.Sprintf("%X", id.Hash)),
	)
	app.logger.Debug("committed", "height", id.Version, "hash", fmt.Sprintf("%X", id.Hash))
	return id
}

// InitChain loads the genesis state into an empty chain and commits it.
func (app *App) InitChain(doc GenesisDoc) error {
	if doc.ChainID != app.chainID {
		return fmt.Errorf("genesis chain id %d does not match configured chain id %d", doc.ChainID, app.chainID)
	}

	app.mu.Lock()
	if app.initialized() || app.cms.LastCommitID().Version != 0 {
		app.mu.Unlock()
		return ErrAlreadyInitialized
	}
	app.header.Time = doc.GenesisTime.UTC()

	ctx := app.newContext(app.cms)
	err := sharedkeeper.ExecuteAtomic(ctx, func(ctx sdk.Context) error {
		if err := app.initGenesis(ctx, doc.AppState); err != nil {
			return err
		}
		ctx.KVStore(app.keys[MetaStoreKey]).Set(initializedKey, []byte{1})
		return nil
	})
	app.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to init genesis: %w", err)
	}

	app.Commit()
	app.logger.Info("chain initialized", "chain_id", doc.ChainID, "genesis_time", doc.GenesisTime)
	return nil
}

// ExportGenesis exports the current state as genesis.
func (app *App) ExportGenesis() (GenesisDoc, error) {
	doc := GenesisDoc{ChainID: app.chainID}
	err := app.Query(func(ctx sdk.Context) error {
		state, err := app.exportGenesis(ctx)
		if err != nil {
			return err
		}
		doc.GenesisTime = ctx.BlockTime()
		doc.AppState = state
		return nil
	})
	return doc, err
}

type invariantRoute struct {
	module string
	route  string
	check  sdk.Invariant
}

// RegisterRoute adds an invariant checked by CheckInvariants, in registration order.
func (app *App) RegisterRoute(moduleName, route string, invar sdk.Invariant) {
	app.invariants = append(app.invariants, invariantRoute{module: moduleName, route: route, check: invar})
}

// InvariantRoutes lists the registered invariants as module/route.
func (app *App) InvariantRoutes() []string {
	routes := make([]string, 0, len(app.invariants))
	for _, inv := range app.invariants {
		routes = append(routes, inv.module+"/"+inv.route)
	}
	return routes
}

// CheckInvariants runs the registered invariants against the current state
// and returns the first violation.
func (app *App) CheckInvariants() (string, bool) {
	var (
		msg    string
		broken bool
	)
	_ = app.Query(func(ctx sdk.Context) error {
		for _, inv := range app.invariants {
			if msg, broken = inv.check(ctx); broken {
				return nil
			}
		}
		return nil
	})
	return msg, broken
}

// Stats counts the tokens and pairs in the current state.
func (app *App) Stats() (map[string]uint64, error) {
	stats := map[string]uint64{"height": uint64(app.Header().Height)}
	err := app.Query(func(ctx sdk.Context) error {
		var tokens uint64
		if err := app.ERC20Keeper.IterateTokens(ctx, func(common.Address, erc20types.TokenMetadata) bool {
			tokens++
			return false
		}); err != nil {
			return err
		}
		stats["tokens"] = tokens
		stats["pairs"] = app.AMMKeeper.AllPairsLength(ctx)
		return nil
	})
	return stats, err
}

// Close flushes pending spans and releases the database.
func (app *App) Close() error {
	if app.telemetry != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.telemetry.Shutdown(ctx); err != nil {
			app.logger.Error("telemetry shutdown failed", "error", err)
		}
	}
	return app.db.Close()
}
