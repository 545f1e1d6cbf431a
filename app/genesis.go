package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"

	ammtypes "github.com/paw-chain/swapcore/x/amm/types"
	erc20types "github.com/paw-chain/swapcore/x/erc20/types"
)

// GenesisState of the blockchain is represented here as a map of raw json
// messages key'd by an identifier string.
type GenesisState map[string]json.RawMessage

// GenesisDoc is the on-disk genesis file.
type GenesisDoc struct {
	ChainID     uint64       `json:"chain_id,string"`
	GenesisTime time.Time    `json:"genesis_time"`
	AppState    GenesisState `json:"app_state"`
}

// NewDefaultGenesisState generates the default state for the application,
// with a factory deployed by feeToSetter.
func NewDefaultGenesisState(feeToSetter common.Address) GenesisState {
	return GenesisState{
		erc20types.ModuleName: mustMarshalJSON(erc20types.DefaultGenesis()),
		ammtypes.ModuleName:   mustMarshalJSON(ammtypes.DefaultGenesis(feeToSetter)),
	}
}

// NewGenesisDoc returns a genesis document with the default state.
func NewGenesisDoc(chainID uint64, genesisTime time.Time, feeToSetter common.Address) GenesisDoc {
	return GenesisDoc{
		ChainID:     chainID,
		GenesisTime: genesisTime.UTC().Truncate(time.Second),
		AppState:    NewDefaultGenesisState(feeToSetter),
	}
}

// Validate decodes and validates every module section.
func (gs GenesisState) Validate() error {
	if _, err := gs.erc20(); err != nil {
		return err
	}
	_, err := gs.amm()
	return err
}

func (gs GenesisState) erc20() (*erc20types.GenesisState, error) {
	state := erc20types.DefaultGenesis()
	if raw, ok := gs[erc20types.ModuleName]; ok {
		if err := json.Unmarshal(raw, state); err != nil {
			return nil, fmt.Errorf("failed to decode %s genesis: %w", erc20types.ModuleName, err)
		}
	}
	if err := state.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s genesis: %w", erc20types.ModuleName, err)
	}
	return state, nil
}

func (gs GenesisState) amm() (*ammtypes.GenesisState, error) {
	raw, ok := gs[ammtypes.ModuleName]
	if !ok {
		return nil, fmt.Errorf("missing %s genesis", ammtypes.ModuleName)
	}
	var state ammtypes.GenesisState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("failed to decode %s genesis: %w", ammtypes.ModuleName, err)
	}
	if err := state.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s genesis: %w", ammtypes.ModuleName, err)
	}
	return &state, nil
}

// initGenesis loads the token ledger before the pairs that reference it.
func (app *App) initGenesis(ctx sdk.Context, gs GenesisState) error {
	erc20State, err := gs.erc20()
	if err != nil {
		return err
	}
	ammState, err := gs.amm()
	if err != nil {
		return err
	}
	if err := app.ERC20Keeper.InitGenesis(ctx, *erc20State); err != nil {
		return err
	}
	return app.AMMKeeper.InitGenesis(ctx, *ammState)
}

func (app *App) exportGenesis(ctx sdk.Context) (GenesisState, error) {
	erc20State, err := app.ERC20Keeper.ExportGenesis(ctx)
	if err != nil {
		return nil, err
	}
	ammState, err := app.AMMKeeper.ExportGenesis(ctx)
	if err != nil {
		return nil, err
	}
	return GenesisState{
		erc20types.ModuleName: mustMarshalJSON(erc20State),
		ammtypes.ModuleName:   mustMarshalJSON(ammState),
	}, nil
}

// LoadGenesisDoc reads a genesis document from path.
func LoadGenesisDoc(path string) (GenesisDoc, error) {
	var doc GenesisDoc
	bz, err := os.ReadFile(path)
	if err != nil {
		return doc, fmt.Errorf("failed to read genesis file: %w", err)
	}
	if err := json.Unmarshal(bz, &doc); err != nil {
		return doc, fmt.Errorf("failed to decode genesis file: %w", err)
	}
	return doc, doc.AppState.Validate()
}

// SaveGenesisDoc writes doc to path as indented json.
func SaveGenesisDoc(path string, doc GenesisDoc) error {
	bz, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, bz, 0o644)
}

func mustMarshalJSON(v interface{}) json.RawMessage {
	bz, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return bz
}
