package types

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// GenesisState defines the amm module's genesis state.
type GenesisState struct {
	Params      Params         `json:"params"`
	Factory     common.Address `json:"factory"`
	FeeTo       common.Address `json:"fee_to"`
	FeeToSetter common.Address `json:"fee_to_setter"`
	// Pairs are listed in creation order.
	Pairs []GenesisPair `json:"pairs"`
}

// GenesisPair is the exported state of one pair.
type GenesisPair struct {
	Address              common.Address `json:"address"`
	Token0               common.Address `json:"token0"`
	Token1               common.Address `json:"token1"`
	Reserve0             string         `json:"reserve0"`
	Reserve1             string         `json:"reserve1"`
	BlockTimestampLast   uint32         `json:"block_timestamp_last"`
	Price0CumulativeLast string         `json:"price0_cumulative_last"`
	Price1CumulativeLast string         `json:"price1_cumulative_last"`
	KLast                string         `json:"k_last"`
}

// DefaultGenesis returns the default amm genesis state for a factory
// deployed by feeToSetter.
func DefaultGenesis(feeToSetter common.Address) *GenesisState {
	return &GenesisState{
		Params:      DefaultParams(),
		Factory:     FactoryAddressFor(feeToSetter),
		FeeToSetter: feeToSetter,
		Pairs:       []GenesisPair{},
	}
}

// Validate performs basic genesis state validation.
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return err
	}
	if gs.Factory == (common.Address{}) {
		return ErrInvalidGenesis.Wrap("factory address cannot be zero")
	}

	seen := make(map[common.Address]bool, len(gs.Pairs))
	tokens := make(map[[2]common.Address]bool, len(gs.Pairs))
	for _, gp := range gs.Pairs {
		p, err := gp.ToPair(gs.Factory)
		if err != nil {
			return err
		}
		if err := p.Validate(); err != nil {
			return ErrInvalidGenesis.Wrap(err.Error())
		}
		want, err := PairFor(gs.Factory, p.Token0, p.Token1)
		if err != nil {
			return err
		}
		if want != p.Address {
			return ErrInvalidGenesis.Wrapf("pair %s does not match derived address %s", p.Address.Hex(), want.Hex())
		}
		if seen[p.Address] || tokens[[2]common.Address{p.Token0, p.Token1}] {
			return ErrInvalidGenesis.Wrapf("duplicate pair %s", p.Address.Hex())
		}
		seen[p.Address] = true
		tokens[[2]common.Address{p.Token0, p.Token1}] = true
	}
	return nil
}

// NewGenesisPair exports pair state.
func NewGenesisPair(p Pair) GenesisPair {
	return GenesisPair{
		Address:              p.Address,
		Token0:               p.Token0,
		Token1:               p.Token1,
		Reserve0:             p.Reserve0.Dec(),
		Reserve1:             p.Reserve1.Dec(),
		BlockTimestampLast:   p.BlockTimestampLast,
		Price0CumulativeLast: p.Price0CumulativeLast.Dec(),
		Price1CumulativeLast: p.Price1CumulativeLast.Dec(),
		KLast:                p.KLast.Dec(),
	}
}

// ToPair converts exported pair state back into a Pair owned by factory.
func (gp GenesisPair) ToPair(factory common.Address) (Pair, error) {
	p := NewPair(gp.Address, factory, gp.Token0, gp.Token1)
	p.BlockTimestampLast = gp.BlockTimestampLast

	var err error
	if p.Reserve0, err = parseAmount(gp.Reserve0); err != nil {
		return Pair{}, err
	}
	if p.Reserve1, err = parseAmount(gp.Reserve1); err != nil {
		return Pair{}, err
	}
	if p.Price0CumulativeLast, err = parseAmount(gp.Price0CumulativeLast); err != nil {
		return Pair{}, err
	}
	if p.Price1CumulativeLast, err = parseAmount(gp.Price1CumulativeLast); err != nil {
		return Pair{}, err
	}
	if p.KLast, err = parseAmount(gp.KLast); err != nil {
		return Pair{}, err
	}
	return p, nil
}

// parseAmount parses a decimal amount; an empty string is zero.
func parseAmount(s string) (*uint256.Int, error) {
	if s == "" {
		return new(uint256.Int), nil
	}
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, ErrInvalidGenesis.Wrapf("invalid amount %q: %s", s, err)
	}
	return v, nil
}
