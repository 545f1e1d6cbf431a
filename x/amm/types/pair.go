package types

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
)

// MinimumLiquidity is the number of shares locked at the zero address by the
// first mint of every pair.
var MinimumLiquidity = uint256.NewInt(1000)

// Pair is the persistent state of one pair. The pair's address also
// identifies its LP token in the ledger.
type Pair struct {
	Address              common.Address
	Factory              common.Address
	Token0               common.Address
	Token1               common.Address
	Reserve0             *uint256.Int
	Reserve1             *uint256.Int
	BlockTimestampLast   uint32
	Price0CumulativeLast *uint256.Int
	Price1CumulativeLast *uint256.Int
	KLast                *uint256.Int
}

// NewPair returns the initial state of a pair for a canonical token pair.
func NewPair(addr, factory, token0, token1 common.Address) Pair {
	return Pair{
		Address:              addr,
		Factory:              factory,
		Token0:               token0,
		Token1:               token1,
		Reserve0:             new(uint256.Int),
		Reserve1:             new(uint256.Int),
		Price0CumulativeLast: new(uint256.Int),
		Price1CumulativeLast: new(uint256.Int),
		KLast:                new(uint256.Int),
	}
}

// Validate performs basic validation of pair state.
func (p Pair) Validate() error {
	if p.Address == (common.Address{}) {
		return fmt.Errorf("pair address cannot be zero")
	}
	if _, _, err := SortTokens(p.Token0, p.Token1); err != nil {
		return err
	}
	if p.Token0.Cmp(p.Token1) >= 0 {
		return fmt.Errorf("pair %s tokens are not in canonical order", p.Address.Hex())
	}
	for _, v := range []*uint256.Int{p.Reserve0, p.Reserve1, p.Price0CumulativeLast, p.Price1CumulativeLast, p.KLast} {
		if v == nil {
			return fmt.Errorf("pair %s has unset amounts", p.Address.Hex())
		}
	}
	if p.Reserve0.Gt(MaxUint112) || p.Reserve1.Gt(MaxUint112) {
		return fmt.Errorf("pair %s reserves exceed uint112", p.Address.Hex())
	}
	return nil
}

// MarshalPair encodes pair state for the store.
func MarshalPair(p Pair) ([]byte, error) {
	bz, err := rlp.EncodeToBytes(&p)
	if err != nil {
		return nil, fmt.Errorf("encode pair: %w", err)
	}
	return bz, nil
}

// UnmarshalPair decodes pair state written by MarshalPair.
func UnmarshalPair(bz []byte) (Pair, error) {
	var p Pair
	if err := rlp.DecodeBytes(bz, &p); err != nil {
		return Pair{}, fmt.Errorf("decode pair: %w", err)
	}
	return p, nil
}
