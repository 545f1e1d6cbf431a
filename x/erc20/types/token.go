package types

import (
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
)

const (
	// DefaultDecimals is the number of decimals reported by tokens that do not set one.
	DefaultDecimals uint8 = 18

	// MaxTransferBurnBps caps the fee-on-transfer rate of a token (100%).
	MaxTransferBurnBps uint32 = 10_000

	// LPTokenName, LPTokenSymbol and LPTokenDecimals describe every pair's share token.
	LPTokenName     = "SyncSwap LP Token"
	LPTokenSymbol   = "SLP"
	LPTokenDecimals = DefaultDecimals

	// PermitVersion is the version field of every permit signing domain.
	PermitVersion = "1"
)

// MaxAmount is the largest representable amount. An allowance equal to it is
// never decremented by TransferFrom.
var MaxAmount = new(uint256.Int).SetAllOne()

// TokenMetadata describes one token instance held by the ledger.
type TokenMetadata struct {
	Name     string
	Symbol   string
	Decimals uint8
	// TransferBurnBps is the share of every transfer, in basis points, burned
	// from the sender instead of being delivered. Zero for ordinary tokens.
	TransferBurnBps uint32
}

// NewLPTokenMetadata returns the metadata registered for a pair's share token.
func NewLPTokenMetadata() TokenMetadata {
	return TokenMetadata{
		Name:     LPTokenName,
		Symbol:   LPTokenSymbol,
		Decimals: LPTokenDecimals,
	}
}

// Validate performs basic validation of token metadata.
func (m TokenMetadata) Validate() error {
	if m.TransferBurnBps > MaxTransferBurnBps {
		return ErrInvalidMetadata.Wrapf("transfer burn %d bps exceeds %d", m.TransferBurnBps, MaxTransferBurnBps)
	}
	if len(m.Name) > 128 || len(m.Symbol) > 32 {
		return ErrInvalidMetadata.Wrap("name or symbol too long")
	}
	return nil
}

// BurnOnTransfer returns the part of value destroyed when it is transferred.
func (m TokenMetadata) BurnOnTransfer(value *uint256.Int) *uint256.Int {
	if m.TransferBurnBps == 0 {
		return new(uint256.Int)
	}
	// divide first when value*bps does not fit
	burn, overflow := new(uint256.Int).MulOverflow(value, uint256.NewInt(uint64(m.TransferBurnBps)))
	if overflow {
		burn = new(uint256.Int).Div(value, uint256.NewInt(uint64(MaxTransferBurnBps)))
		return burn.Mul(burn, uint256.NewInt(uint64(m.TransferBurnBps)))
	}
	return burn.Div(burn, uint256.NewInt(uint64(MaxTransferBurnBps)))
}

// MarshalTokenMetadata encodes metadata for the store.
func MarshalTokenMetadata(m TokenMetadata) ([]byte, error) {
	bz, err := rlp.EncodeToBytes(&m)
	if err != nil {
		return nil, fmt.Errorf("encode token metadata: %w", err)
	}
	return bz, nil
}

// UnmarshalTokenMetadata decodes metadata written by MarshalTokenMetadata.
func UnmarshalTokenMetadata(bz []byte) (TokenMetadata, error) {
	var m TokenMetadata
	if err := rlp.DecodeBytes(bz, &m); err != nil {
		return TokenMetadata{}, fmt.Errorf("decode token metadata: %w", err)
	}
	return m, nil
}
