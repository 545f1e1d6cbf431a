package types

import (
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"
)

const (
	// FeeDenominator is the scale of SwapFee: fees are expressed in thousandths.
	FeeDenominator uint64 = 1000

	// DefaultSwapFee is a 0.3% swap fee.
	DefaultSwapFee uint64 = 3
)

// Params defines the parameters of the amm module.
type Params struct {
	// SwapFee is the fee taken from swap inputs, in thousandths.
	SwapFee uint64 `json:"swap_fee"`
}

// DefaultParams returns default module parameters.
func DefaultParams() Params {
	return Params{SwapFee: DefaultSwapFee}
}

// Validate performs basic validation of module parameters.
func (p Params) Validate() error {
	if p.SwapFee >= FeeDenominator {
		return ErrInvalidParams.Wrapf("swap fee %d must be below %d", p.SwapFee, FeeDenominator)
	}
	return nil
}

// MarshalParams encodes params for the store.
func MarshalParams(p Params) ([]byte, error) {
	bz, err := rlp.EncodeToBytes(&p)
	if err != nil {
		return nil, fmt.Errorf("encode params: %w", err)
	}
	return bz, nil
}

// UnmarshalParams decodes params written by MarshalParams.
func UnmarshalParams(bz []byte) (Params, error) {
	var p Params
	if err := rlp.DecodeBytes(bz, &p); err != nil {
		return Params{}, fmt.Errorf("decode params: %w", err)
	}
	return p, nil
}
