package types

import (
	"bytes"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// InitCodePairHash is the fixed pair-code hash mixed into every pair address.
var InitCodePairHash = common.HexToHash("0x0a44d25bd998b8cce3bec356e00044787b55feabe1b89cb62eba44ef25855128")

// SortTokens returns the two token addresses in canonical (ascending) order.
func SortTokens(tokenA, tokenB common.Address) (token0, token1 common.Address, err error) {
	if tokenA == tokenB {
		return common.Address{}, common.Address{}, ErrIdenticalAddress.Wrapf("%s", tokenA.Hex())
	}
	token0, token1 = tokenA, tokenB
	if bytes.Compare(tokenA.Bytes(), tokenB.Bytes()) > 0 {
		token0, token1 = tokenB, tokenA
	}
	if token0 == (common.Address{}) {
		return common.Address{}, common.Address{}, ErrZeroAddress
	}
	return token0, token1, nil
}

// PairSalt is keccak256(token0 ‖ token1) for a canonical token pair.
func PairSalt(token0, token1 common.Address) common.Hash {
	return crypto.Keccak256Hash(token0.Bytes(), token1.Bytes())
}

// PairFor computes the address of the pair for two tokens without touching
// state: keccak256(0xff ‖ factory ‖ salt ‖ initCodeHash)[12:].
func PairFor(factory, tokenA, tokenB common.Address) (common.Address, error) {
	token0, token1, err := SortTokens(tokenA, tokenB)
	if err != nil {
		return common.Address{}, err
	}
	salt := PairSalt(token0, token1)
	return crypto.CreateAddress2(factory, salt, InitCodePairHash.Bytes()), nil
}

// FactoryAddressFor returns the address a factory deployed by deployer as
// its first contract receives.
func FactoryAddressFor(deployer common.Address) common.Address {
	return crypto.CreateAddress(deployer, 0)
}
