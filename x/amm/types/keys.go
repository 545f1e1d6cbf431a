package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"
)

const (
	// ModuleName defines the module name
	ModuleName = "amm"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName
)

// Store key prefixes
var (
	PairKey          = []byte{0x01} // prefix for pair state by pair address
	PairByTokensKey  = []byte{0x02} // prefix for pair lookup by token pair (both orderings)
	AllPairsKey      = []byte{0x03} // prefix for pairs by creation index
	AllPairsCountKey = []byte{0x04} // key for number of pairs
	FeeToKey         = []byte{0x05} // key for protocol fee recipient
	FeeToSetterKey   = []byte{0x06} // key for the fee-setter role
	ParamsKey        = []byte{0x07} // key for module parameters
	PairLockKey      = []byte{0x08} // prefix for per-pair reentrancy locks
	FactoryKey       = []byte{0x09} // key for the factory address
)

// GetPairKey returns the store key for a pair's state
func GetPairKey(pair common.Address) []byte {
	return append(append([]byte{}, PairKey...), pair.Bytes()...)
}

// GetPairByTokensKey returns the store key for pair lookup by an ordered token pair
func GetPairByTokensKey(tokenA, tokenB common.Address) []byte {
	key := append(append([]byte{}, PairByTokensKey...), tokenA.Bytes()...)
	return append(key, tokenB.Bytes()...)
}

// GetAllPairsKey returns the store key for the pair created at index
func GetAllPairsKey(index uint64) []byte {
	return append(append([]byte{}, AllPairsKey...), sdk.Uint64ToBigEndian(index)...)
}

// GetPairLockKey returns the store key of a pair's reentrancy lock
func GetPairLockKey(pair common.Address) []byte {
	return append(append([]byte{}, PairLockKey...), pair.Bytes()...)
}
