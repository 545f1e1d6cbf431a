// Package nonce provides store-backed monotonic counters shared by modules
// that need replay protection (signed approvals) or deterministic address
// derivation (deployment nonces).
package nonce

import (
	"encoding/binary"
	"fmt"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

const (
	// KeyPrefix is the prefix for every counter written by a Manager.
	KeyPrefix = "nonce"

	// MaxNonceValue is the largest value a counter can hold.
	MaxNonceValue = ^uint64(0)
)

// ErrorProvider allows modules to provide their own error types while using shared nonce logic.
type ErrorProvider interface {
	// NonceOverflowError returns an error for a counter that cannot be incremented further.
	NonceOverflowError(msg string) error
}

// Manager tracks one counter per identifier inside a named scope. Identifiers
// are opaque byte strings chosen by the caller (an owner address, or a
// token address followed by an owner address).
type Manager struct {
	storeKey      storetypes.StoreKey
	errorProvider ErrorProvider
	scope         string
}

// NewManager creates a new nonce manager for a module.
// storeKey: the module's store key for persistence
// errorProvider: module-specific error type provider
// scope: namespace separating independent counter families in one store
func NewManager(storeKey storetypes.StoreKey, errorProvider ErrorProvider, scope string) *Manager {
	return &Manager{
		storeKey:      storeKey,
		errorProvider: errorProvider,
		scope:         scope,
	}
}

// encodeNonce encodes a uint64 nonce to bytes
func encodeNonce(n uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, n)
	return bz
}

// decodeNonce decodes bytes to a uint64 nonce
func decodeNonce(bz []byte) uint64 {
	if len(bz) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(bz)
}

func (m *Manager) scopePrefix() []byte {
	return []byte(fmt.Sprintf("%s/%s/", KeyPrefix, m.scope))
}

func (m *Manager) key(id []byte) []byte {
	prefix := m.scopePrefix()
	key := make([]byte, 0, len(prefix)+len(id))
	key = append(key, prefix...)
	return append(key, id...)
}

// Current returns the next unused value of the counter for id. Counters start at zero.
func (m *Manager) Current(ctx sdk.Context, id []byte) uint64 {
	return decodeNonce(ctx.KVStore(m.storeKey).Get(m.key(id)))
}

// Consume returns the current value for id and advances the counter by exactly one.
// A counter at MaxNonceValue cannot be consumed.
func (m *Manager) Consume(ctx sdk.Context, id []byte) (uint64, error) {
	current := m.Current(ctx, id)
	if current == MaxNonceValue {
		return 0, m.errorProvider.NonceOverflowError(fmt.Sprintf("%s counter exhausted", m.scope))
	}
	ctx.KVStore(m.storeKey).Set(m.key(id), encodeNonce(current+1))
	return current, nil
}

// Set overwrites the counter for id. It is used by genesis import only; a
// counter may never move backwards.
func (m *Manager) Set(ctx sdk.Context, id []byte, value uint64) error {
	if current := m.Current(ctx, id); value < current {
		return m.errorProvider.NonceOverflowError(fmt.Sprintf(
			"%s counter cannot decrease from %d to %d", m.scope, current, value))
	}
	ctx.KVStore(m.storeKey).Set(m.key(id), encodeNonce(value))
	return nil
}

// Iterate calls cb for every non-zero counter in the scope, in key order.
// Iteration stops when cb returns true.
func (m *Manager) Iterate(ctx sdk.Context, cb func(id []byte, value uint64) (stop bool)) {
	prefix := m.scopePrefix()
	iterator := storetypes.KVStorePrefixIterator(ctx.KVStore(m.storeKey), prefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		id := append([]byte(nil), iterator.Key()[len(prefix):]...)
		if cb(id, decodeNonce(iterator.Value())) {
			return
		}
	}
}
