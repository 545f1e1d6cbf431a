package types

import (
	"github.com/ethereum/go-ethereum/common"
)

const (
	// ModuleName defines the module name
	ModuleName = "erc20"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// PermitNonceScope names the nonce manager scope for signed approvals
	PermitNonceScope = "permit"

	// DeployNonceScope names the nonce manager scope for token deployments
	DeployNonceScope = "deploy"
)

// Store key prefixes
var (
	TokenKey       = []byte{0x01} // prefix for token metadata
	BalanceKey     = []byte{0x02} // prefix for account balances
	AllowanceKey   = []byte{0x03} // prefix for owner/spender allowances
	TotalSupplyKey = []byte{0x04} // prefix for token total supply
	ChainIDKey     = []byte{0x05} // chain id the ledger was initialized with
)

// GetTokenKey returns the store key for a token's metadata
func GetTokenKey(token common.Address) []byte {
	return append(append([]byte{}, TokenKey...), token.Bytes()...)
}

// GetBalancePrefix returns the prefix under which every balance of a token is stored
func GetBalancePrefix(token common.Address) []byte {
	return append(append([]byte{}, BalanceKey...), token.Bytes()...)
}

// GetBalanceKey returns the store key for an account balance
func GetBalanceKey(token, account common.Address) []byte {
	return append(GetBalancePrefix(token), account.Bytes()...)
}

// GetAllowancePrefix returns the prefix under which every allowance of a token is stored
func GetAllowancePrefix(token common.Address) []byte {
	return append(append([]byte{}, AllowanceKey...), token.Bytes()...)
}

// GetAllowanceKey returns the store key for an owner/spender allowance
func GetAllowanceKey(token, owner, spender common.Address) []byte {
	key := append(GetAllowancePrefix(token), owner.Bytes()...)
	return append(key, spender.Bytes()...)
}

// GetTotalSupplyKey returns the store key for a token's total supply
func GetTotalSupplyKey(token common.Address) []byte {
	return append(append([]byte{}, TotalSupplyKey...), token.Bytes()...)
}

// PermitNonceID returns the nonce manager identifier for an owner of a token
func PermitNonceID(token, owner common.Address) []byte {
	return append(append([]byte{}, token.Bytes()...), owner.Bytes()...)
}
