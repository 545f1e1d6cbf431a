package types

import (
	"cosmossdk.io/errors"
)

// ERC20 module sentinel errors
var (
	ErrTokenNotFound         = errors.Register(ModuleName, 1, "token not found")
	ErrTokenExists           = errors.Register(ModuleName, 2, "token already exists")
	ErrInvalidMetadata       = errors.Register(ModuleName, 3, "invalid token metadata")
	ErrInsufficientBalance   = errors.Register(ModuleName, 4, "insufficient balance")
	ErrInsufficientAllowance = errors.Register(ModuleName, 5, "insufficient allowance")
	ErrExpiredSignature      = errors.Register(ModuleName, 6, "expired signature")
	ErrInvalidSignature      = errors.Register(ModuleName, 7, "invalid signature")
	ErrOverflow              = errors.Register(ModuleName, 8, "arithmetic overflow")
	ErrInvalidSender         = errors.Register(ModuleName, 9, "invalid sender")
	ErrInvalidGenesis        = errors.Register(ModuleName, 10, "invalid genesis state")
)

// NonceErrorProvider maps nonce manager failures onto module errors.
type NonceErrorProvider struct{}

// NonceOverflowError implements nonce.ErrorProvider.
func (NonceErrorProvider) NonceOverflowError(msg string) error {
	return ErrOverflow.Wrap(msg)
}
