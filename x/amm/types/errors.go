package types

import (
	"cosmossdk.io/errors"
)

// AMM module sentinel errors
var (
	ErrAccessDenied                = errors.Register(ModuleName, 1, "access denied")
	ErrIdenticalAddress            = errors.Register(ModuleName, 2, "identical addresses")
	ErrZeroAddress                 = errors.Register(ModuleName, 3, "zero address")
	ErrPairExists                  = errors.Register(ModuleName, 4, "pair exists")
	ErrInsufficientLiquidityMinted = errors.Register(ModuleName, 5, "insufficient liquidity minted")
	ErrInsufficientLiquidityBurned = errors.Register(ModuleName, 6, "insufficient liquidity burned")
	ErrInsufficientLiquidity       = errors.Register(ModuleName, 7, "insufficient liquidity")
	ErrInvalidRecipient            = errors.Register(ModuleName, 8, "invalid recipient")
	ErrInvariantViolation          = errors.Register(ModuleName, 9, "constant product invariant violated")
	ErrReentrant                   = errors.Register(ModuleName, 10, "reentrant call")
	ErrOverflow                    = errors.Register(ModuleName, 11, "arithmetic overflow")
	ErrPairNotFound                = errors.Register(ModuleName, 12, "pair not found")
	ErrInvalidCallee               = errors.Register(ModuleName, 13, "invalid swap callee")
	ErrInvalidParams               = errors.Register(ModuleName, 14, "invalid parameters")
	ErrInvalidGenesis              = errors.Register(ModuleName, 15, "invalid genesis state")
)
