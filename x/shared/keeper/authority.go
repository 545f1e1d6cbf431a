// Package keeper provides shared keeper utilities used by the swapcore modules.
package keeper

import (
	errorsmod "cosmossdk.io/errors"
	"github.com/ethereum/go-ethereum/common"
)

// ValidateAuthority checks that the caller of a privileged operation is the
// address currently holding the role. The module supplies the error it
// registers for access violations.
//
// Usage example:
//
//	if err := sharedkeeper.ValidateAuthority(k.FeeToSetter(ctx), sender, types.ErrAccessDenied); err != nil {
//	    return err
//	}
func ValidateAuthority(expected, actual common.Address, denied *errorsmod.Error) error {
	if expected != actual {
		return denied.Wrapf(
			"invalid authority; expected %s, got %s",
			expected.Hex(),
			actual.Hex(),
		)
	}
	return nil
}
