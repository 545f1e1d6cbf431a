package keeper_test

import (
	"testing"

	errorsmod "cosmossdk.io/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/swapcore/x/shared/keeper"
)

var errDenied = errorsmod.Register("sharedtest", 2, "access denied")

func TestValidateAuthority(t *testing.T) {
	setter := common.HexToAddress("0x1000000000000000000000000000000000000001")
	other := common.HexToAddress("0x2000000000000000000000000000000000000002")

	tests := []struct {
		name     string
		expected common.Address
		actual   common.Address
		wantErr  bool
	}{
		{name: "valid authority match", expected: setter, actual: setter},
		{name: "authority mismatch", expected: setter, actual: other, wantErr: true},
		{name: "zero caller", expected: setter, actual: common.Address{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := keeper.ValidateAuthority(tt.expected, tt.actual, errDenied)
			if tt.wantErr {
				require.ErrorIs(t, err, errDenied)
				require.Contains(t, err.Error(), tt.actual.Hex())
				return
			}
			require.NoError(t, err)
		})
	}
}
