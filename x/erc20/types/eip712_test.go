package types_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/swapcore/x/erc20/types"
)

func mustType(t *testing.T, name string) abi.Type {
	t.Helper()
	typ, err := abi.NewType(name, "", nil)
	require.NoError(t, err)
	return typ
}

func TestPermitTypeHash(t *testing.T) {
	require.Equal(t,
		common.HexToHash("0x6e71edae12b1b97f4d1f60370fef10105fa2faae0126114a169c64845d6126c9"),
		types.PermitTypeHash,
	)
}

func TestDomainSeparatorMatchesABIEncoding(t *testing.T) {
	token := common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	chainID := big.NewInt(280)

	args := abi.Arguments{
		{Type: mustType(t, "bytes32")},
		{Type: mustType(t, "bytes32")},
		{Type: mustType(t, "bytes32")},
		{Type: mustType(t, "uint256")},
		{Type: mustType(t, "address")},
	}
	encoded, err := args.Pack(
		[32]byte(types.DomainTypeHash),
		[32]byte(crypto.Keccak256Hash([]byte(types.LPTokenName))),
		[32]byte(crypto.Keccak256Hash([]byte("1"))),
		chainID,
		token,
	)
	require.NoError(t, err)

	separator, err := types.DomainSeparator(types.LPTokenName, chainID, token)
	require.NoError(t, err)
	require.Equal(t, crypto.Keccak256Hash(encoded), separator)
}

func TestDomainTypeHash(t *testing.T) {
	require.Equal(t,
		crypto.Keccak256Hash([]byte("EIP712Domain(string name,string version,uint256 chainId,address verifyingContract)")),
		types.DomainTypeHash,
	)
}

func TestPermitDigestMatchesABIEncoding(t *testing.T) {
	permit := types.Permit{
		Owner:    common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"),
		Spender:  common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8"),
		Value:    uint256.MustFromDecimal("10000000000000000000"),
		Nonce:    7,
		Deadline: types.MaxAmount,
	}

	args := abi.Arguments{
		{Type: mustType(t, "bytes32")},
		{Type: mustType(t, "address")},
		{Type: mustType(t, "address")},
		{Type: mustType(t, "uint256")},
		{Type: mustType(t, "uint256")},
		{Type: mustType(t, "uint256")},
	}
	encoded, err := args.Pack(
		[32]byte(types.PermitTypeHash),
		permit.Owner,
		permit.Spender,
		permit.Value.ToBig(),
		new(big.Int).SetUint64(permit.Nonce),
		permit.Deadline.ToBig(),
	)
	require.NoError(t, err)
	structHash, err := permit.StructHash()
	require.NoError(t, err)
	require.Equal(t, crypto.Keccak256Hash(encoded), structHash)

	domain, err := types.DomainSeparator("Token", big.NewInt(1), common.HexToAddress("0x01"))
	require.NoError(t, err)
	want := crypto.Keccak256Hash(append(append([]byte{0x19, 0x01}, domain.Bytes()...), structHash.Bytes()...))
	digest, err := permit.Digest(domain)
	require.NoError(t, err)
	require.Equal(t, want, digest)
}

func TestPermitDigestMatchesSignTypedData(t *testing.T) {
	token := common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	chainID := big.NewInt(280)
	permit := types.Permit{
		Owner:    common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"),
		Spender:  common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8"),
		Value:    uint256.NewInt(1_000),
		Nonce:    0,
		Deadline: uint256.NewInt(1_800_000_000),
	}

	// the full document a wallet signs with eth_signTypedData_v4
	want, _, err := apitypes.TypedDataAndHash(permit.TypedData(types.PermitDomain(types.LPTokenName, chainID, token)))
	require.NoError(t, err)

	separator, err := types.DomainSeparator(types.LPTokenName, chainID, token)
	require.NoError(t, err)
	digest, err := permit.Digest(separator)
	require.NoError(t, err)
	require.Equal(t, common.BytesToHash(want), digest)
}

func TestPermitDomainDoesNotAliasChainID(t *testing.T) {
	chainID := big.NewInt(280)
	domain := types.PermitDomain("Token", chainID, common.HexToAddress("0x01"))
	chainID.SetInt64(1)
	require.Equal(t, int64(280), (*big.Int)(domain.ChainId).Int64())
}

func TestEmptyTokenNameStillHashes(t *testing.T) {
	_, err := types.DomainSeparator("", big.NewInt(280), common.HexToAddress("0x01"))
	require.NoError(t, err)
}
