package types_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/swapcore/x/erc20/types"
)

func TestSplitAndPackedSignaturesRecoverSameSigner(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	signer := crypto.PubkeyToAddress(key.PublicKey)
	digest := crypto.Keccak256Hash([]byte("permit digest"))

	raw, err := crypto.Sign(digest.Bytes(), key)
	require.NoError(t, err)

	packed, err := types.SignatureFromBytes(raw)
	require.NoError(t, err)
	got, err := packed.Recover(digest)
	require.NoError(t, err)
	require.Equal(t, signer, got)

	var r, s [32]byte
	copy(r[:], raw[:32])
	copy(s[:], raw[32:64])
	split := types.NewSignature(raw[64]+27, r, s)
	got, err = split.Recover(digest)
	require.NoError(t, err)
	require.Equal(t, signer, got)

	// Bytes normalizes v to 27/28 and still decodes to the same signer
	roundTrip, err := types.SignatureFromBytes(split.Bytes())
	require.NoError(t, err)
	got, err = roundTrip.Recover(digest)
	require.NoError(t, err)
	require.Equal(t, signer, got)
}

func TestSignatureRejectsMalformedInput(t *testing.T) {
	_, err := types.SignatureFromBytes(make([]byte, 64))
	require.ErrorIs(t, err, types.ErrInvalidSignature)

	digest := crypto.Keccak256Hash([]byte("digest"))
	var r, s [32]byte
	r[31], s[31] = 1, 1

	_, err = types.NewSignature(29, r, s).Recover(digest)
	require.ErrorIs(t, err, types.ErrInvalidSignature)

	_, err = types.NewSignature(27, [32]byte{}, s).Recover(digest)
	require.ErrorIs(t, err, types.ErrInvalidSignature)
}

func TestSignatureRejectsHighS(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	digest := crypto.Keccak256Hash([]byte("malleable"))

	raw, err := crypto.Sign(digest.Bytes(), key)
	require.NoError(t, err)

	// (r, n-s, v^1) is the malleated twin of a valid low-s signature
	n := crypto.S256().Params().N
	highS := new(big.Int).Sub(n, new(big.Int).SetBytes(raw[32:64]))

	var r, s [32]byte
	copy(r[:], raw[:32])
	highS.FillBytes(s[:])
	_, err = types.NewSignature((raw[64]^1)+27, r, s).Recover(digest)
	require.ErrorIs(t, err, types.ErrInvalidSignature)
}
