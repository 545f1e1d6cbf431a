package types

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Signature is a secp256k1 signature in split form. V is the recovery
// indicator, accepted as 27/28 or 0/1.
type Signature struct {
	V uint8
	R [32]byte
	S [32]byte
}

// NewSignature builds a split signature.
func NewSignature(v uint8, r, s [32]byte) Signature {
	return Signature{V: v, R: r, S: s}
}

// SignatureFromBytes decodes a packed 65-byte signature laid out as r ‖ s ‖ v.
func SignatureFromBytes(sig []byte) (Signature, error) {
	if len(sig) != crypto.SignatureLength {
		return Signature{}, ErrInvalidSignature.Wrapf("packed signature must be %d bytes, got %d", crypto.SignatureLength, len(sig))
	}
	var out Signature
	copy(out.R[:], sig[:32])
	copy(out.S[:], sig[32:64])
	out.V = sig[64]
	return out, nil
}

// Bytes returns the packed r ‖ s ‖ v encoding with v in 27/28 form.
func (s Signature) Bytes() []byte {
	out := make([]byte, 0, crypto.SignatureLength)
	out = append(out, s.R[:]...)
	out = append(out, s.S[:]...)
	v := s.V
	if v < 27 {
		v += 27
	}
	return append(out, v)
}

// Recover returns the address that produced the signature over digest.
// Malleable (high-s) signatures and out-of-range values are rejected.
func (s Signature) Recover(digest common.Hash) (common.Address, error) {
	v := s.V
	if v >= 27 {
		v -= 27
	}
	if v > 1 {
		return common.Address{}, ErrInvalidSignature.Wrapf("invalid recovery id %d", s.V)
	}

	r := new(big.Int).SetBytes(s.R[:])
	sv := new(big.Int).SetBytes(s.S[:])
	if !crypto.ValidateSignatureValues(v, r, sv, true) {
		return common.Address{}, ErrInvalidSignature.Wrap("signature values out of range")
	}

	sig := make([]byte, crypto.SignatureLength)
	copy(sig[:32], s.R[:])
	copy(sig[32:64], s.S[:])
	sig[64] = v

	pub, err := crypto.SigToPub(digest.Bytes(), sig)
	if err != nil {
		return common.Address{}, ErrInvalidSignature.Wrap(err.Error())
	}
	signer := crypto.PubkeyToAddress(*pub)
	if signer == (common.Address{}) {
		return common.Address{}, ErrInvalidSignature.Wrap("recovered zero address")
	}
	return signer, nil
}
