package types

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	gethmath "github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/holiman/uint256"
)

const (
	domainTypeName = "EIP712Domain"
	permitTypeName = "Permit"
)

var (
	// PermitTypes are the EIP-712 types of a permit and its signing domain.
	PermitTypes = apitypes.Types{
		domainTypeName: {
			{Name: "name", Type: "string"},
			{Name: "version", Type: "string"},
			{Name: "chainId", Type: "uint256"},
			{Name: "verifyingContract", Type: "address"},
		},
		permitTypeName: {
			{Name: "owner", Type: "address"},
			{Name: "spender", Type: "address"},
			{Name: "value", Type: "uint256"},
			{Name: "nonce", Type: "uint256"},
			{Name: "deadline", Type: "uint256"},
		},
	}

	// DomainTypeHash is keccak256 of the EIP-712 domain type string.
	DomainTypeHash = typeHash(domainTypeName)

	// PermitTypeHash is keccak256 of the permit struct type string.
	PermitTypeHash = typeHash(permitTypeName)
)

func typeHash(name string) common.Hash {
	td := apitypes.TypedData{Types: PermitTypes}
	return common.BytesToHash(td.TypeHash(name))
}

// Permit holds the structured fields bound by a permit signature.
type Permit struct {
	Owner    common.Address
	Spender  common.Address
	Value    *uint256.Int
	Nonce    uint64
	Deadline *uint256.Int
}

// PermitDomain is the signing domain of a token: its name, the permit
// version, the chain identifier and the token address.
func PermitDomain(name string, chainID *big.Int, token common.Address) apitypes.TypedDataDomain {
	return apitypes.TypedDataDomain{
		Name:              name,
		Version:           PermitVersion,
		ChainId:           (*gethmath.HexOrDecimal256)(new(big.Int).Set(chainID)),
		VerifyingContract: token.Hex(),
	}
}

// DomainSeparator computes the hashStruct of the token's signing domain.
func DomainSeparator(name string, chainID *big.Int, token common.Address) (common.Hash, error) {
	domain := PermitDomain(name, chainID, token)
	td := apitypes.TypedData{Types: PermitTypes, Domain: domain}
	// Domain.Map drops empty fields; an empty name is still hashed.
	hash, err := td.HashStruct(domainTypeName, apitypes.TypedDataMessage{
		"name":              domain.Name,
		"version":           domain.Version,
		"chainId":           domain.ChainId,
		"verifyingContract": domain.VerifyingContract,
	})
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to hash permit domain: %w", err)
	}
	return common.BytesToHash(hash), nil
}

// Message returns the permit fields as an EIP-712 message.
func (p Permit) Message() apitypes.TypedDataMessage {
	return apitypes.TypedDataMessage{
		"owner":    p.Owner.Hex(),
		"spender":  p.Spender.Hex(),
		"value":    p.Value.ToBig(),
		"nonce":    new(big.Int).SetUint64(p.Nonce),
		"deadline": p.Deadline.ToBig(),
	}
}

// TypedData returns the permit as an eth_signTypedData document for domain.
func (p Permit) TypedData(domain apitypes.TypedDataDomain) apitypes.TypedData {
	return apitypes.TypedData{
		Types:       PermitTypes,
		PrimaryType: permitTypeName,
		Domain:      domain,
		Message:     p.Message(),
	}
}

// StructHash is the hashStruct of the permit fields.
func (p Permit) StructHash() (common.Hash, error) {
	// HashStruct requires a non-empty domain that it does not hash.
	td := p.TypedData(apitypes.TypedDataDomain{Version: PermitVersion})
	hash, err := td.HashStruct(permitTypeName, td.Message)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to hash permit: %w", err)
	}
	return common.BytesToHash(hash), nil
}

// Digest returns the EIP-712 message digest that the owner signs.
func (p Permit) Digest(domainSeparator common.Hash) (common.Hash, error) {
	structHash, err := p.StructHash()
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Keccak256Hash(
		[]byte{0x19, 0x01},
		domainSeparator.Bytes(),
		structHash.Bytes(),
	), nil
}
