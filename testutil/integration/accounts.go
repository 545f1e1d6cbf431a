package integration

import (
	"crypto/ecdsa"
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	erc20types "github.com/paw-chain/swapcore/x/erc20/types"
)

// TestAccount represents a test account with a secp256k1 key
type TestAccount struct {
	Name    string
	PrivKey *ecdsa.PrivateKey
	Address common.Address
}

// NewTestAccount creates a test account whose key is derived from its name,
// so the same name always yields the same address.
func NewTestAccount(name string) *TestAccount {
	privKey, err := crypto.ToECDSA(crypto.Keccak256([]byte("swapcore-test-account:" + name)))
	if err != nil {
		panic(fmt.Sprintf("derive key for %s: %v", name, err))
	}
	return NewTestAccountWithKey(name, privKey)
}

// NewTestAccountWithKey creates a test account from an existing private key
func NewTestAccountWithKey(name string, privKey *ecdsa.PrivateKey) *TestAccount {
	return &TestAccount{
		Name:    name,
		PrivKey: privKey,
		Address: crypto.PubkeyToAddress(privKey.PublicKey),
	}
}

// String returns a string representation of the account
func (a *TestAccount) String() string {
	return fmt.Sprintf("TestAccount{Name: %s, Address: %s}", a.Name, a.Address.Hex())
}

// Sign signs a digest and returns the signature in split form with v in 27/28.
func (a *TestAccount) Sign(digest common.Hash) (erc20types.Signature, error) {
	raw, err := crypto.Sign(digest.Bytes(), a.PrivKey)
	if err != nil {
		return erc20types.Signature{}, err
	}
	sig, err := erc20types.SignatureFromBytes(raw)
	if err != nil {
		return erc20types.Signature{}, err
	}
	sig.V += 27
	return sig, nil
}

// SignPermit signs a permit for the given signing domain.
func (a *TestAccount) SignPermit(domain common.Hash, permit erc20types.Permit) (erc20types.Signature, error) {
	digest, err := permit.Digest(domain)
	if err != nil {
		return erc20types.Signature{}, err
	}
	return a.Sign(digest)
}

// TestAccountManager manages multiple test accounts
type TestAccountManager struct {
	accounts map[string]*TestAccount
}

// NewTestAccountManager creates a new account manager
func NewTestAccountManager() *TestAccountManager {
	return &TestAccountManager{
		accounts: make(map[string]*TestAccount),
	}
}

// CreateAccount creates a new test account
func (m *TestAccountManager) CreateAccount(name string) *TestAccount {
	acc := NewTestAccount(name)
	m.accounts[name] = acc
	return acc
}

// GetAccount retrieves an account by name
func (m *TestAccountManager) GetAccount(name string) (*TestAccount, error) {
	acc, ok := m.accounts[name]
	if !ok {
		return nil, fmt.Errorf("account %s not found", name)
	}
	return acc, nil
}

// GetAllAccounts returns all accounts sorted by name
func (m *TestAccountManager) GetAllAccounts() []*TestAccount {
	accounts := make([]*TestAccount, 0, len(m.accounts))
	for _, acc := range m.accounts {
		accounts = append(accounts, acc)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Name < accounts[j].Name })
	return accounts
}
