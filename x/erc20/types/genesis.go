package types

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// GenesisState defines the erc20 module's genesis state.
type GenesisState struct {
	Tokens []GenesisToken `json:"tokens"`
	// DeployNonces records how many tokens each deployer has created.
	DeployNonces []GenesisNonce `json:"deploy_nonces,omitempty"`
}

// GenesisToken is one token instance with its full ledger.
type GenesisToken struct {
	Address    common.Address     `json:"address"`
	Name       string             `json:"name"`
	Symbol     string             `json:"symbol"`
	Decimals   uint8              `json:"decimals"`
	BurnBps    uint32             `json:"transfer_burn_bps,omitempty"`
	Balances   []GenesisBalance   `json:"balances"`
	Allowances []GenesisAllowance `json:"allowances,omitempty"`
	Nonces     []GenesisNonce     `json:"nonces,omitempty"`
}

// GenesisBalance is an account balance as a decimal string.
type GenesisBalance struct {
	Account common.Address `json:"account"`
	Amount  string         `json:"amount"`
}

// GenesisAllowance is an owner/spender allowance as a decimal string.
type GenesisAllowance struct {
	Owner   common.Address `json:"owner"`
	Spender common.Address `json:"spender"`
	Amount  string         `json:"amount"`
}

// GenesisNonce is a counter value for one address.
type GenesisNonce struct {
	Account common.Address `json:"account"`
	Nonce   uint64         `json:"nonce"`
}

// DefaultGenesis returns the default erc20 genesis state: no tokens.
func DefaultGenesis() *GenesisState {
	return &GenesisState{Tokens: []GenesisToken{}}
}

// Metadata returns the token's metadata.
func (t GenesisToken) Metadata() TokenMetadata {
	return TokenMetadata{
		Name:            t.Name,
		Symbol:          t.Symbol,
		Decimals:        t.Decimals,
		TransferBurnBps: t.BurnBps,
	}
}

// ParseAmount parses a decimal genesis amount.
func ParseAmount(s string) (*uint256.Int, error) {
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return v, nil
}

// Validate performs basic genesis state validation.
func (gs GenesisState) Validate() error {
	seen := make(map[common.Address]bool, len(gs.Tokens))
	for _, token := range gs.Tokens {
		if token.Address == (common.Address{}) {
			return ErrInvalidGenesis.Wrap("token address cannot be zero")
		}
		if seen[token.Address] {
			return ErrInvalidGenesis.Wrapf("duplicate token %s", token.Address.Hex())
		}
		seen[token.Address] = true

		if err := token.Metadata().Validate(); err != nil {
			return err
		}

		supply := new(uint256.Int)
		holders := make(map[common.Address]bool, len(token.Balances))
		for _, balance := range token.Balances {
			if holders[balance.Account] {
				return ErrInvalidGenesis.Wrapf("duplicate balance for %s in %s", balance.Account.Hex(), token.Address.Hex())
			}
			holders[balance.Account] = true

			amount, err := ParseAmount(balance.Amount)
			if err != nil {
				return ErrInvalidGenesis.Wrap(err.Error())
			}
			if _, overflow := supply.AddOverflow(supply, amount); overflow {
				return ErrInvalidGenesis.Wrapf("total supply of %s overflows", token.Address.Hex())
			}
		}

		for _, allowance := range token.Allowances {
			if _, err := ParseAmount(allowance.Amount); err != nil {
				return ErrInvalidGenesis.Wrap(err.Error())
			}
		}
	}
	return nil
}
