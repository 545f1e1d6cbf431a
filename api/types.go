package api

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"

	"github.com/paw-chain/swapcore/app"
	ammtypes "github.com/paw-chain/swapcore/x/amm/types"
	erc20types "github.com/paw-chain/swapcore/x/erc20/types"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// FactoryResponse describes the factory registry.
type FactoryResponse struct {
	Address     string `json:"address"`
	FeeTo       string `json:"fee_to"`
	FeeToSetter string `json:"fee_to_setter"`
	SwapFee     uint64 `json:"swap_fee"`
	PairCount   uint64 `json:"pair_count"`
}

// PairResponse is the state of one pair. Amounts are decimal strings.
type PairResponse struct {
	Index                *uint64 `json:"index,omitempty"`
	Address              string  `json:"address"`
	Token0               string  `json:"token0"`
	Token1               string  `json:"token1"`
	Reserve0             string  `json:"reserve0"`
	Reserve1             string  `json:"reserve1"`
	BlockTimestampLast   uint32  `json:"block_timestamp_last"`
	Price0CumulativeLast string  `json:"price0_cumulative_last"`
	Price1CumulativeLast string  `json:"price1_cumulative_last"`
	KLast                string  `json:"k_last"`
	TotalSupply          string  `json:"total_supply"`
}

// PairsResponse is one page of the pair list.
type PairsResponse struct {
	Pairs  []PairResponse `json:"pairs"`
	Total  uint64         `json:"total"`
	Offset uint64         `json:"offset"`
	Limit  uint64         `json:"limit"`
}

// PriceResponse reports spot prices and the price accumulators of a pair as
// of the current block time.
type PriceResponse struct {
	Pair             string `json:"pair"`
	Price0           string `json:"price0"`
	Price1           string `json:"price1"`
	Price0Cumulative string `json:"price0_cumulative"`
	Price1Cumulative string `json:"price1_cumulative"`
	Timestamp        uint32 `json:"timestamp"`
}

// TokenResponse describes a token.
type TokenResponse struct {
	Address         string `json:"address"`
	Name            string `json:"name"`
	Symbol          string `json:"symbol"`
	Decimals        uint8  `json:"decimals"`
	TotalSupply     string `json:"total_supply"`
	TransferBurnBps uint32 `json:"transfer_burn_bps,omitempty"`
	DomainSeparator string `json:"domain_separator"`
}

// BalanceResponse is an account balance.
type BalanceResponse struct {
	Token   string `json:"token"`
	Account string `json:"account"`
	Balance string `json:"balance"`
}

// AllowanceResponse is an owner/spender allowance.
type AllowanceResponse struct {
	Token     string `json:"token"`
	Owner     string `json:"owner"`
	Spender   string `json:"spender"`
	Allowance string `json:"allowance"`
}

// NonceResponse is the next permit nonce of an owner.
type NonceResponse struct {
	Token string `json:"token"`
	Owner string `json:"owner"`
	Nonce uint64 `json:"nonce"`
}

// NewFactoryResponse reads the factory registry.
func NewFactoryResponse(node *app.App, ctx sdk.Context, params ammtypes.Params) FactoryResponse {
	return FactoryResponse{
		Address:     node.AMMKeeper.FactoryAddress(ctx).Hex(),
		FeeTo:       node.AMMKeeper.FeeTo(ctx).Hex(),
		FeeToSetter: node.AMMKeeper.FeeToSetter(ctx).Hex(),
		SwapFee:     params.SwapFee,
		PairCount:   node.AMMKeeper.AllPairsLength(ctx),
	}
}

// NewPairResponse renders a pair together with its LP token supply.
func NewPairResponse(node *app.App, ctx sdk.Context, p ammtypes.Pair) PairResponse {
	return PairResponse{
		Address:              p.Address.Hex(),
		Token0:               p.Token0.Hex(),
		Token1:               p.Token1.Hex(),
		Reserve0:             p.Reserve0.Dec(),
		Reserve1:             p.Reserve1.Dec(),
		BlockTimestampLast:   p.BlockTimestampLast,
		Price0CumulativeLast: p.Price0CumulativeLast.Dec(),
		Price1CumulativeLast: p.Price1CumulativeLast.Dec(),
		KLast:                p.KLast.Dec(),
		TotalSupply:          node.ERC20Keeper.TotalSupply(ctx, p.Address).Dec(),
	}
}

// NewPriceResponse reads the spot and cumulative prices of a pair.
func NewPriceResponse(node *app.App, ctx sdk.Context, addr common.Address) (PriceResponse, error) {
	price0, price1, err := node.AMMKeeper.SpotPrices(ctx, addr)
	if err != nil {
		return PriceResponse{}, err
	}
	cumulative0, cumulative1, timestamp, err := node.AMMKeeper.CurrentCumulativePrices(ctx, addr)
	if err != nil {
		return PriceResponse{}, err
	}
	return PriceResponse{
		Pair:             addr.Hex(),
		Price0:           price0.String(),
		Price1:           price1.String(),
		Price0Cumulative: cumulative0.Dec(),
		Price1Cumulative: cumulative1.Dec(),
		Timestamp:        timestamp,
	}, nil
}

func NewTokenResponse(node *app.App, ctx sdk.Context, addr common.Address, meta erc20types.TokenMetadata, separator common.Hash) TokenResponse {
	return TokenResponse{
		Address:         addr.Hex(),
		Name:            meta.Name,
		Symbol:          meta.Symbol,
		Decimals:        meta.Decimals,
		TotalSupply:     node.ERC20Keeper.TotalSupply(ctx, addr).Dec(),
		TransferBurnBps: meta.TransferBurnBps,
		DomainSeparator: separator.Hex(),
	}
}
