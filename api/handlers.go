package api

import (
	"net/http"
	"strconv"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"

	ammtypes "github.com/paw-chain/swapcore/x/amm/types"
	erc20types "github.com/paw-chain/swapcore/x/erc20/types"
)

const (
	defaultPageLimit = 100
	maxPageLimit     = 500
)

// addressParam parses the named path parameter as a hex address and writes a
// 400 response when it is malformed.
func addressParam(c *gin.Context, name string) (common.Address, bool) {
	raw := c.Param(name)
	if !common.IsHexAddress(raw) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid address",
			Code:    "INVALID_ADDRESS",
			Details: name + ": " + raw,
		})
		return common.Address{}, false
	}
	return common.HexToAddress(raw), true
}

func uintQuery(c *gin.Context, name string, def uint64) (uint64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid query parameter",
			Code:    "INVALID_PARAMETER",
			Details: name + ": " + err.Error(),
		})
		return 0, false
	}
	return v, true
}

// writeError maps a state error onto an HTTP response.
func (s *Server) writeError(c *gin.Context, err error) {
	if errorsmod.IsOf(err, ammtypes.ErrPairNotFound, erc20types.ErrTokenNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Not found", Code: "NOT_FOUND", Details: err.Error()})
		return
	}
	s.logger.Error("query failed", "path", c.Request.URL.Path, "error", err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error", Code: "INTERNAL_ERROR"})
}

func (s *Server) handleGetFactory(c *gin.Context) {
	var resp FactoryResponse
	err := s.node.Query(func(ctx sdk.Context) error {
		params, err := s.node.AMMKeeper.GetParams(ctx)
		if err != nil {
			return err
		}
		resp = NewFactoryResponse(s.node, ctx, params)
		return nil
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// handleGetPairs lists pairs in creation order.
func (s *Server) handleGetPairs(c *gin.Context) {
	offset, ok := uintQuery(c, "offset", 0)
	if !ok {
		return
	}
	limit, ok := uintQuery(c, "limit", defaultPageLimit)
	if !ok {
		return
	}
	if limit == 0 || limit > maxPageLimit {
		limit = maxPageLimit
	}

	resp := PairsResponse{Pairs: []PairResponse{}, Offset: offset, Limit: limit}
	err := s.node.Query(func(ctx sdk.Context) error {
		resp.Total = s.node.AMMKeeper.AllPairsLength(ctx)
		for i := offset; i < resp.Total && i-offset < limit; i++ {
			addr, err := s.node.AMMKeeper.AllPairs(ctx, i)
			if err != nil {
				return err
			}
			p, err := s.node.AMMKeeper.Pair(ctx, addr)
			if err != nil {
				return err
			}
			index := i
			pr := NewPairResponse(s.node, ctx, p)
			pr.Index = &index
			resp.Pairs = append(resp.Pairs, pr)
		}
		return nil
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleGetPair(c *gin.Context) {
	addr, ok := addressParam(c, "addr")
	if !ok {
		return
	}

	var resp PairResponse
	err := s.node.Query(func(ctx sdk.Context) error {
		p, err := s.node.AMMKeeper.Pair(ctx, addr)
		if err != nil {
			return err
		}
		resp = NewPairResponse(s.node, ctx, p)
		return nil
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleGetPairPrice(c *gin.Context) {
	addr, ok := addressParam(c, "addr")
	if !ok {
		return
	}

	var resp PriceResponse
	err := s.node.Query(func(ctx sdk.Context) (err error) {
		resp, err = NewPriceResponse(s.node, ctx, addr)
		return err
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleGetToken(c *gin.Context) {
	addr, ok := addressParam(c, "addr")
	if !ok {
		return
	}

	var resp TokenResponse
	err := s.node.Query(func(ctx sdk.Context) error {
		meta, err := s.node.ERC20Keeper.GetToken(ctx, addr)
		if err != nil {
			return err
		}
		separator, err := s.node.ERC20Keeper.DomainSeparator(ctx, addr)
		if err != nil {
			return err
		}
		resp = NewTokenResponse(s.node, ctx, addr, meta, separator)
		return nil
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// requireToken returns ErrTokenNotFound for addresses that are not tokens.
func (s *Server) requireToken(ctx sdk.Context, addr common.Address) error {
	if !s.node.ERC20Keeper.HasToken(ctx, addr) {
		return erc20types.ErrTokenNotFound.Wrap(addr.Hex())
	}
	return nil
}

func (s *Server) handleGetBalance(c *gin.Context) {
	token, ok := addressParam(c, "addr")
	if !ok {
		return
	}
	account, ok := addressParam(c, "account")
	if !ok {
		return
	}

	resp := BalanceResponse{Token: token.Hex(), Account: account.Hex()}
	err := s.node.Query(func(ctx sdk.Context) error {
		if err := s.requireToken(ctx, token); err != nil {
			return err
		}
		resp.Balance = s.node.ERC20Keeper.BalanceOf(ctx, token, account).Dec()
		return nil
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleGetAllowance(c *gin.Context) {
	token, ok := addressParam(c, "addr")
	if !ok {
		return
	}
	owner, ok := addressParam(c, "owner")
	if !ok {
		return
	}
	spender, ok := addressParam(c, "spender")
	if !ok {
		return
	}

	resp := AllowanceResponse{Token: token.Hex(), Owner: owner.Hex(), Spender: spender.Hex()}
	err := s.node.Query(func(ctx sdk.Context) error {
		if err := s.requireToken(ctx, token); err != nil {
			return err
		}
		resp.Allowance = s.node.ERC20Keeper.Allowance(ctx, token, owner, spender).Dec()
		return nil
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleGetNonce(c *gin.Context) {
	token, ok := addressParam(c, "addr")
	if !ok {
		return
	}
	owner, ok := addressParam(c, "owner")
	if !ok {
		return
	}

	resp := NonceResponse{Token: token.Hex(), Owner: owner.Hex()}
	err := s.node.Query(func(ctx sdk.Context) error {
		if err := s.requireToken(ctx, token); err != nil {
			return err
		}
		resp.Nonce = s.node.ERC20Keeper.Nonces(ctx, token, owner)
		return nil
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
