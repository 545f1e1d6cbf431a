package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/paw-chain/swapcore/x/amm/types"
)

// Mint issues LP shares to to for the assets deposited into the pair since
// its last update. The first mint locks MinimumLiquidity shares at the zero
// address.
func (k Keeper) Mint(ctx context.Context, sender, pairAddr, to common.Address) (*uint256.Int, error) {
	var liquidity *uint256.Int

	err := k.WithReentrancyGuard(ctx, pairAddr, "mint", func(ctx sdk.Context) error {
		p, err := k.Pair(ctx, pairAddr)
		if err != nil {
			return err
		}

		balance0, balance1 := k.balances(ctx, p)
		amount0, err := SafeSub(balance0, p.Reserve0, "deposit of token0")
		if err != nil {
			return err
		}
		amount1, err := SafeSub(balance1, p.Reserve1, "deposit of token1")
		if err != nil {
			return err
		}

		feeOn, err := k.mintFee(ctx, &p)
		if err != nil {
			return err
		}

		// read after mintFee, which can grow the supply
		totalSupply := k.tokenKeeper.TotalSupply(ctx, pairAddr)
		if totalSupply.IsZero() {
			product, err := SafeMul(amount0, amount1, "initial deposit product")
			if err != nil {
				return err
			}
			root := Sqrt(product)
			if !root.Gt(types.MinimumLiquidity) {
				return types.ErrInsufficientLiquidityMinted.Wrapf(
					"sqrt(%s * %s) = %s does not exceed the minimum liquidity", amount0.Dec(), amount1.Dec(), root.Dec())
			}
			liquidity = root.Sub(root, types.MinimumLiquidity)
			if err := k.tokenKeeper.Mint(ctx, pairAddr, common.Address{}, types.MinimumLiquidity); err != nil {
				return err
			}
		} else {
			liquidity0, err := SafeMulDiv(amount0, totalSupply, p.Reserve0, "liquidity of token0")
			if err != nil {
				return err
			}
			liquidity1, err := SafeMulDiv(amount1, totalSupply, p.Reserve1, "liquidity of token1")
			if err != nil {
				return err
			}
			liquidity = Min(liquidity0, liquidity1)
		}

		if liquidity.IsZero() {
			return types.ErrInsufficientLiquidityMinted.Wrapf("deposits %s/%s mint no shares", amount0.Dec(), amount1.Dec())
		}
		if err := k.tokenKeeper.Mint(ctx, pairAddr, to, liquidity); err != nil {
			return err
		}

		if err := k.update(ctx, &p, balance0, balance1); err != nil {
			return err
		}
		if feeOn {
			if err := k.recordKLast(ctx, &p); err != nil {
				return err
			}
		}

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeMint,
				sdk.NewAttribute(types.AttributeKeySender, sender.Hex()),
				sdk.NewAttribute(types.AttributeKeyAmount0, amount0.Dec()),
				sdk.NewAttribute(types.AttributeKeyAmount1, amount1.Dec()),
				sdk.NewAttribute(types.AttributeKeyContract, pairAddr.Hex()),
			),
		)
		return nil
	})
	if err != nil {
		k.metrics.LiquidityEvents.WithLabelValues("mint", "failure").Inc()
		k.Logger(ctx).Debug("mint failed", "pair", pairAddr.Hex(), "error", err)
		return nil, err
	}

	k.metrics.LiquidityEvents.WithLabelValues("mint", "success").Inc()
	return liquidity, nil
}

// Burn redeems the LP shares held by the pair itself, sending the
// proportional amounts of both assets to to. Shares must be transferred to
// the pair before calling.
func (k Keeper) Burn(ctx context.Context, sender, pairAddr, to common.Address) (*uint256.Int, *uint256.Int, error) {
	var amount0, amount1 *uint256.Int

	err := k.WithReentrancyGuard(ctx, pairAddr, "burn", func(ctx sdk.Context) error {
		p, err := k.Pair(ctx, pairAddr)
		if err != nil {
			return err
		}

		balance0, balance1 := k.balances(ctx, p)
		liquidity := k.tokenKeeper.BalanceOf(ctx, pairAddr, pairAddr)

		feeOn, err := k.mintFee(ctx, &p)
		if err != nil {
			return err
		}

		totalSupply := k.tokenKeeper.TotalSupply(ctx, pairAddr)
		if amount0, err = SafeMulDiv(liquidity, balance0, totalSupply, "redemption of token0"); err != nil {
			return err
		}
		if amount1, err = SafeMulDiv(liquidity, balance1, totalSupply, "redemption of token1"); err != nil {
			return err
		}
		if amount0.IsZero() || amount1.IsZero() {
			return types.ErrInsufficientLiquidityBurned.Wrapf(
				"%s shares redeem %s/%s", liquidity.Dec(), amount0.Dec(), amount1.Dec())
		}

		if err := k.tokenKeeper.Burn(ctx, pairAddr, pairAddr, liquidity); err != nil {
			return err
		}
		if err := k.tokenKeeper.Transfer(ctx, p.Token0, pairAddr, to, amount0); err != nil {
			return err
		}
		if err := k.tokenKeeper.Transfer(ctx, p.Token1, pairAddr, to, amount1); err != nil {
			return err
		}

		balance0, balance1 = k.balances(ctx, p)
		if err := k.update(ctx, &p, balance0, balance1); err != nil {
			return err
		}
		if feeOn {
			if err := k.recordKLast(ctx, &p); err != nil {
				return err
			}
		}

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeBurn,
				sdk.NewAttribute(types.AttributeKeySender, sender.Hex()),
				sdk.NewAttribute(types.AttributeKeyAmount0, amount0.Dec()),
				sdk.NewAttribute(types.AttributeKeyAmount1, amount1.Dec()),
				sdk.NewAttribute(types.AttributeKeyTo, to.Hex()),
				sdk.NewAttribute(types.AttributeKeyContract, pairAddr.Hex()),
			),
		)
		return nil
	})
	if err != nil {
		k.metrics.LiquidityEvents.WithLabelValues("burn", "failure").Inc()
		k.Logger(ctx).Debug("burn failed", "pair", pairAddr.Hex(), "error", err)
		return nil, nil, err
	}

	k.metrics.LiquidityEvents.WithLabelValues("burn", "success").Inc()
	return amount0, amount1, nil
}
