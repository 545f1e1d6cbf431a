package cmd

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/spf13/cobra"

	"github.com/paw-chain/swapcore/app"
	erc20types "github.com/paw-chain/swapcore/x/erc20/types"
)

const (
	flagDecimals = "decimals"
	flagBurnBps  = "transfer-burn-bps"
	flagDeadline = "deadline"
)

// TokenCmd returns the token transaction commands.
func TokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Token transactions",
	}

	cmd.AddCommand(
		DeployTokenCmd(),
		TransferCmd(),
		ApproveCmd(),
		TransferFromCmd(),
		SignPermitCmd(),
		PermitCmd(),
	)
	return cmd
}

// DeployTokenCmd deploys a token minting its supply to the sender.
func DeployTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deploy [name] [symbol] [initial-supply]",
		Short: "Deploy a token and mint its initial supply to the sender",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := fromAddress(cmd)
			if err != nil {
				return err
			}
			supply, err := parseAmount(args[2])
			if err != nil {
				return err
			}
			decimals, _ := cmd.Flags().GetUint8(flagDecimals)
			burnBps, _ := cmd.Flags().GetUint32(flagBurnBps)

			meta := erc20types.TokenMetadata{
				Name:            args[0],
				Symbol:          args[1],
				Decimals:        decimals,
				TransferBurnBps: burnBps,
			}
			return runTx(cmd, func(node *app.App, ctx sdk.Context, result map[string]string) error {
				token, err := node.ERC20Keeper.Deploy(ctx, from, meta, supply)
				if err != nil {
					return err
				}
				result["token"] = token.Hex()
				return nil
			})
		},
	}
	addFromFlag(cmd)
	cmd.Flags().Uint8(flagDecimals, erc20types.DefaultDecimals, "Token decimals")
	cmd.Flags().Uint32(flagBurnBps, 0, "Basis points burned from every transfer")
	return cmd
}

// TransferCmd moves tokens from the sender.
func TransferCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfer [token] [to] [amount]",
		Short: "Transfer tokens from the sender",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := fromAddress(cmd)
			if err != nil {
				return err
			}
			token, err := parseAddress(cmd, args[0])
			if err != nil {
				return err
			}
			to, err := parseAddress(cmd, args[1])
			if err != nil {
				return err
			}
			amount, err := parseAmount(args[2])
			if err != nil {
				return err
			}
			return runTx(cmd, func(node *app.App, ctx sdk.Context, _ map[string]string) error {
				return node.ERC20Keeper.Transfer(ctx, token, from, to, amount)
			})
		},
	}
	addFromFlag(cmd)
	return cmd
}

// ApproveCmd sets a spender's allowance over the sender's tokens.
func ApproveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "approve [token] [spender] [amount]",
		Short: "Set the allowance of a spender; \"max\" approves without limit",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := fromAddress(cmd)
			if err != nil {
				return err
			}
			token, err := parseAddress(cmd, args[0])
			if err != nil {
				return err
			}
			spender, err := parseAddress(cmd, args[1])
			if err != nil {
				return err
			}
			amount, err := parseAllowance(args[2])
			if err != nil {
				return err
			}
			return runTx(cmd, func(node *app.App, ctx sdk.Context, _ map[string]string) error {
				return node.ERC20Keeper.Approve(ctx, token, from, spender, amount)
			})
		},
	}
	addFromFlag(cmd)
	return cmd
}

// TransferFromCmd spends an allowance granted to the sender.
func TransferFromCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfer-from [token] [owner] [to] [amount]",
		Short: "Transfer tokens of owner using the sender's allowance",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			spender, err := fromAddress(cmd)
			if err != nil {
				return err
			}
			token, err := parseAddress(cmd, args[0])
			if err != nil {
				return err
			}
			owner, err := parseAddress(cmd, args[1])
			if err != nil {
				return err
			}
			to, err := parseAddress(cmd, args[2])
			if err != nil {
				return err
			}
			amount, err := parseAmount(args[3])
			if err != nil {
				return err
			}
			return runTx(cmd, func(node *app.App, ctx sdk.Context, _ map[string]string) error {
				return node.ERC20Keeper.TransferFrom(ctx, token, spender, owner, to, amount)
			})
		},
	}
	addFromFlag(cmd)
	return cmd
}

// SignPermitCmd signs a permit with the sender's key without submitting it.
func SignPermitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sign-permit [token] [spender] [value]",
		Short: "Sign a permit granting spender an allowance over the sender's tokens",
		Long: `Sign the EIP-712 permit digest for the sender's current nonce. The
printed signature can be submitted by any account with "token permit".`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := fromKey(cmd)
			if err != nil {
				return err
			}
			token, err := parseAddress(cmd, args[0])
			if err != nil {
				return err
			}
			spender, err := parseAddress(cmd, args[1])
			if err != nil {
				return err
			}
			value, err := parseAllowance(args[2])
			if err != nil {
				return err
			}
			validFor, _ := cmd.Flags().GetDuration(flagDeadline)
			deadline := uint256.NewInt(uint64(time.Now().Add(validFor).Unix()))

			return runQuery(cmd, func(node *app.App, ctx sdk.Context) (interface{}, error) {
				domain, err := node.ERC20Keeper.DomainSeparator(ctx, token)
				if err != nil {
					return nil, err
				}
				permit := erc20types.Permit{
					Owner:    key.Address,
					Spender:  spender,
					Value:    value,
					Nonce:    node.ERC20Keeper.Nonces(ctx, token, key.Address),
					Deadline: deadline,
				}
				digest, err := permit.Digest(domain)
				if err != nil {
					return nil, err
				}
				raw, err := crypto.Sign(digest.Bytes(), key.PrivKey)
				if err != nil {
					return nil, err
				}
				sig, err := erc20types.SignatureFromBytes(raw)
				if err != nil {
					return nil, err
				}
				return map[string]string{
					"owner":     key.Address.Hex(),
					"spender":   spender.Hex(),
					"value":     value.Dec(),
					"nonce":     fmt.Sprint(permit.Nonce),
					"deadline":  deadline.Dec(),
					"signature": "0x" + hex.EncodeToString(sig.Bytes()),
				}, nil
			})
		},
	}
	addFromFlag(cmd)
	cmd.Flags().Duration(flagDeadline, time.Hour, "How long the permit stays valid")
	return cmd
}

// PermitCmd submits a signed permit on behalf of its owner.
func PermitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "permit [token] [owner] [spender] [value] [deadline] [signature]",
		Short: "Submit a signed permit",
		Args:  cobra.ExactArgs(6),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := fromAddress(cmd); err != nil {
				return err
			}
			token, err := parseAddress(cmd, args[0])
			if err != nil {
				return err
			}
			owner, err := parseAddress(cmd, args[1])
			if err != nil {
				return err
			}
			spender, err := parseAddress(cmd, args[2])
			if err != nil {
				return err
			}
			value, err := parseAllowance(args[3])
			if err != nil {
				return err
			}
			deadline, err := parseAmount(args[4])
			if err != nil {
				return err
			}
			signature, err := hex.DecodeString(strings.TrimPrefix(args[5], "0x"))
			if err != nil {
				return fmt.Errorf("invalid signature: %w", err)
			}
			return runTx(cmd, func(node *app.App, ctx sdk.Context, _ map[string]string) error {
				return node.ERC20Keeper.PermitPacked(ctx, token, owner, spender, value, deadline, signature)
			})
		},
	}
	addFromFlag(cmd)
	return cmd
}

// parseAllowance accepts "max" for the unlimited allowance.
func parseAllowance(s string) (*uint256.Int, error) {
	if s == "max" {
		return new(uint256.Int).Set(erc20types.MaxAmount), nil
	}
	return parseAmount(s)
}
