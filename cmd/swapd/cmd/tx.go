package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/spf13/cobra"

	"github.com/paw-chain/swapcore/app"
	erc20types "github.com/paw-chain/swapcore/x/erc20/types"
)

// TxResult is printed after a committed transition.
type TxResult struct {
	Height int64             `json:"height"`
	Hash   string            `json:"app_hash"`
	Result map[string]string `json:"result,omitempty"`
	Events []TxEvent         `json:"events"`
}

// TxEvent is an emitted event with its attributes.
type TxEvent struct {
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes"`
}

// runTx applies fn as one block and prints the committed result. fn may
// fill result with values to report.
func runTx(cmd *cobra.Command, fn func(node *app.App, ctx sdk.Context, result map[string]string) error) error {
	node, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer node.Close()

	result := make(map[string]string)
	node.BeginBlock(time.Now())
	events, err := node.Execute(func(ctx sdk.Context) error {
		return fn(node, ctx, result)
	})
	if err != nil {
		return err
	}
	id := node.Commit()

	out := TxResult{
		Height: id.Version,
		Hash:   fmt.Sprintf("%X", id.Hash),
		Result: result,
		Events: make([]TxEvent, 0, len(events)),
	}
	for _, ev := range events {
		attrs := make(map[string]string, len(ev.Attributes))
		for _, attr := range ev.Attributes {
			attrs[attr.Key] = attr.Value
		}
		out.Events = append(out.Events, TxEvent{Type: ev.Type, Attributes: attrs})
	}
	return printOutput(cmd, out)
}

// runQuery runs fn against the committed state and prints its return value.
func runQuery(cmd *cobra.Command, fn func(node *app.App, ctx sdk.Context) (interface{}, error)) error {
	node, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer node.Close()

	var out interface{}
	if err := node.Query(func(ctx sdk.Context) error {
		out, err = fn(node, ctx)
		return err
	}); err != nil {
		return err
	}
	return printOutput(cmd, out)
}

func printOutput(cmd *cobra.Command, v interface{}) error {
	format, _ := cmd.Flags().GetString(flagOutput)
	w := cmd.OutOrStdout()
	if format == "json" {
		bz, err := json.Marshal(v)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(bz))
		return err
	}
	bz, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return writeLines(w, string(bz))
}

func writeLines(w io.Writer, s string) error {
	_, err := io.WriteString(w, strings.TrimRight(s, "\n")+"\n")
	return err
}

func parseAmount(s string) (*uint256.Int, error) {
	return erc20types.ParseAmount(s)
}

// parseAddress accepts a hex address or the name of a local key.
func parseAddress(cmd *cobra.Command, s string) (common.Address, error) {
	if common.IsHexAddress(s) {
		return common.HexToAddress(s), nil
	}
	key, err := loadKey(homeDir(cmd), s)
	if err != nil {
		return common.Address{}, fmt.Errorf("%q is neither an address nor a known key: %w", s, err)
	}
	return key.Address, nil
}

// fromKey returns the local key named by --from.
func fromKey(cmd *cobra.Command) (*Key, error) {
	name, _ := cmd.Flags().GetString(flagFrom)
	if name == "" {
		return nil, fmt.Errorf("--%s is required", flagFrom)
	}
	return loadKey(homeDir(cmd), name)
}

// fromAddress returns the address of the --from key.
func fromAddress(cmd *cobra.Command) (common.Address, error) {
	key, err := fromKey(cmd)
	if err != nil {
		return common.Address{}, err
	}
	return key.Address, nil
}

func addFromFlag(cmd *cobra.Command) {
	cmd.Flags().String(flagFrom, "", "Name of the local key sending the transaction")
	_ = cmd.MarkFlagRequired(flagFrom)
}
