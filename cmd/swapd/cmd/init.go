package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/paw-chain/swapcore/app"
)

const (
	flagChainID   = "chain-id"
	flagDBBackend = "db-backend"
	flagOverwrite = "overwrite"
)

// InitCmd writes the node configuration and genesis file and loads the
// genesis state. The fee-to-setter may be a key name or an address.
func InitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [fee-to-setter]",
		Short: "Initialize the node configuration, genesis and state",
		Long: `Write <home>/config/app.toml and <home>/config/genesis.json with a
factory whose fee-to-setter is the given key or address, then load the
genesis state into <home>/data.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			home := homeDir(cmd)
			overwrite, _ := cmd.Flags().GetBool(flagOverwrite)

			if _, err := os.Stat(app.GenesisPath(home)); err == nil {
				if !overwrite {
					return fmt.Errorf("genesis file already exists: %s", app.GenesisPath(home))
				}
				if err := os.RemoveAll(filepath.Join(home, "data")); err != nil {
					return err
				}
			}

			setter, err := parseAddress(cmd, args[0])
			if err != nil {
				return err
			}

			cfg, err := nodeConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed(flagChainID) {
				cfg.ChainID, _ = cmd.Flags().GetUint64(flagChainID)
			}
			if cmd.Flags().Changed(flagDBBackend) {
				cfg.DBBackend, _ = cmd.Flags().GetString(flagDBBackend)
			}
			if err := app.WriteConfig(home, cfg); err != nil {
				return err
			}

			doc := app.NewGenesisDoc(cfg.ChainID, time.Now(), setter)
			if err := app.SaveGenesisDoc(app.GenesisPath(home), doc); err != nil {
				return err
			}

			cmd.SetContext(withConfig(cmd, cfg))
			node, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer node.Close()

			return printOutput(cmd, map[string]interface{}{
				"chain_id":      cfg.ChainID,
				"genesis_time":  doc.GenesisTime,
				"fee_to_setter": setter.Hex(),
				"height":        node.Header().Height,
				"home":          home,
			})
		},
	}

	cmd.Flags().Uint64(flagChainID, app.DefaultChainID, "Chain id bound into permit signatures")
	cmd.Flags().String(flagDBBackend, app.DefaultConfig().DBBackend, "State database backend (goleveldb|memdb)")
	cmd.Flags().Bool(flagOverwrite, false, "Overwrite an existing genesis file and reset the state")
	return cmd
}
