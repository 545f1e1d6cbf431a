package cmd

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

const (
	flagRecover = "recover"
	keyFileExt  = ".key"
)

var keyNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

// Key is a local secp256k1 account.
type Key struct {
	Name    string            `json:"name"`
	Address common.Address    `json:"address"`
	PrivKey *ecdsa.PrivateKey `json:"-"`
}

func keysDir(home string) string {
	return filepath.Join(home, "keys")
}

func keyPath(home, name string) string {
	return filepath.Join(keysDir(home), name+keyFileExt)
}

func loadKey(home, name string) (*Key, error) {
	if !keyNamePattern.MatchString(name) {
		return nil, fmt.Errorf("invalid key name %q", name)
	}
	priv, err := crypto.LoadECDSA(keyPath(home, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("key %q not found", name)
		}
		return nil, fmt.Errorf("failed to load key %q: %w", name, err)
	}
	return &Key{Name: name, Address: crypto.PubkeyToAddress(priv.PublicKey), PrivKey: priv}, nil
}

func saveKey(home, name string, priv *ecdsa.PrivateKey) (*Key, error) {
	if !keyNamePattern.MatchString(name) {
		return nil, fmt.Errorf("invalid key name %q", name)
	}
	path := keyPath(home, name)
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("key %q already exists", name)
	}
	if err := os.MkdirAll(keysDir(home), 0o700); err != nil {
		return nil, err
	}
	if err := crypto.SaveECDSA(path, priv); err != nil {
		return nil, fmt.Errorf("failed to save key %q: %w", name, err)
	}
	return &Key{Name: name, Address: crypto.PubkeyToAddress(priv.PublicKey), PrivKey: priv}, nil
}

// KeysCmd returns the keys command.
func KeysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage local account keys",
		Long: `Keys are secp256k1 private keys stored hex encoded under <home>/keys.
A key's address is the last 20 bytes of the keccak256 hash of its public key.`,
	}

	cmd.AddCommand(
		AddKeyCommand(),
		ShowKeysCommand(),
		ListKeysCommand(),
	)

	return cmd
}

// AddKeyCommand creates a new key, or imports one with --recover.
func AddKeyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Generate a new key or import a hex private key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			recoverHex, _ := cmd.Flags().GetString(flagRecover)

			var (
				priv *ecdsa.PrivateKey
				err  error
			)
			if recoverHex != "" {
				priv, err = crypto.HexToECDSA(strings.TrimPrefix(recoverHex, "0x"))
			} else {
				priv, err = crypto.GenerateKey()
			}
			if err != nil {
				return fmt.Errorf("invalid private key: %w", err)
			}

			key, err := saveKey(homeDir(cmd), args[0], priv)
			if err != nil {
				return err
			}
			return printOutput(cmd, key)
		},
	}
	cmd.Flags().String(flagRecover, "", "Import this hex encoded private key instead of generating one")
	return cmd
}

// ShowKeysCommand prints the address of a key.
func ShowKeysCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show [name]",
		Short: "Show the address of a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := loadKey(homeDir(cmd), args[0])
			if err != nil {
				return err
			}
			return printOutput(cmd, key)
		},
	}
}

// ListKeysCommand lists every local key.
func ListKeysCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			home := homeDir(cmd)
			entries, err := os.ReadDir(keysDir(home))
			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}

			keys := make([]*Key, 0, len(entries))
			for _, entry := range entries {
				name, ok := strings.CutSuffix(entry.Name(), keyFileExt)
				if entry.IsDir() || !ok {
					continue
				}
				key, err := loadKey(home, name)
				if err != nil {
					return err
				}
				keys = append(keys, key)
			}
			sort.Slice(keys, func(i, j int) bool { return keys[i].Name < keys[j].Name })
			return printOutput(cmd, keys)
		},
	}
}
