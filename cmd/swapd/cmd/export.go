package cmd

import (
	"github.com/spf13/cobra"

	"github.com/paw-chain/swapcore/app"
)

const flagOutputFile = "output-document"

// ExportCmd prints the current state as a genesis document that init can
// load on a new node.
func ExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the state as genesis JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			node, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer node.Close()

			doc, err := node.ExportGenesis()
			if err != nil {
				return err
			}
			if out, _ := cmd.Flags().GetString(flagOutputFile); out != "" {
				return app.SaveGenesisDoc(out, doc)
			}
			return printOutput(cmd, doc)
		},
	}
	cmd.Flags().String(flagOutputFile, "", "Write the genesis document to this file instead of stdout")
	return cmd
}
