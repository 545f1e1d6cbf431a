package main

import (
	"os"

	"github.com/paw-chain/swapcore/cmd/swapd/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
