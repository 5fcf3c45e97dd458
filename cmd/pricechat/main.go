// Package main is the entry point for the pricechat terminal client.
package main

import (
	"fmt"
	"os"

	"github.com/unifiedui/price-chat/internal/cli"
)

func main() {
	if err := cli.NewCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
