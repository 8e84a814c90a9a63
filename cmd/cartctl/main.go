package main

import (
	"fmt"
	"os"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
