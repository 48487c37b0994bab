// Package main provides the born CLI.
package main

import (
	"fmt"
	"os"

	"github.com/born-ml/canon/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
