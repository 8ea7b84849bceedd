// Command lexml is the command-line client for the contract analysis API.
package main

import (
	"fmt"
	"os"

	"github.com/smartlex/lexml/internal/interfaces/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "lexml: %v\n", err)
		os.Exit(1)
	}
}
