package main

import (
	"fmt"
	"os"

	"github.com/wharflab/cleanslate/cmd/cleanslate/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cmd.ExitFailure)
	}
}
