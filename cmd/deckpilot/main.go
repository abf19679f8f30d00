package main

import (
	"fmt"
	"os"

	"github.com/deckpilot/deckpilot/internal/cli"
)

func main() {
	root := cli.NewRootCommand()

	// bare invocation defaults to discover-and-process
	if len(os.Args) == 1 {
		root.SetArgs([]string{"process"})
	}

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
