package main

import (
	"fmt"
	"os"

	"github.com/pratik-mahalle/gcli/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}
