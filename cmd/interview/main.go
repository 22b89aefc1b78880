package main

import (
	"fmt"
	"os"

	"github.com/Dharanikpdb-007/Interview-practice-partners/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
