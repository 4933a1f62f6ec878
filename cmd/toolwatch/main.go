package main

import (
	"fmt"
	"os"

	"github.com/null-create/toolwatch/pkg/cli"
)

var version = "0.1.0"

func main() {
	if err := cli.NewRoot(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
