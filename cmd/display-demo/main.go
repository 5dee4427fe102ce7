// Command display-demo runs an animated scene on a display backend and prints
// frame statistics.
//
// Usage:
//
//	display-demo run [flags]
//
// Examples:
//
//	# 300 headless frames at 60 fps
//	display-demo run --frames 300
//
//	# Terminal backend, 2D, from a config file
//	display-demo run -c demo.toml --backend term --2d
package main

import (
	"fmt"
	"os"

	"github.com/phanxgames/display/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
