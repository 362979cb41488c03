// Command zstdbench sweeps a compressor across effort levels on
// synthetic or file-backed workloads and reports time, speed and ratio
// per level.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
