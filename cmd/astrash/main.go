// Package main is the entry point of the astrashell interactive shell.
package main

import (
	"os"

	"astrashell/internal/shellrt"
)

func main() {
	os.Exit(shellrt.Run())
}
