// Package main is the entry point for the readmi CLI tool.
package main

import (
	"github.com/bigmistqke/readmi/internal/cmd"
)

func main() {
	cmd.Execute()
}
