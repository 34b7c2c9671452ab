package main

import (
	"os"

	"github.com/jedrzejboczar/rust-type-sizes/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
