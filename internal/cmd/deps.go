package cmd

import (
	"os"
	"time"

	"github.com/jedrzejboczar/rust-type-sizes/internal/cargo"
)

// Seams for tests: production wiring by default, swapped out by the CLI
// harness so commands run without a Rust toolchain.
var (
	newRunnerFunc = func() cargo.Runner {
		return &cargo.CLI{Stderr: os.Stderr}
	}
	touchFunc       = cargo.Touch
	packageNameFunc = cargo.PackageName
	nowFunc         = time.Now
)
