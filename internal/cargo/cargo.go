// Package cargo drives the external compiler toolchain and answers questions
// about the surrounding crate. The parser itself never touches this package;
// it only consumes the text produced here.
package cargo

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Runner produces print-type-size output. The real implementation shells out
// to cargo; tests substitute a fake.
type Runner interface {
	// Run compiles the crate and returns the captured compiler output along
	// with the literal command line that produced it.
	Run(ctx context.Context, args []string) (output string, cmdline string, err error)
}

// CLI runs the actual cargo binary.
type CLI struct {
	// Cargo overrides the binary name, default "cargo".
	Cargo string
	// Dir is the working directory for the invocation; empty means inherit.
	Dir string
	// Stderr receives the compiler's own stderr so build errors stay
	// visible; nil discards it. Note that -Zprint-type-sizes diagnostics go
	// to stdout and are captured separately.
	Stderr io.Writer
}

// CommandLine builds the cargo invocation for the given pass-through args.
func CommandLine(cargo string, args []string) []string {
	if cargo == "" {
		cargo = "cargo"
	}
	cmdline := []string{cargo, "+nightly", "rustc"}
	cmdline = append(cmdline, args...)
	return append(cmdline, "--", "-Zprint-type-sizes")
}

func (c *CLI) Run(ctx context.Context, args []string) (string, string, error) {
	cmdline := CommandLine(c.Cargo, args)

	cmd := exec.CommandContext(ctx, cmdline[0], cmdline[1:]...)
	cmd.Dir = c.Dir
	cmd.Stderr = c.Stderr

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		return "", strings.Join(cmdline, " "), fmt.Errorf("cargo rustc failed: %w", err)
	}

	return stdout.String(), strings.Join(cmdline, " "), nil
}

// Touch updates the mtime of an existing source file so cargo re-links the
// crate and the compiler actually re-emits the diagnostics. It refuses to
// create files that do not exist.
func Touch(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("refusing to touch %q: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("refusing to touch %q: not a regular file", path)
	}

	now := time.Now()
	if err := os.Chtimes(path, now, now); err != nil {
		return fmt.Errorf("touching %q: %w", path, err)
	}
	return nil
}

// manifest is the subset of Cargo.toml this tool cares about.
type manifest struct {
	Package struct {
		Name string `toml:"name"`
	} `toml:"package"`
}

// PackageName walks up from dir looking for a Cargo.toml with a package name
// and returns the first one found. An empty string means no manifest was
// found anywhere up the tree; that is not an error, reports just fall back to
// a placeholder.
func PackageName(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for {
		name, err := readManifestName(filepath.Join(dir, "Cargo.toml"))
		if err != nil {
			return "", err
		}
		if name != "" {
			return name, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

func readManifestName(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("reading %q: %w", path, err)
	}

	var m manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		// A broken manifest in some parent directory should not kill the
		// report; keep walking up.
		return "", nil
	}

	return m.Package.Name, nil
}
