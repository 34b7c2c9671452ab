package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jedrzejboczar/rust-type-sizes/internal/output"
	"github.com/jedrzejboczar/rust-type-sizes/internal/sizes"
)

// runInfo is the metadata of one compile-and-parse run, embedded in reports.
type runInfo struct {
	Package string
	Command string
}

// collectTypes obtains compiler output (from --input, or by compiling the
// crate with the args after "--"), parses it into the type forest and
// applies the configured filter, sort and name trimming.
func collectTypes(cmd *cobra.Command, cargoArgs []string) ([]*sizes.Type, runInfo, error) {
	ctx := cmd.Context()

	var text, cmdline string
	if inputPath != "" {
		content, err := readInputSource(inputPath, stdinFromContext(ctx))
		if err != nil {
			return nil, runInfo{}, err
		}
		text = content
	} else {
		if touchFile != "" {
			if err := touchFunc(touchFile); err != nil {
				return nil, runInfo{}, err
			}
		}
		progress(ctx, "Compiling ...")
		out, cl, err := newRunnerFunc().Run(ctx, cargoArgs)
		if err != nil {
			return nil, runInfo{}, err
		}
		text = out
		cmdline = cl
	}

	progress(ctx, "Parsing ...")
	types, err := sizes.Parse(strings.NewReader(text))
	if err != nil {
		return nil, runInfo{}, err
	}

	types = typeFilter.Apply(types)
	types = sizes.Sort(types, sortKey, sortDescending)
	sizes.TrimNames(types, nameLimit)

	// Best effort: a report without a package name is still a report.
	pkg, err := packageNameFunc(".")
	if err != nil {
		pkg = ""
	}

	return types, runInfo{Package: pkg, Command: cmdline}, nil
}

func progress(ctx context.Context, msg string) {
	if output.QuietFromContext(ctx) {
		return
	}
	_, _ = fmt.Fprintln(stderrFromContext(ctx), msg)
}
