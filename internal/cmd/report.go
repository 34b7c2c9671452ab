package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jedrzejboczar/rust-type-sizes/internal/config"
	"github.com/jedrzejboczar/rust-type-sizes/internal/report"
)

var (
	outputDir string
	touchFile string
	maxDepth  int
)

var reportCmd = &cobra.Command{
	Use:   "report [-- cargo args...]",
	Short: "Generate the HTML type-size report",
	Long: `Compiles the crate (or reads --input), parses the type-size
diagnostics and writes index.html with its stylesheet and script into the
output directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		types, info, err := collectTypes(cmd, args)
		if err != nil {
			return err
		}

		meta := report.Metadata{
			Package:   info.Package,
			Command:   info.Command,
			Generated: nowFunc(),
		}
		progress(ctx, "Generating output ...")
		if err := report.Write(outputDir, types, meta, report.Options{MaxDepth: maxDepth}); err != nil {
			return err
		}

		progress(ctx, "HTML output saved to "+filepath.Join(outputDir, report.IndexFile))
		return nil
	},
}

// resolveReportDefaults fills report settings from config when the flags were
// not given explicitly.
func resolveReportDefaults(cmd *cobra.Command, cfg *config.Config) {
	if !flagChanged(cmd, "output-dir") && cfg != nil && cfg.OutputDir != "" {
		outputDir = cfg.OutputDir
	}
	if !flagChanged(cmd, "touch") && cfg != nil && cfg.Touch != "" {
		touchFile = cfg.Touch
	}
}

func init() {
	reportCmd.Flags().StringVar(&outputDir, "output-dir", "./type-sizes", "HTML output directory")
	reportCmd.Flags().IntVar(&maxDepth, "max-depth", 0, "Limit rendered nesting depth (0 = unlimited)")
	rootCmd.PersistentFlags().StringVar(&touchFile, "touch", "src/main.rs", "Touch this file to force re-linking (empty to disable)")
	rootCmd.AddCommand(reportCmd)
}
