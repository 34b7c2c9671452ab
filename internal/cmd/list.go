package cmd

import (
	"github.com/spf13/cobra"

	"github.com/jedrzejboczar/rust-type-sizes/internal/output"
)

var listCmd = &cobra.Command{
	Use:   "list [-- cargo args...]",
	Short: "List top-level types with their sizes",
	Long: `Compiles the crate (or reads --input) and prints a one-line summary
per type. Defaults to the table format; structured formats still apply when
requested explicitly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		types, _, err := collectTypes(cmd, args)
		if err != nil {
			return err
		}

		format := outputType
		if format == output.FormatText {
			format = output.FormatTable
		}
		printer := output.NewPrinter(stdoutFromContext(ctx), format)
		return printer.Print(ctx, types)
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
