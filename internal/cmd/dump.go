package cmd

import (
	"github.com/spf13/cobra"

	"github.com/jedrzejboczar/rust-type-sizes/internal/output"
)

var dumpCmd = &cobra.Command{
	Use:   "dump [-- cargo args...]",
	Short: "Print the parsed type forest",
	Long: `Compiles the crate (or reads --input) and prints the parsed type
forest in the selected output format instead of rendering HTML. JSON output
can be filtered with a jq expression via --query.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		types, _, err := collectTypes(cmd, args)
		if err != nil {
			return err
		}

		printer := output.NewPrinter(stdoutFromContext(ctx), outputType)
		return printer.Print(ctx, types)
	},
}

func init() {
	rootCmd.AddCommand(dumpCmd)
}
