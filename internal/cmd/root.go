package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jedrzejboczar/rust-type-sizes/internal/config"
	"github.com/jedrzejboczar/rust-type-sizes/internal/output"
	"github.com/jedrzejboczar/rust-type-sizes/internal/sizes"
)

var (
	// Version is set at build time
	version = "dev"
	// Commit is set at build time
	commit = "none"
	// Date is set at build time
	date = "unknown"
)

// SetVersionInfo sets the version information from build flags
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}

// defaultMaxLength caps displayed type names; rustc names get very long once
// generics are involved.
const defaultMaxLength = 120

// Global flags
var (
	configFile string
	inputPath  string
	outputFmt  string
	outputType output.Format
	queryExpr  string
	queryFile  string
	errorFmt   string
	quietFlag  bool

	sortBy     string
	descFlag   bool
	nameFilter string
	minSize    int
	includes   []string
	excludes   []string
	excludeStd bool
	maxLength  int
)

// Settings resolved from flags and config during PersistentPreRunE.
var (
	sortKey        sizes.SortKey
	sortDescending bool
	typeFilter     sizes.Filter
	nameLimit      int
)

var rootCmd = &cobra.Command{
	Use:   "type-sizes",
	Short: "Type size reports for Rust crates",
	Long: `type-sizes compiles a Rust crate using
cargo +nightly rustc <args> -- -Zprint-type-sizes, parses the compiler
output and renders an interactive HTML report of type memory layouts.

Pre-captured compiler output can be read from a file or stdin with --input
instead of compiling. Arguments after "--" are forwarded to cargo rustc.`,
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceErrors = true

		skipConfigLoad := cmd.Name() == "config" || (cmd.Parent() != nil && cmd.Parent().Name() == "config")
		var cfg *config.Config
		if !skipConfigLoad {
			loadedCfg, err := loadConfigFromFlag()
			if err != nil {
				return err
			}
			cfg = loadedCfg
		}

		// Output format selection: --output > config > default
		formatStr := outputFmt
		if !flagChanged(cmd, "output") && !flagChanged(cmd, "format") && cfg != nil && strings.TrimSpace(cfg.OutputFormat) != "" {
			formatStr = strings.TrimSpace(cfg.OutputFormat)
		}
		if !flagChanged(cmd, "output") && !flagChanged(cmd, "format") && !isTerminal(cmd.OutOrStdout()) {
			formatStr = "json"
		}
		format, err := output.ParseFormat(formatStr)
		if err != nil {
			return err
		}
		outputType = format
		outputFmt = string(format)

		// jq query
		if queryExpr != "" && queryFile != "" {
			return fmt.Errorf("use only one of --query or --query-file")
		}
		if queryFile != "" {
			loaded, err := readInputSource(queryFile, cmd.InOrStdin())
			if err != nil {
				return err
			}
			queryExpr = loaded
		}

		if err := validateErrorFormat(errorFmt); err != nil {
			return err
		}

		// Sorting: --sort-by > config > size; direction --desc > config >
		// per-key default (size largest first, names lexicographic).
		sortStr := sortBy
		if !flagChanged(cmd, "sort-by") && cfg != nil && cfg.SortBy != "" {
			sortStr = cfg.SortBy
		}
		key, err := sizes.ParseSortKey(sortStr)
		if err != nil {
			return err
		}
		sortKey = key
		switch {
		case flagChanged(cmd, "desc"):
			sortDescending = descFlag
		case cfg != nil && cfg.Descending != nil:
			sortDescending = *cfg.Descending
		default:
			sortDescending = key.DefaultDescending()
		}

		excludePatterns := excludes
		if cfg != nil {
			excludePatterns = append(excludePatterns, cfg.Exclude...)
		}
		if excludeStd {
			excludePatterns = append(excludePatterns, sizes.ExcludeStdPattern)
		}
		filter, err := sizes.NewFilter(nameFilter, minSize, includes, excludePatterns)
		if err != nil {
			return err
		}
		typeFilter = filter

		nameLimit = maxLength
		if !flagChanged(cmd, "max-length") && cfg != nil && cfg.MaxLength != nil {
			nameLimit = *cfg.MaxLength
		}

		resolveReportDefaults(cmd, cfg)

		ctx := cmd.Context()
		ctx = withIO(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		ctx = output.WithFormat(ctx, outputType)
		ctx = output.WithQuery(ctx, queryExpr)
		ctx = output.WithQuiet(ctx, quietFlag)
		ctx = withErrorFormat(ctx, errorFmt)
		cmd.SetContext(ctx)

		if effectiveErrorFormat(ctx) != "text" {
			cmd.SilenceUsage = true
		}
		return nil
	},
}

// Execute runs the root command
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		printCommandError(rootCmd.Context(), err)
		return err
	}
	return nil
}

func loadConfigFromFlag() (*config.Config, error) {
	if configFile != "" {
		return config.Load(configFile)
	}
	return config.ReadConfig()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("type-sizes version %s (commit: %s, built: %s)\n", version, commit, date))

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&inputPath, "input", "i", "", "Read compiler output from file instead of compiling (use - for stdin)")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "text", "Output format (text|json|yaml|table|tree)")
	rootCmd.PersistentFlags().StringVar(&outputFmt, "format", "text", "Alias for --output")
	rootCmd.PersistentFlags().StringVar(&queryExpr, "query", "", "jq expression to filter JSON output")
	rootCmd.PersistentFlags().StringVar(&queryFile, "query-file", "", "Read jq expression from file (use - for stdin)")
	rootCmd.PersistentFlags().StringVar(&errorFmt, "error-format", "auto", "Error output format (auto|text|json|yaml)")
	rootCmd.PersistentFlags().BoolVar(&quietFlag, "quiet", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: ~/.config/type-sizes/config.yaml)")

	rootCmd.PersistentFlags().StringVar(&sortBy, "sort-by", "", "Sort types by field (size|name|alignment)")
	rootCmd.PersistentFlags().BoolVar(&descFlag, "desc", false, "Sort in descending order (default depends on the sort key)")
	rootCmd.PersistentFlags().StringVar(&nameFilter, "name-filter", "", "Keep only types whose name contains the substring")
	rootCmd.PersistentFlags().IntVar(&minSize, "min-size", 0, "Keep only types of at least this many bytes")
	rootCmd.PersistentFlags().StringArrayVar(&includes, "include", nil, "Include only types matching regex (repeatable)")
	rootCmd.PersistentFlags().StringArrayVar(&excludes, "exclude", nil, "Exclude types matching regex (repeatable)")
	rootCmd.PersistentFlags().BoolVar(&excludeStd, "exclude-std", false, "Exclude types from std:: and core::")
	rootCmd.PersistentFlags().IntVar(&maxLength, "max-length", defaultMaxLength, "Limit length of type names (0 to disable)")
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func flagChanged(cmd *cobra.Command, name string) bool {
	flag := cmd.Flags().Lookup(name)
	if flag == nil {
		flag = cmd.InheritedFlags().Lookup(name)
	}
	return flag != nil && flag.Changed
}
