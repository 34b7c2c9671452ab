package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jedrzejboczar/rust-type-sizes/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := configPath()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(stdoutFromContext(cmd.Context()), path)
		return err
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := configPath()
		if err != nil {
			return err
		}
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}

		enc := yaml.NewEncoder(stdoutFromContext(cmd.Context()))
		enc.SetIndent(2)
		defer func() { _ = enc.Close() }()
		return enc.Encode(cfg)
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := configPath()
		if err != nil {
			return err
		}
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}

		key, value := args[0], args[1]
		switch key {
		case "output_format":
			cfg.OutputFormat = value
		case "output_dir":
			cfg.OutputDir = value
		case "sort_by":
			cfg.SortBy = value
		case "touch":
			cfg.Touch = value
		case "descending":
			desc, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("invalid boolean %q for descending", value)
			}
			cfg.Descending = &desc
		case "max_length":
			length, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("invalid integer %q for max_length", value)
			}
			cfg.MaxLength = &length
		default:
			return fmt.Errorf("unknown config key %q", key)
		}

		return cfg.Save(path)
	},
}

func configPath() (string, error) {
	if configFile != "" {
		return configFile, nil
	}
	return config.DefaultConfigPath()
}

func init() {
	configCmd.AddCommand(configPathCmd, configGetCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}
