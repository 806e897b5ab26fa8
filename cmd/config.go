package cmd

import (
	"fmt"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/metamon-cli/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set metamon configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if cfg == nil {
			fmt.Fprintln(out, "No config loaded")
			return nil
		}
		sep := cfg.Separator
		if sep == "" {
			sep = "(by extension)"
		}
		fmt.Fprintf(out, "separator: %s\n", sep)
		fmt.Fprintf(out, "num_buckets: %d\n", cfg.NumBuckets)
		fmt.Fprintf(out, "max_unique_values: %d\n", cfg.MaxUniqueValues)
		fmt.Fprintf(out, "density_factor: %.3f\n", cfg.DensityFactor)
		fmt.Fprintf(out, "workers: %d\n", cfg.Workers)
		fmt.Fprintf(out, "output_format: %s\n", cfg.OutputFormat)
		fmt.Fprintf(out, "single_value_categorical: %t\n", cfg.SingleValueCategorical)
		if cfg.SeqURL != "" {
			fmt.Fprintf(out, "seq_url: %s\n", cfg.SeqURL)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		next := *cfg
		switch key {
		case "separator":
			if _, err := parseSeparator(val); err != nil {
				return err
			}
			next.Separator = val
		case "num_buckets":
			i, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid int for num_buckets: %w", err)
			}
			next.NumBuckets = i
		case "max_unique_values":
			i, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid int for max_unique_values: %w", err)
			}
			next.MaxUniqueValues = i
		case "density_factor":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return fmt.Errorf("invalid float for density_factor: %w", err)
			}
			next.DensityFactor = f
		case "workers":
			i, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid int for workers: %w", err)
			}
			next.Workers = i
		case "output_format":
			next.OutputFormat = strings.ToLower(val)
		case "single_value_categorical":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid bool for single_value_categorical: %w", err)
			}
			next.SingleValueCategorical = b
		case "seq_url":
			next.SeqURL = val
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := next.Validate(); err != nil {
			return err
		}
		if err := cfgpkg.Save(&next, cfgFile); err != nil {
			return err
		}
		cfg = &next
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
