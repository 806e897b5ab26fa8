package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/metamon-cli/internal/metadata"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	bucketBoundaries string
	bucketCount      int
	bucketName       string
)

var bucketizeCmd = &cobra.Command{
	Use:   "bucketize [--boundaries 0,3,12 | --buckets K] <numbers...>",
	Short: "Print the bucket label of each number",
	Long: `Bucketize labels every number with the half-open interval it falls in, e.g. 3<=x<12.

Boundaries come from --boundaries, or are spread evenly over the given numbers with --buckets.
Use -- before the numbers when some are negative.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		numbers, err := parseDecimals(args)
		if err != nil {
			return err
		}
		var bounds []decimal.Decimal
		if strings.TrimSpace(bucketBoundaries) != "" {
			bounds, err = parseDecimals(strings.Split(bucketBoundaries, ","))
			if err != nil {
				return fmt.Errorf("invalid --boundaries: %w", err)
			}
		} else if bucketCount > 0 {
			bounds = metadata.Boundaries(numbers, bucketCount)
		} else if bucketCount < 0 {
			return fmt.Errorf("invalid --buckets: %d (must be >= 1)", bucketCount)
		}
		out := cmd.OutOrStdout()
		for _, label := range metadata.Bucketize(numbers, bounds, bucketName) {
			fmt.Fprintln(out, label)
		}
		return nil
	},
}

func parseDecimals(raw []string) ([]decimal.Decimal, error) {
	out := make([]decimal.Decimal, 0, len(raw))
	for _, s := range raw {
		d, err := decimal.NewFromString(strings.TrimSpace(s))
		if err != nil {
			return nil, fmt.Errorf("not a number: %q", s)
		}
		out = append(out, d)
	}
	return out, nil
}

func init() {
	rootCmd.AddCommand(bucketizeCmd)
	bucketizeCmd.Flags().StringVar(&bucketBoundaries, "boundaries", "", "comma-separated bucket boundaries")
	bucketizeCmd.Flags().IntVar(&bucketCount, "buckets", 0, "derive this many evenly spaced buckets from the numbers")
	bucketizeCmd.Flags().StringVar(&bucketName, "name", metadata.DefaultVariableName, "variable name used in labels")
}
