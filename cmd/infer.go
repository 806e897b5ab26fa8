package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/metamon-cli/internal/metadata"
	"github.com/KaramelBytes/metamon-cli/internal/parser"
	"github.com/KaramelBytes/metamon-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	inferClassify classifyFlags
	inferInput    inputFlags
	inferFormat   string
	inferOutput   string
	inferQuiet    bool
)

var inferCmd = &cobra.Command{
	Use:   "infer <files...>",
	Short: "Infer column metadata for one or more tabular files",
	Long: `Infer parses each file (CSV/TSV/TXT, JSONL, YAML or XLSX), classifies every column and
writes the metadata report as YAML (default), JSON or Markdown.

With a single input the report goes to stdout or to --output. With several inputs, --output
names a directory that receives one <name>.metadata.<ext> file per input.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := expandInputs(args)
		if err != nil {
			return err
		}
		opt, err := inferClassify.options(cmd)
		if err != nil {
			return err
		}
		popt, err := inferInput.options(cmd)
		if err != nil {
			return err
		}
		format := inferFormat
		if !cmd.Flags().Changed("format") && cfg != nil {
			format = cfg.OutputFormat
		}
		format = strings.ToLower(strings.TrimSpace(format))
		switch format {
		case metadata.FormatYAML, metadata.FormatJSON, metadata.FormatMarkdown:
		case "yml":
			format = metadata.FormatYAML
		case "md":
			format = metadata.FormatMarkdown
		default:
			return fmt.Errorf("unsupported --format: %s (use yaml|json|markdown)", format)
		}

		outDir := ""
		if inferOutput != "" && (len(files) > 1 || utils.IsDir(inferOutput) || strings.HasSuffix(inferOutput, string(os.PathSeparator))) {
			outDir = inferOutput
			if err := utils.EnsureDir(outDir); err != nil {
				return err
			}
		}

		stderr := cmd.ErrOrStderr()
		used := map[string]int{}
		total := len(files)
		for i, path := range files {
			if !inferQuiet {
				fmt.Fprintf(stderr, "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			tbl, err := parser.ParseFile(path, popt)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			rep, err := metadata.Infer(cmd.Context(), filepath.Base(path), tbl, opt)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			slog.Debug("inferred metadata", "file", path, "rows", rep.Rows, "columns", len(rep.Columns))
			b, err := rep.Encode(format)
			if err != nil {
				return err
			}

			switch {
			case outDir != "":
				name := reportFileName(path, format, used)
				dst := filepath.Join(outDir, name)
				if err := utils.SafeWriteFile(dst, b); err != nil {
					return fmt.Errorf("write report: %w", err)
				}
				if !inferQuiet {
					fmt.Fprintf(stderr, "✓ Wrote %s\n", dst)
				}
			case inferOutput != "":
				if err := utils.SafeWriteFile(inferOutput, b); err != nil {
					return fmt.Errorf("write report: %w", err)
				}
				if !inferQuiet {
					fmt.Fprintf(stderr, "✓ Wrote %s\n", inferOutput)
				}
			default:
				if _, err := cmd.OutOrStdout().Write(b); err != nil {
					return err
				}
			}
		}
		return nil
	},
}

// reportFileName derives <base>.metadata.<ext>; repeated bases within one run
// get a __N suffix so reports never overwrite each other.
func reportFileName(path, format string, used map[string]int) string {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	used[stem]++
	if n := used[stem]; n > 1 {
		stem = fmt.Sprintf("%s__%d", stem, n)
	}
	return stem + ".metadata" + metadata.FormatExt(format)
}

func init() {
	rootCmd.AddCommand(inferCmd)
	inferClassify.register(inferCmd)
	inferInput.register(inferCmd)
	inferCmd.Flags().StringVar(&inferFormat, "format", "yaml", "report format: yaml | json | markdown (overrides config)")
	inferCmd.Flags().StringVarP(&inferOutput, "output", "o", "", "output file, or directory for several inputs")
	inferCmd.Flags().BoolVar(&inferQuiet, "quiet", false, "suppress progress and non-essential output")
}
