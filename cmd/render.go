package cmd

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/metamon-cli/internal/metadata"
	"github.com/KaramelBytes/metamon-cli/internal/parser"
	"github.com/KaramelBytes/metamon-cli/internal/render"
	"github.com/KaramelBytes/metamon-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	renderClassify classifyFlags
	renderInput    inputFlags
	renderMetadata string
	renderOutput   string
	renderOutSep   string
)

var renderCmd = &cobra.Command{
	Use:   "render <file>",
	Short: "Rewrite a file's values by their column metadata",
	Long: `Render quotes text in categorical and textual columns, turns binary columns into
true/false and replaces numeric values with bucket labels such as 1<=price<5.

Metadata is inferred on the fly unless --metadata points at a report written by 'infer'.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		popt, err := renderInput.options(cmd)
		if err != nil {
			return err
		}
		tbl, err := parser.ParseFile(path, popt)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		var rep *metadata.Report
		if renderMetadata != "" {
			rep, err = metadata.LoadReport(renderMetadata)
			if err != nil {
				return err
			}
		} else {
			opt, err := renderClassify.options(cmd)
			if err != nil {
				return err
			}
			rep, err = metadata.Infer(cmd.Context(), filepath.Base(path), tbl, opt)
			if err != nil {
				return err
			}
		}

		out, err := render.Table(tbl, rep)
		if err != nil {
			return err
		}
		sep := popt.Separator
		if renderOutSep != "" {
			if sep, err = parseSeparator(renderOutSep); err != nil {
				return err
			}
		}
		if sep == 0 {
			sep = ','
			if strings.EqualFold(filepath.Ext(path), ".tsv") {
				sep = '\t'
			}
		}

		if renderOutput == "" {
			return render.WriteDelimited(cmd.OutOrStdout(), out, sep)
		}
		var buf bytes.Buffer
		if err := render.WriteDelimited(&buf, out, sep); err != nil {
			return err
		}
		if err := utils.SafeWriteFile(renderOutput, buf.Bytes()); err != nil {
			return fmt.Errorf("write rendered file: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "✓ Wrote %s\n", renderOutput)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderClassify.register(renderCmd)
	renderInput.register(renderCmd)
	renderCmd.Flags().StringVar(&renderMetadata, "metadata", "", "metadata report (.yaml or .json) to render with instead of inferring")
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "output file (default stdout)")
	renderCmd.Flags().StringVar(&renderOutSep, "out-separator", "", "output field separator (default: input separator, else ',')")
}
