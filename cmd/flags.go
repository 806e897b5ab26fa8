package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/KaramelBytes/metamon-cli/internal/metadata"
	"github.com/KaramelBytes/metamon-cli/internal/parser"
	"github.com/spf13/cobra"
)

// classifyFlags are shared by every command that runs inference.
type classifyFlags struct {
	buckets       int
	maxUnique     int
	densityFactor float64
	workers       int
}

func (f *classifyFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.buckets, "buckets", 10, "number of buckets for numeric columns (overrides config)")
	cmd.Flags().IntVar(&f.maxUnique, "max-unique", 10, "max unique values reported per column, 0 = unlimited (overrides config)")
	cmd.Flags().Float64Var(&f.densityFactor, "density-factor", 10, "categorical when unique < factor*log10(rows) (overrides config)")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "columns classified in parallel, 0 = GOMAXPROCS (overrides config)")
}

// options merges config values and explicitly set flags.
func (f *classifyFlags) options(cmd *cobra.Command) (metadata.Options, error) {
	opt := metadata.DefaultOptions()
	factor := 10.0
	if cfg != nil {
		opt.NumBuckets = cfg.NumBuckets
		opt.MaxUniqueValues = cfg.MaxUniqueValues
		opt.SingleValueCategorical = cfg.SingleValueCategorical
		opt.Workers = cfg.Workers
		factor = cfg.DensityFactor
	}
	fl := cmd.Flags()
	if fl.Changed("buckets") {
		opt.NumBuckets = f.buckets
	}
	if fl.Changed("max-unique") {
		opt.MaxUniqueValues = f.maxUnique
	}
	if fl.Changed("density-factor") {
		factor = f.densityFactor
	}
	if fl.Changed("workers") {
		opt.Workers = f.workers
	}
	if opt.NumBuckets < 1 {
		return opt, fmt.Errorf("invalid --buckets: %d (must be >= 1)", opt.NumBuckets)
	}
	if opt.MaxUniqueValues < 0 {
		return opt, fmt.Errorf("invalid --max-unique: %d (must be >= 0)", opt.MaxUniqueValues)
	}
	if factor < 0 {
		return opt, fmt.Errorf("invalid --density-factor: %v (must be >= 0)", factor)
	}
	opt.Threshold = metadata.DensityThreshold(factor)
	if opt.Workers <= 0 {
		opt.Workers = runtime.GOMAXPROCS(0)
	}
	return opt, nil
}

// inputFlags select how files are parsed.
type inputFlags struct {
	separator  string
	sheetName  string
	sheetIndex int
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.separator, "separator", "", "field separator: ',' | ';' | 'tab' | '|' | any single character (default by extension)")
	cmd.Flags().StringVar(&f.sheetName, "sheet-name", "", "XLSX: sheet name to read")
	cmd.Flags().IntVar(&f.sheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
}

func (f *inputFlags) options(cmd *cobra.Command) (parser.Options, error) {
	raw := f.separator
	if !cmd.Flags().Changed("separator") && cfg != nil {
		raw = cfg.Separator
	}
	sep, err := parseSeparator(raw)
	if err != nil {
		return parser.Options{}, err
	}
	return parser.Options{Separator: sep, SheetName: f.sheetName, SheetIndex: f.sheetIndex}, nil
}

// parseSeparator maps a flag value to a rune; empty means choose by extension.
func parseSeparator(s string) (rune, error) {
	switch strings.ToLower(s) {
	case "":
		return 0, nil
	case ",", "comma":
		return ',', nil
	case ";", "semicolon":
		return ';', nil
	case "\t", "\\t", "tab":
		return '\t', nil
	case "|", "pipe":
		return '|', nil
	case " ", "space":
		return ' ', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("unsupported --separator: %s", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	if r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return 0, fmt.Errorf("unsupported --separator: %q", s)
	}
	return r, nil
}

// expandInputs glob-expands args, keeping literal paths that exist, and
// returns a sorted, de-duplicated list.
func expandInputs(args []string) ([]string, error) {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files matched")
	}
	sort.Strings(files)
	return files, nil
}
