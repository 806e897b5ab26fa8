package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Separator for delimited input; empty means by extension (tab for .tsv, comma otherwise).
	Separator       string  `mapstructure:"separator" yaml:"separator"`
	NumBuckets      int     `mapstructure:"num_buckets" yaml:"num_buckets"`
	MaxUniqueValues int     `mapstructure:"max_unique_values" yaml:"max_unique_values"`
	DensityFactor   float64 `mapstructure:"density_factor" yaml:"density_factor"`
	// Workers bounds parallel column classification; 0 means GOMAXPROCS.
	Workers                int    `mapstructure:"workers" yaml:"workers"`
	OutputFormat           string `mapstructure:"output_format" yaml:"output_format"`
	SingleValueCategorical bool   `mapstructure:"single_value_categorical" yaml:"single_value_categorical"`

	// Optional Seq server receiving structured logs
	SeqURL string `mapstructure:"seq_url" yaml:"seq_url"`
}

// Dir returns ~/.metamon.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".metamon"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.metamon/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		path = filepath.Join(dir, "config.yaml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Command flags are applied on top by the caller.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("METAMON")
	v.AutomaticEnv()

	v.SetDefault("separator", "")
	v.SetDefault("num_buckets", 10)
	v.SetDefault("max_unique_values", 10)
	v.SetDefault("density_factor", 10.0)
	v.SetDefault("workers", 0)
	v.SetDefault("output_format", "yaml")
	v.SetDefault("single_value_categorical", true)
	v.SetDefault("seq_url", "")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate rejects values the classifier cannot work with.
func (c *Global) Validate() error {
	if c.NumBuckets < 1 {
		return fmt.Errorf("num_buckets must be >= 1, got %d", c.NumBuckets)
	}
	if c.MaxUniqueValues < 0 {
		return fmt.Errorf("max_unique_values must be >= 0, got %d", c.MaxUniqueValues)
	}
	if c.DensityFactor < 0 {
		return fmt.Errorf("density_factor must be >= 0, got %v", c.DensityFactor)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	switch c.OutputFormat {
	case "yaml", "json", "markdown":
	default:
		return fmt.Errorf("invalid output_format: %s (use yaml|json|markdown)", c.OutputFormat)
	}
	return nil
}
