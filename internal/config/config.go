package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// DefaultOutput is the artifact name used when none is configured.
const DefaultOutput = "individual_sequence_amino_acid_percentages.csv"

// Policies for records without canonical residues.
const (
	OnEmptyAbort = "abort"
	OnEmptySkip  = "skip"
)

type Config struct {
	InputFiles []string `mapstructure:"input_files"`
	OutputCSV  string   `mapstructure:"output_csv"`
	IDLabel    string   `mapstructure:"id_label"`
	OnEmpty    string   `mapstructure:"on_empty"`
	LogFile    string   `mapstructure:"log_file"`
	LogLevel   string   `mapstructure:"log_level"`
}

// LoadConfig loads a config file (JSON, YAML or TOML, by extension) from the
// given path. If path is empty, looks for ./config.json; a missing default
// file is not fatal and yields the defaults.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("output_csv", DefaultOutput)
	v.SetDefault("id_label", "identifier")
	v.SetDefault("on_empty", OnEmptyAbort)
	v.SetDefault("log_level", "info")

	explicit := path != ""
	if !explicit {
		path = "config.json"
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		// a missing ./config.json just means defaults
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	return &c, nil
}

// Validate checks the settings a run depends on.
func (c *Config) Validate() error {
	if len(c.InputFiles) == 0 {
		return errors.New("no input files configured")
	}
	if strings.TrimSpace(c.OutputCSV) == "" {
		return errors.New("output_csv must not be empty")
	}
	switch c.OnEmpty {
	case OnEmptyAbort, OnEmptySkip:
	default:
		return fmt.Errorf("on_empty must be %q or %q, got %q", OnEmptyAbort, OnEmptySkip, c.OnEmpty)
	}
	return nil
}
