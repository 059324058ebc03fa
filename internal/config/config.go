package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// DataFile is the dataset loaded when no --file is given; empty means the
	// bundled sample.
	DataFile string `mapstructure:"data_file" yaml:"data_file"`
	TopN     int    `mapstructure:"top_n" yaml:"top_n"`

	// Chart output
	ChartWidth  int    `mapstructure:"chart_width" yaml:"chart_width"`
	ChartHeight int    `mapstructure:"chart_height" yaml:"chart_height"`
	ChartFormat string `mapstructure:"chart_format" yaml:"chart_format"`

	// Dashboard
	Addr          string `mapstructure:"addr" yaml:"addr"`
	MaxUploadMB   int    `mapstructure:"max_upload_mb" yaml:"max_upload_mb"`
	SessionTTLMin int    `mapstructure:"session_ttl_min" yaml:"session_ttl_min"`

	NoColor bool `mapstructure:"no_color" yaml:"no_color"`
}

// Defaults returns the built-in configuration used when no file or
// environment override is present.
func Defaults() *Global {
	return &Global{
		TopN:          10,
		ChartWidth:    700,
		ChartHeight:   400,
		ChartFormat:   "png",
		Addr:          "127.0.0.1:8501",
		MaxUploadMB:   50,
		SessionTTLMin: 60,
	}
}

// Dir returns the configuration directory, ~/.mbtiscope.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".mbtiscope"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.mbtiscope/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
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
// Precedence: env > config file > defaults. Command flags are applied by the caller.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("MBTISCOPE")
	v.AutomaticEnv()

	// Defaults
	d := Defaults()
	v.SetDefault("data_file", d.DataFile)
	v.SetDefault("top_n", d.TopN)
	v.SetDefault("chart_width", d.ChartWidth)
	v.SetDefault("chart_height", d.ChartHeight)
	v.SetDefault("chart_format", d.ChartFormat)
	v.SetDefault("addr", d.Addr)
	v.SetDefault("max_upload_mb", d.MaxUploadMB)
	v.SetDefault("session_ttl_min", d.SessionTTLMin)
	v.SetDefault("no_color", d.NoColor)

	// Config file
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
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.TopN <= 0 {
		c.TopN = d.TopN
	}
	return &c, nil
}
