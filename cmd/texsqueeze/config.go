package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config represents the texsqueeze configuration file
// (~/.config/texsqueeze/config.yaml). Pointer fields distinguish "not set"
// from zero values.
type Config struct {
	// Compression defaults
	Format    string `yaml:"format"`
	Quality   string `yaml:"quality"`
	MaxLevels *int   `yaml:"max_levels"`
	SRGB      *bool  `yaml:"srgb"`
	YFlip     *bool  `yaml:"yflip"`

	// Output
	Wrap   string `yaml:"wrap"`
	Writer string `yaml:"writer"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "texsqueeze", "config.yaml")
}

// LoadConfig reads the config file. A missing file yields a zero Config.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return Config{}, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config %q: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %q: %w", path, err)
	}
	return cfg, nil
}

type configKey struct{}

func withConfig(ctx context.Context, cfg Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

func configFrom(ctx context.Context) Config {
	cfg, _ := ctx.Value(configKey{}).(Config)
	return cfg
}

// stringSetting returns the flag value unless it was left at its default
// and the config provides one.
func stringSetting(c *cli.Command, flag, fromConfig string) string {
	if fromConfig != "" && !c.IsSet(flag) {
		return fromConfig
	}
	return c.String(flag)
}

func boolSetting(c *cli.Command, flag string, fromConfig *bool) bool {
	if fromConfig != nil && !c.IsSet(flag) {
		return *fromConfig
	}
	return c.Bool(flag)
}

func intSetting(c *cli.Command, flag string, fromConfig *int) int {
	if fromConfig != nil && !c.IsSet(flag) {
		return *fromConfig
	}
	return int(c.Int(flag))
}
