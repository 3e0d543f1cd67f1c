package main

import (
	"os"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"go.hasen.dev/archive"
)

type Config struct {
	LogLevel   string `toml:"log_level"`
	Jobs       int    `toml:"jobs"`
	MaxLength  int    `toml:"max_length"`
	StrictText bool   `toml:"strict_text"`
}

func defaultConfig() Config {
	return Config{
		LogLevel:  "info",
		Jobs:      4,
		MaxLength: archive.DefaultMaxLength,
	}
}

func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "read config")
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse config %s", path)
	}
	def := defaultConfig()
	if cfg.LogLevel == "" {
		cfg.LogLevel = def.LogLevel
	}
	if cfg.Jobs == 0 {
		cfg.Jobs = def.Jobs
	}
	if cfg.MaxLength == 0 {
		cfg.MaxLength = def.MaxLength
	}
	return cfg, nil
}

// configure loads the config file named by --config and lets explicit flags
// override it.
func configure(c *cli.Context) (Config, error) {
	cfg, err := loadConfig(c.String("config"))
	if err != nil {
		return cfg, err
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("jobs") {
		cfg.Jobs = c.Int("jobs")
	}
	if c.IsSet("strict-text") {
		cfg.StrictText = c.Bool("strict-text")
	}
	if cfg.Jobs < 1 {
		return cfg, errors.Errorf("jobs must be at least 1, got %d", cfg.Jobs)
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return cfg, errors.Wrap(err, "log level")
	}
	logrus.SetLevel(level)
	return cfg, nil
}

func (cfg Config) archiveOptions() []archive.Option {
	opts := []archive.Option{archive.WithMaxLength(cfg.MaxLength)}
	if cfg.StrictText {
		opts = append(opts, archive.WithStrictText())
	}
	return opts
}
