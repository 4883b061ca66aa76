package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/nasdf/capyql"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// envPrefix is prepended to the upper cased flag names when reading the environment.
const envPrefix = "CAPYQL"

// Config contains the settings shared by every command.
type Config struct {
	// Schema is the path of the GraphQL SDL file declaring the collections.
	Schema string `mapstructure:"schema"`
	// Data is the path of a YAML file mapping collection names to lists of records.
	Data string `mapstructure:"data"`
	// Snapshot is the path of a CAR snapshot loaded instead of Schema and Data.
	Snapshot string `mapstructure:"snapshot"`
	// LogLevel is one of debug, info, warn or error.
	LogLevel string `mapstructure:"log-level"`
}

// loadConfig merges the config file, environment and flags of the command.
//
// Flags take precedence over the environment, which takes precedence over the config file.
func loadConfig(cmd *cobra.Command) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, err
	}
	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Logger returns a colored text logger writing to stderr.
func (c *Config) Logger(cmd *cobra.Command) (*slog.Logger, error) {
	var level slog.Level
	if c.LogLevel != "" {
		if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
			return nil, fmt.Errorf("invalid log level %q", c.LogLevel)
		}
	}
	handler := tint.NewHandler(cmd.ErrOrStderr(), &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		NoColor:    os.Getenv("NO_COLOR") != "",
	})
	return slog.New(handler), nil
}

// Open returns the DB described by the config.
//
// A snapshot is imported as is. Otherwise the schema is opened and the
// collections are seeded from the data file in declaration order.
func (c *Config) Open(ctx context.Context, logger *slog.Logger) (*capyql.DB, error) {
	if c.Snapshot != "" {
		f, err := os.Open(c.Snapshot)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return capyql.Import(ctx, f, capyql.WithLogger(logger))
	}
	if c.Schema == "" {
		return nil, errors.New("a schema or snapshot is required")
	}
	source, err := os.ReadFile(c.Schema)
	if err != nil {
		return nil, err
	}
	db, err := capyql.Open(string(source), capyql.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	if c.Data == "" {
		return db, nil
	}
	if err := seed(db, c.Data); err != nil {
		return nil, err
	}
	return db, nil
}

func seed(db *capyql.DB, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var records map[string][]map[string]any
	if err := yaml.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("failed to parse data: %w", err)
	}
	for name := range records {
		if _, err := db.Collection(name); err != nil {
			return err
		}
	}
	for _, col := range db.Collections() {
		for _, fields := range records[col.Name()] {
			if _, err := col.Create(fields); err != nil {
				return err
			}
		}
	}
	return nil
}
