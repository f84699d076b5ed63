package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/insightdelivered/statement-splitter/internal/logger"
)

// EnvPrefix namespaces environment overrides: server.addr is read from
// SPLITTER_SERVER_ADDR.
const EnvPrefix = "SPLITTER"

const (
	ExportCSV  = "csv"
	ExportXLSX = "xlsx"
)

// Config holds every setting the CLI and the HTTP server read.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Server  ServerConfig  `mapstructure:"server"`
	Export  ExportConfig  `mapstructure:"export"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type ServerConfig struct {
	Addr        string `mapstructure:"addr"`
	BodyLimitMB int    `mapstructure:"body_limit_mb"`
}

type ExportConfig struct {
	Dir    string `mapstructure:"dir"`
	Format string `mapstructure:"format"`
}

// SetDefaults registers the default for every key. Keys without a default
// are invisible to environment overrides, so each one is listed here.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", logger.FormatConsole)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.body_limit_mb", 50)
	v.SetDefault("export.dir", ".")
	v.SetDefault("export.format", ExportCSV)
}

// Load reads defaults, then the config file, then SPLITTER_* variables.
// An explicit file must exist; without one, ./statement-splitter.yaml is
// used when present.
func Load(v *viper.Viper, file string) (*Config, error) {
	SetDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("statement-splitter")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the commands cannot run with.
func (c *Config) Validate() error {
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	switch strings.ToLower(c.Logging.Format) {
	case logger.FormatConsole, logger.FormatJSON:
	default:
		return fmt.Errorf("logging.format: unknown format %q", c.Logging.Format)
	}
	if c.Server.Addr == "" {
		return errors.New("server.addr: must not be empty")
	}
	if c.Server.BodyLimitMB <= 0 {
		return fmt.Errorf("server.body_limit_mb: must be positive, got %d", c.Server.BodyLimitMB)
	}
	switch strings.ToLower(c.Export.Format) {
	case ExportCSV, ExportXLSX:
	default:
		return fmt.Errorf("export.format: unknown format %q (want csv or xlsx)", c.Export.Format)
	}
	return nil
}
