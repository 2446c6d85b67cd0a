// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/danielhkuo/voteledger/models"
)

type Config struct {
	Port            int            `yaml:"port"            envconfig:"PORT"`
	MetricsPath     string         `yaml:"metricsPath"     envconfig:"METRICS_PATH"`
	DatabaseType    string         `yaml:"databaseType"    envconfig:"DATABASE_TYPE"`
	DatabaseURL     string         `yaml:"databaseUrl"     envconfig:"DATABASE_URL"`
	AdminAddress    models.Address `yaml:"adminAddress"    envconfig:"ADMIN_ADDRESS"`
	TokenSecret     string         `yaml:"tokenSecret"     envconfig:"TOKEN_SECRET"`
	TokenTTL        time.Duration  `yaml:"tokenTtl"        envconfig:"TOKEN_TTL"`
	ShutdownTimeout time.Duration  `yaml:"shutdownTimeout" envconfig:"SHUTDOWN_TIMEOUT"`
	Debug           bool           `yaml:"debug"           envconfig:"DEBUG"`
}

// Defaults returns the configuration used before any file, environment
// variable or flag is applied
func Defaults() Config {
	return Config{
		Port:            3318,
		MetricsPath:     "/metrics",
		DatabaseType:    "memory",
		TokenTTL:        24 * time.Hour,
		ShutdownTimeout: 10 * time.Second,
	}
}

var validDatabaseTypes = map[string]bool{
	"memory":   true,
	"sqlite":   true,
	"postgres": true,
	"badger":   true,
}

// Load applies .env, the YAML config file and the environment over Defaults.
// configFile falls back to CONFIG_FILE. Nothing is validated.
func Load(configFile string) (Config, error) {
	cfg := Defaults()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	if configFile == "" {
		configFile = os.Getenv("CONFIG_FILE")
	}
	if configFile != "" {
		if err := loadFile(configFile, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("invalid environment: %w", err)
	}
	return cfg, nil
}

// ParseFlags builds the configuration from defaults, an optional YAML file,
// the environment and finally args. Later sources win.
func ParseFlags(args []string) (Config, error) {
	defaults := Defaults()

	var (
		port            int
		metricsPath     string
		databaseURL     string
		databaseType    string
		adminAddress    string
		tokenSecret     string
		tokenTTL        time.Duration
		shutdownTimeout time.Duration
		debug           bool
		configFile      string
	)

	flags := pflag.NewFlagSet("voteledger", pflag.ContinueOnError)

	// Network config (can be CLI args or env)
	flags.IntVarP(&port, "port", "p", defaults.Port, "Server port")
	flags.StringVar(&metricsPath, "metrics-path", defaults.MetricsPath, "Path serving prometheus metrics")
	flags.StringVarP(&databaseURL, "database-url", "d", "", "Database URL or badger directory")
	flags.StringVarP(&databaseType, "database-type", "t", defaults.DatabaseType, "Database type (memory, sqlite, postgres or badger)")
	flags.StringVarP(&configFile, "config", "c", "", "Path to a YAML config file")

	// Election
	flags.StringVar(&adminAddress, "admin", "", "Address of the election administrator")

	// Secrets (prefer env variables, but allow CLI for dev)
	flags.StringVar(&tokenSecret, "token-secret", "", "Caller token signing secret (prefer env)")
	flags.DurationVar(&tokenTTL, "token-ttl", defaults.TokenTTL, "Lifetime of issued caller tokens (0 never expires)")

	flags.DurationVar(&shutdownTimeout, "shutdown-timeout", defaults.ShutdownTimeout, "Graceful shutdown timeout")
	flags.BoolVar(&debug, "debug", false, "Enable debug logging")

	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}

	cfg, err := Load(configFile)
	if err != nil {
		return Config{}, err
	}

	// CLI flags override env
	if flags.Changed("port") {
		cfg.Port = port
	}
	if flags.Changed("metrics-path") {
		cfg.MetricsPath = metricsPath
	}
	if flags.Changed("database-url") {
		cfg.DatabaseURL = databaseURL
	}
	if flags.Changed("database-type") {
		cfg.DatabaseType = databaseType
	}
	if flags.Changed("admin") {
		cfg.AdminAddress = models.Address(adminAddress)
	}
	if flags.Changed("token-secret") {
		cfg.TokenSecret = tokenSecret
	}
	if flags.Changed("token-ttl") {
		cfg.TokenTTL = tokenTTL
	}
	if flags.Changed("shutdown-timeout") {
		cfg.ShutdownTimeout = shutdownTimeout
	}
	if flags.Changed("debug") {
		cfg.Debug = debug
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	buf, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(buf, cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

func (c *Config) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if !validDatabaseTypes[c.DatabaseType] {
		return fmt.Errorf("unknown database type %q", c.DatabaseType)
	}
	if c.DatabaseType != "memory" && c.DatabaseURL == "" {
		return errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	// Secrets - MUST be provided
	admin, err := models.ParseAddress(c.AdminAddress.String())
	if err != nil {
		return errors.New("ADMIN_ADDRESS required")
	}
	c.AdminAddress = admin
	if err := c.ValidateTokenSettings(); err != nil {
		return err
	}
	if c.MetricsPath == "" || c.MetricsPath[0] != '/' {
		return fmt.Errorf("metrics path %q must start with /", c.MetricsPath)
	}
	return nil
}

// ValidateTokenSettings checks the fields needed to sign caller tokens
func (c Config) ValidateTokenSettings() error {
	if c.TokenSecret == "" {
		return errors.New("TOKEN_SECRET required")
	}
	if c.TokenTTL < 0 {
		return errors.New("token TTL must not be negative")
	}
	return nil
}
