// Package config loads the global mapping defaults and run options from
// defaults, a YAML file, HBMSOURCE_* environment variables and CLI flags.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"hbm-source/internal/source"
	"hbm-source/internal/strategy"
)

// Default values.
const (
	DefaultInclude        = "**/*.hbm.yaml"
	DefaultCascade        = "none"
	DefaultAccess         = "property"
	DefaultNamingStrategy = "default"
	DefaultLogLevel       = "info"
	DefaultOutput         = "table"

	envPrefix = "HBMSOURCE_"
)

// ConfigFileNames are looked up in the working directory when no config
// file is given explicitly.
var ConfigFileNames = []string{"hbm-source.yaml", "hbm-source.yml"}

// Config is the fully layered configuration of a run.
type Config struct {
	AssociationsLazy bool     `koanf:"associations_lazy"`
	DefaultCascade   string   `koanf:"default_cascade"`
	DefaultAccess    string   `koanf:"default_access"`
	DefaultPackage   string   `koanf:"default_package"`
	DefaultSchema    string   `koanf:"default_schema"`
	DefaultCatalog   string   `koanf:"default_catalog"`
	QuoteIdentifiers bool     `koanf:"quote_identifiers"`
	AutoImport       bool     `koanf:"auto_import"`
	NamingStrategy   string   `koanf:"naming_strategy"`
	Include          []string `koanf:"include"`
	FailFast         bool     `koanf:"fail_fast"`
	LogLevel         string   `koanf:"log_level"`
	Output           string   `koanf:"output"`

	// ConfigFile is the file that was loaded, empty if none.
	ConfigFile string `koanf:"-"`
}

func defaults() map[string]any {
	return map[string]any{
		"associations_lazy": true,
		"default_cascade":   DefaultCascade,
		"default_access":    DefaultAccess,
		"default_package":   "",
		"default_schema":    "",
		"default_catalog":   "",
		"quote_identifiers": false,
		"auto_import":       true,
		"naming_strategy":   DefaultNamingStrategy,
		"include":           []string{DefaultInclude},
		"fail_fast":         false,
		"log_level":         DefaultLogLevel,
		"output":            DefaultOutput,
	}
}

// findConfigFile returns explicit if set, otherwise the first default
// config file present in the working directory.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}

	for _, name := range ConfigFileNames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}

	return ""
}

// Load layers the configuration sources.
// Precedence (highest to lowest): flags > env vars > config file > defaults.
// Only flags that were explicitly set take part; kebab-case flag names map
// to snake_case keys.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	used := findConfigFile(cfgFile)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// HBMSOURCE_NAMING_STRATEGY -> naming_strategy
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}

			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	cfg.ConfigFile = used

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	if _, err := strategy.NamingStrategyByName(c.NamingStrategy); err != nil {
		return fmt.Errorf("invalid naming_strategy: %w", err)
	}

	if _, err := strategy.ParseCascadeStyles(c.DefaultCascade, DefaultCascade, "default_cascade"); err != nil {
		return fmt.Errorf("invalid default_cascade: %w", err)
	}

	switch c.Output {
	case "table", "json":
	default:
		return fmt.Errorf("invalid output %q: expected table or json", c.Output)
	}

	if _, err := c.Level(); err != nil {
		return err
	}

	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return lvl, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}

	return lvl, nil
}

// MappingDefaults returns the root binding context every document inherits.
func (c *Config) MappingDefaults() (*source.MappingDefaults, error) {
	ns, err := strategy.NamingStrategyByName(c.NamingStrategy)
	if err != nil {
		return nil, err
	}

	return &source.MappingDefaults{
		Package:          c.DefaultPackage,
		Schema:           c.DefaultSchema,
		Catalog:          c.DefaultCatalog,
		Cascade:          c.DefaultCascade,
		Access:           c.DefaultAccess,
		AssociationsLazy: c.AssociationsLazy,
		AutoImport:       c.AutoImport,
		QuoteIdentifiers: c.QuoteIdentifiers,
		NamingStrategy:   ns,
	}, nil
}
