// Package config loads plmcheck settings from defaults, an optional YAML
// config file, PLMCHECK_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/reoring/plmcheck/i18n"
	"github.com/reoring/plmcheck/lint"
	"github.com/reoring/plmcheck/rules"
	"github.com/reoring/plmcheck/source"
)

const (
	// AppName is the application name.
	AppName = "plmcheck"
	// ConfigFileName is the config file looked up in the working directory.
	ConfigFileName = ".plmcheck.yaml"
	// EnvPrefix prefixes environment overrides, e.g. PLMCHECK_SCHEMA.
	EnvPrefix = "PLMCHECK"
	// DefaultSchemaPath is used when no schema is configured.
	DefaultSchemaPath = "schema/plm.schema.json"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config holds the resolved settings.
type Config struct {
	Schema        string   `mapstructure:"schema"`
	Lang          string   `mapstructure:"lang"`
	Workers       int      `mapstructure:"workers"`
	DuplicateKeys string   `mapstructure:"duplicate_keys"`
	MaxDepth      int      `mapstructure:"max_depth"`
	Include       []string `mapstructure:"include"`
	Recursive     bool     `mapstructure:"recursive"`
	Format        string   `mapstructure:"format"`
	NoWarnings    bool     `mapstructure:"no_warnings"`
	Verbose       bool     `mapstructure:"verbose"`
	// FailOnLoadError makes unloadable manifests fail the run like invalid ones.
	FailOnLoadError bool `mapstructure:"fail_on_load_error"`
	// Rules are extra conditional lint requirements.
	Rules []rules.Spec `mapstructure:"rules"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Schema:        DefaultSchemaPath,
		Lang:          "en",
		Workers:       runtime.NumCPU(),
		DuplicateKeys: "warn",
		MaxDepth:      256,
		Include:       []string{"*.json"},
		Format:        FormatText,
	}
}

// LoadOptions controls where Load looks for settings.
type LoadOptions struct {
	// ConfigFilePath, when set, must exist and is used exclusively.
	ConfigFilePath string
	// Dir is searched for ConfigFileName when ConfigFilePath is empty.
	// Defaults to the working directory.
	Dir string
	// Flags are bound by name: a flag "duplicate-keys" overrides the key
	// "duplicate_keys" when it was set on the command line.
	Flags *pflag.FlagSet
}

// Load resolves the configuration and returns it with the path of the config
// file that was read ("" when none).
func Load(opts LoadOptions) (*Config, string, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("schema", defaults.Schema)
	v.SetDefault("lang", defaults.Lang)
	v.SetDefault("workers", defaults.Workers)
	v.SetDefault("duplicate_keys", defaults.DuplicateKeys)
	v.SetDefault("max_depth", defaults.MaxDepth)
	v.SetDefault("include", defaults.Include)
	v.SetDefault("recursive", defaults.Recursive)
	v.SetDefault("format", defaults.Format)
	v.SetDefault("no_warnings", defaults.NoWarnings)
	v.SetDefault("verbose", defaults.Verbose)
	v.SetDefault("fail_on_load_error", defaults.FailOnLoadError)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	resolvedPath := ""
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return nil, "", fmt.Errorf("config file not found: %s", opts.ConfigFilePath)
		}
		resolvedPath = opts.ConfigFilePath
	} else {
		dir := opts.Dir
		if dir == "" {
			dir = "."
		}
		if p := filepath.Join(dir, ConfigFileName); fileExists(p) {
			resolvedPath = p
		}
	}
	if resolvedPath != "" {
		v.SetConfigFile(resolvedPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, "", fmt.Errorf("failed to read config file %s: %w", resolvedPath, err)
		}
	}

	if opts.Flags != nil {
		if err := bindFlags(v, opts.Flags); err != nil {
			return nil, "", err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return &cfg, resolvedPath, nil
}

// bindFlags binds every flag named after a config key. Flag names use dashes,
// keys use underscores.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	var err error
	fs.VisitAll(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		key := strings.ReplaceAll(f.Name, "-", "_")
		if !slices.Contains(knownKeys, key) {
			return
		}
		if bindErr := v.BindPFlag(key, f); bindErr != nil {
			err = fmt.Errorf("failed to bind flag --%s: %w", f.Name, bindErr)
		}
	})
	return err
}

var knownKeys = []string{
	"schema", "lang", "workers", "duplicate_keys", "max_depth",
	"include", "recursive", "format", "no_warnings", "verbose",
	"fail_on_load_error",
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Schema) == "" {
		errs = append(errs, errors.New("schema: must not be empty"))
	}
	if !slices.Contains(i18n.Languages(), c.Lang) {
		errs = append(errs, fmt.Errorf("lang: unsupported language %q (want one of %s)", c.Lang, strings.Join(i18n.Languages(), ", ")))
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers: must be at least 1, got %d", c.Workers))
	}
	if _, err := source.ParseSeverity(c.DuplicateKeys); err != nil {
		errs = append(errs, fmt.Errorf("duplicate_keys: %w", err))
	}
	if c.MaxDepth < 0 {
		errs = append(errs, fmt.Errorf("max_depth: must not be negative, got %d", c.MaxDepth))
	}
	if len(c.Include) == 0 {
		errs = append(errs, errors.New("include: at least one pattern is required"))
	}
	if c.Format != FormatText && c.Format != FormatJSON {
		errs = append(errs, fmt.Errorf("format: unsupported format %q (want text or json)", c.Format))
	}
	if _, err := rules.Build(c.Rules); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Linter returns the linter configured with the extra rules. Call after
// Validate.
func (c *Config) Linter() lint.Linter {
	extra, _ := rules.Build(c.Rules)
	return lint.Linter{Extra: extra}
}

// DuplicateKeySeverity returns the parsed duplicate_keys setting. Call after
// Validate.
func (c *Config) DuplicateKeySeverity() source.Severity {
	s, _ := source.ParseSeverity(c.DuplicateKeys)
	return s
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
