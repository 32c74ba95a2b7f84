// Package config resolves avrconf settings from flags, environment variables,
// an optional YAML file and defaults, using a dedicated viper instance.
//
// Precedence (highest first):
//  1. command-line flags that were explicitly set
//  2. AVRCONF_* environment variables (e.g. AVRCONF_SOURCE)
//  3. the config file: --config, else $AVRCONF_CONFIG, else ./avrconf.yaml
//  4. defaults
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Setting keys. Flags bound with BindFlags use the same names.
const (
	KeySource  = "source"
	KeyFormat  = "format"
	KeyDB      = "db"
	KeyVerbose = "verbose"
)

// Defaults.
const (
	DefaultSource = "avrdude.conf"
	DefaultFormat = "text"
	DefaultDB     = "avrconf.db"
)

// EnvPrefix is prepended to every environment variable.
const EnvPrefix = "AVRCONF"

// ValidFormats lists the accepted output formats.
var ValidFormats = []string{"text", "json"}

// Config is the resolved configuration.
type Config struct {
	Source  string `mapstructure:"source"`
	Format  string `mapstructure:"format"`
	DB      string `mapstructure:"db"`
	Verbose bool   `mapstructure:"verbose"`

	// ConfigFile is the file that was read, empty when none was found.
	ConfigFile string `mapstructure:"-"`
}

// Loader resolves a Config. Each Loader owns its viper instance, so loaders
// never share state.
type Loader struct {
	v *viper.Viper
}

// NewLoader returns a Loader with defaults and environment binding set up.
func NewLoader() *Loader {
	v := viper.New()
	v.SetDefault(KeySource, DefaultSource)
	v.SetDefault(KeyFormat, DefaultFormat)
	v.SetDefault(KeyDB, DefaultDB)
	v.SetDefault(KeyVerbose, false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	return &Loader{v: v}
}

// BindFlags binds every setting key that has a flag of the same name in fs.
func (l *Loader) BindFlags(fs *pflag.FlagSet) error {
	for _, key := range []string{KeySource, KeyFormat, KeyDB, KeyVerbose} {
		f := fs.Lookup(key)
		if f == nil {
			continue
		}
		if err := l.v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %q: %w", key, err)
		}
	}
	return nil
}

// Load reads the config file, if any, and returns the validated Config.
// An explicit configFile must exist; the default ./avrconf.yaml is optional.
func (l *Loader) Load(configFile string) (*Config, error) {
	if configFile == "" {
		configFile = os.Getenv(EnvPrefix + "_CONFIG")
	}

	if configFile != "" {
		l.v.SetConfigFile(configFile)
		if err := l.v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	} else {
		l.v.AddConfigPath(".")
		l.v.SetConfigName("avrconf")
		l.v.SetConfigType("yaml")
		if err := l.v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.ConfigFile = l.v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings that have a closed set of values.
func (c *Config) Validate() error {
	if !slices.Contains(ValidFormats, c.Format) {
		return fmt.Errorf("invalid format %q: must be one of %v", c.Format, ValidFormats)
	}
	if strings.TrimSpace(c.Source) == "" {
		return errors.New("source must not be empty")
	}
	return nil
}
