// Package config loads the settings of the nw command: a YAML file, a .env file and
// NW_* environment variables, in increasing order of precedence.
package config

import (
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/etnz/networth"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file read when none is given and it exists.
const DefaultFile = "networth.yaml"

// Environment overrides.
const (
	EnvData     = "NW_DATA"
	EnvYear     = "NW_YEAR"
	EnvCurrency = "NW_CURRENCY"
	EnvLogLevel = "NW_LOG_LEVEL"
	EnvEODHDKey = "NW_EODHD_KEY"
)

// Price providers.
const (
	Yahoo   = "yahoo"
	JustETF = "justetf"
	EODHD   = "eodhd"
)

type Config struct {
	// Data is the root folder of the yearly data folders.
	Data string `yaml:"data"`
	// Year is the reporting year, 0 for the current one.
	Year     int    `yaml:"year"`
	Currency string `yaml:"currency"`
	// LookbackYears is the depth of the first price fetch of a symbol.
	LookbackYears int `yaml:"lookback_years"`

	Throttle Throttle `yaml:"throttle"`
	HTTP     HTTP     `yaml:"http"`
	// Providers maps asset class names to a price provider.
	Providers map[string]string `yaml:"providers"`
	EODHD     EODHDConfig       `yaml:"eodhd"`
	Logging   Logging           `yaml:"logging"`
}

// Throttle spaces out the requests to price providers.
type Throttle struct {
	Interval time.Duration `yaml:"interval"`
	MinDelay time.Duration `yaml:"min_delay"`
	MaxDelay time.Duration `yaml:"max_delay"`
}

type HTTP struct {
	Timeout time.Duration `yaml:"timeout"`
	// CacheDir keeps the responses of the day, empty disables the cache.
	CacheDir string `yaml:"cache_dir"`
}

type EODHDConfig struct {
	Key      string `yaml:"key"`
	Exchange string `yaml:"exchange"`
}

type Logging struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Default returns the settings used when nothing is configured.
func Default() *Config {
	return &Config{
		Data:          "data",
		Currency:      "EUR",
		LookbackYears: 5,
		Throttle: Throttle{
			Interval: time.Second,
			MinDelay: 5 * time.Second,
			MaxDelay: 7 * time.Second,
		},
		HTTP: HTTP{Timeout: 30 * time.Second},
		Providers: map[string]string{
			networth.Cryptocurrencies.String(): Yahoo,
			networth.ETFs.String():             JustETF,
		},
		Logging: Logging{Level: "warn"},
	}
}

// Load reads the config file at path on top of the defaults, then applies the .env
// files and the environment.
//
// An empty path reads DefaultFile if it exists. Without envFiles, a .env file in the
// working directory is read if it exists.
func Load(path string, envFiles ...string) (*Config, error) {
	c := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	content, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(content, c); err != nil {
			return nil, errors.Wrapf(networth.ErrConfiguration, "invalid config file %q: %v", path, err)
		}
	case explicit || !errors.Is(err, fs.ErrNotExist):
		return nil, errors.Wrapf(networth.ErrConfiguration, "cannot read config: %v", err)
	}

	if err := godotenv.Load(envFiles...); err != nil && (len(envFiles) > 0 || !errors.Is(err, fs.ErrNotExist)) {
		return nil, errors.Wrapf(networth.ErrConfiguration, "cannot load env: %v", err)
	}
	if err := c.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return c, c.Validate()
}

// ApplyEnv overrides c with the NW_* variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvData); ok && v != "" {
		c.Data = v
	}
	if v, ok := lookup(EnvYear); ok && v != "" {
		year, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return errors.Wrapf(networth.ErrConfiguration, "invalid %s=%q", EnvYear, v)
		}
		c.Year = year
	}
	if v, ok := lookup(EnvCurrency); ok && v != "" {
		c.Currency = strings.ToUpper(strings.TrimSpace(v))
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Logging.Level = v
	}
	if v, ok := lookup(EnvEODHDKey); ok && v != "" {
		c.EODHD.Key = v
	}
	return nil
}

// Validate checks the settings that the reports cannot do without.
func (c *Config) Validate() error {
	if c.Data == "" {
		return errors.Wrap(networth.ErrConfiguration, "missing data path")
	}
	if len(c.Currency) != 3 {
		return errors.Wrapf(networth.ErrConfiguration, "invalid currency %q", c.Currency)
	}
	if c.LookbackYears < 1 {
		return errors.Wrapf(networth.ErrConfiguration, "invalid lookback_years %d", c.LookbackYears)
	}
	if c.Throttle.MaxDelay < c.Throttle.MinDelay {
		return errors.Wrapf(networth.ErrConfiguration, "throttle max_delay %s is below min_delay %s", c.Throttle.MaxDelay, c.Throttle.MinDelay)
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return errors.Wrapf(networth.ErrConfiguration, "invalid log level %q", c.Logging.Level)
	}
	providers, err := c.ProviderOf()
	if err != nil {
		return err
	}
	for _, p := range providers {
		if p == EODHD && c.EODHD.Key == "" {
			return errors.Wrapf(networth.ErrConfiguration, "provider %s needs a key (%s)", EODHD, EnvEODHDKey)
		}
	}
	return nil
}

// ProviderOf returns the price provider of every configured asset class.
func (c *Config) ProviderOf() (map[networth.AssetClass]string, error) {
	res := make(map[networth.AssetClass]string, len(c.Providers))
	for name, provider := range c.Providers {
		class, err := networth.ParseAssetClass(name)
		if err != nil {
			return nil, errors.Wrap(err, "in providers")
		}
		switch provider = strings.ToLower(strings.TrimSpace(provider)); provider {
		case Yahoo, JustETF, EODHD:
			res[class] = provider
		default:
			return nil, errors.Wrapf(networth.ErrConfiguration, "unknown price provider %q for %s", provider, class)
		}
	}
	return res, nil
}

// Logger builds the logger of the command. verbose lowers the level to debug.
func (c *Config) Logger(verbose bool) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Logging.Level)
	if err != nil {
		return nil, errors.Wrapf(networth.ErrConfiguration, "invalid log level %q", c.Logging.Level)
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	zc := zap.NewProductionConfig()
	if c.Logging.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}
	return zc.Build()
}
