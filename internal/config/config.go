// Package config loads server settings from defaults, an optional YAML file,
// FASALSAATHI_* environment variables and command-line flags, in that order.
package config

import (
	"errors"
	"net/http"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "FASALSAATHI_"

// Store drivers.
const (
	DriverBolt     = "bolt"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const (
	minSecretBytes = 32
	maxLeeway      = 5 * time.Second
	minBcryptCost  = 4
	maxBcryptCost  = 31
)

// Config is the complete server configuration.
type Config struct {
	App      AppConfig      `koanf:"app"`
	HTTP     HTTPConfig     `koanf:"http"`
	CORS     CORSConfig     `koanf:"cors"`
	JWT      JWTConfig      `koanf:"jwt"`
	Password PasswordConfig `koanf:"password"`
	Auth     AuthConfig     `koanf:"auth"`
	Store    StoreConfig    `koanf:"store"`
	Weather  WeatherConfig  `koanf:"weather"`
	Log      LogConfig      `koanf:"log"`
}

type AppConfig struct {
	Name string `koanf:"name"`
}

type HTTPConfig struct {
	Addr            string        `koanf:"addr"`
	ReadTimeout     time.Duration `koanf:"readtimeout"`
	WriteTimeout    time.Duration `koanf:"writetimeout"`
	IdleTimeout     time.Duration `koanf:"idletimeout"`
	ShutdownTimeout time.Duration `koanf:"shutdowntimeout"`
}

type CORSConfig struct {
	Origins []string `koanf:"origins"`
}

type JWTConfig struct {
	Secret    string        `koanf:"secret"`
	Algorithm string        `koanf:"algorithm"`
	TTL       time.Duration `koanf:"ttl"`
	Leeway    time.Duration `koanf:"leeway"`
}

type PasswordConfig struct {
	Cost int `koanf:"cost"`
}

// AuthConfig controls the auth gate.
type AuthConfig struct {
	// InactiveStatus is the HTTP status returned for deactivated accounts.
	InactiveStatus int `koanf:"inactivestatus"`
}

type StoreConfig struct {
	Driver  string        `koanf:"driver"`
	Path    string        `koanf:"path"`
	DSN     string        `koanf:"dsn"`
	Timeout time.Duration `koanf:"timeout"`
}

type WeatherConfig struct {
	Endpoint string        `koanf:"endpoint"`
	APIKey   string        `koanf:"apikey"`
	Timeout  time.Duration `koanf:"timeout"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

func defaults() map[string]any {
	return map[string]any{
		"app.name":             "FasalSaathi API",
		"http.addr":            "127.0.0.1:8000",
		"http.readtimeout":     "15s",
		"http.writetimeout":    "15s",
		"http.idletimeout":     "60s",
		"http.shutdowntimeout": "30s",
		"cors.origins":         []string{"http://localhost:3000"},
		"jwt.algorithm":        "HS256",
		"jwt.ttl":              "30m",
		"jwt.leeway":           "0s",
		"password.cost":        12,
		"auth.inactivestatus":  http.StatusBadRequest,
		"store.driver":         DriverBolt,
		"store.path":           "fasalsaathi.db",
		"store.timeout":        "5s",
		"weather.endpoint":     "https://api.openweathermap.org/data/2.5",
		"weather.timeout":      "10s",
		"log.level":            "info",
		"log.format":           "json",
	}
}

// flagKeys maps command-line flag names onto configuration keys.
var flagKeys = map[string]string{
	"addr":         "http.addr",
	"store-driver": "store.driver",
	"store-path":   "store.path",
	"store-dsn":    "store.dsn",
	"log-level":    "log.level",
	"log-format":   "log.format",
}

// RegisterFlags adds the overridable settings to fs. Flags left unset do not
// override values from the file or environment.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("addr", "", "HTTP listen address")
	fs.String("store-driver", "", "document store driver (bolt, sqlite or postgres)")
	fs.String("store-path", "", "database file for bolt and sqlite")
	fs.String("store-dsn", "", "PostgreSQL connection string")
	fs.String("log-level", "", "log level (debug, info, warn, error)")
	fs.String("log-format", "", "log format (json or text)")
}

// Load reads the configuration. path may be empty; fs may be nil.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").Wrapf(err, "load defaults")
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("path", path).Wrapf(err, "config file")
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("path", path).Wrapf(err, "parse config file")
		}
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envValue), nil); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").Wrapf(err, "read environment")
	}

	if fs != nil {
		provider := posflag.ProviderWithFlag(fs, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(fs, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").Wrapf(err, "read flags")
		}
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, oops.Code("CONFIG_INVALID").Wrapf(err, "decode configuration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envValue turns FASALSAATHI_JWT_SECRET into jwt.secret. List settings are
// comma separated.
func envValue(name, value string) (string, any) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(name, EnvPrefix)), "_", ".")
	if key == "cors.origins" {
		var origins []string
		for _, o := range strings.Split(value, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		return key, origins
	}
	return key, value
}

// Validate reports every invalid setting in one error.
func (c *Config) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, oops.Code("CONFIG_INVALID").Errorf(format, args...))
	}

	if c.HTTP.Addr == "" {
		fail("http.addr is required")
	}
	if len(c.JWT.Secret) < minSecretBytes {
		fail("jwt.secret must be at least %d bytes", minSecretBytes)
	}
	if !slices.Contains([]string{"HS256", "HS384", "HS512"}, c.JWT.Algorithm) {
		fail("jwt.algorithm must be HS256, HS384 or HS512, got %q", c.JWT.Algorithm)
	}
	if c.JWT.TTL <= 0 {
		fail("jwt.ttl must be positive")
	}
	if c.JWT.Leeway < 0 || c.JWT.Leeway > maxLeeway {
		fail("jwt.leeway must be between 0s and %s", maxLeeway)
	}
	if c.Password.Cost < minBcryptCost || c.Password.Cost > maxBcryptCost {
		fail("password.cost must be between %d and %d", minBcryptCost, maxBcryptCost)
	}
	if c.Auth.InactiveStatus != http.StatusBadRequest && c.Auth.InactiveStatus != http.StatusForbidden {
		fail("auth.inactivestatus must be 400 or 403, got %d", c.Auth.InactiveStatus)
	}

	switch c.Store.Driver {
	case DriverBolt, DriverSQLite:
		if c.Store.Path == "" {
			fail("store.path is required for the %s driver", c.Store.Driver)
		}
	case DriverPostgres:
		if c.Store.DSN == "" {
			fail("store.dsn is required for the postgres driver")
		}
	default:
		fail("store.driver must be bolt, sqlite or postgres, got %q", c.Store.Driver)
	}
	if c.Store.Timeout <= 0 {
		fail("store.timeout must be positive")
	}

	if c.Weather.Timeout <= 0 {
		fail("weather.timeout must be positive")
	}
	if !slices.Contains([]string{"debug", "info", "warn", "error"}, c.Log.Level) {
		fail("log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		fail("log.format must be 'json' or 'text', got %q", c.Log.Format)
	}

	return errors.Join(errs...)
}
