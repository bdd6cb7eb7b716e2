package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Process modes.
const (
	ModeRun   = "run"   // one simulation against the challenge server, then exit
	ModeServe = "serve" // HTTP API
)

const (
	envPrefix         = "KITCHEN"
	defaultConfigPath = "configs"
	defaultConfigName = "config"
)

// Config is the fully resolved process configuration.
type Config struct {
	Mode       string
	Port       string
	DBPath     string
	LogLevel   string
	SigningKey string
	Challenge  ChallengeConfig
	Simulation SimulationConfig
	Storage    StorageConfig
}

// ChallengeConfig locates the challenge server and the problem to fetch.
type ChallengeConfig struct {
	Endpoint string
	Auth     string
	Name     string
	Seed     int64
}

// SimulationConfig controls pacing of a run.
type SimulationConfig struct {
	Rate time.Duration // between placing orders
	Min  time.Duration // minimum pickup delay, inclusive
	Max  time.Duration // maximum pickup delay, inclusive
}

// StorageConfig holds container capacities.
type StorageConfig struct {
	Heater int
	Cooler int
	Shelf  int
}

var (
	errPickupWindow = errors.New("simulation.min must be <= simulation.max")
	errNegativeRate = errors.New("simulation.rate must not be negative")
	errSigningKey   = errors.New("auth.signing_key is required in serve mode (--signing-key or KITCHEN_AUTH_SIGNING_KEY)")
)

// flag name -> config key
var flagKeys = map[string]string{
	"mode":        "mode",
	"port":        "port",
	"db":          "db.path",
	"log":         "log.level",
	"signing-key": "auth.signing_key",
	"endpoint":    "challenge.endpoint",
	"auth":        "challenge.auth",
	"name":        "challenge.name",
	"seed":        "challenge.seed",
	"rate":        "simulation.rate",
	"min":         "simulation.min",
	"max":         "simulation.max",
	"heater":      "storage.heater",
	"cooler":      "storage.cooler",
	"shelf":       "storage.shelf",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", ModeRun)
	v.SetDefault("port", "8080")
	v.SetDefault("db.path", "kitchen.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("auth.signing_key", "")
	v.SetDefault("challenge.endpoint", "https://api.cloudkitchens.com")
	v.SetDefault("challenge.auth", "")
	v.SetDefault("challenge.name", "")
	v.SetDefault("challenge.seed", int64(0))
	v.SetDefault("simulation.rate", 500*time.Millisecond)
	v.SetDefault("simulation.min", 4*time.Second)
	v.SetDefault("simulation.max", 8*time.Second)
	v.SetDefault("storage.heater", 6)
	v.SetDefault("storage.cooler", 6)
	v.SetDefault("storage.shelf", 12)
}

// NewFlagSet declares the command-line flags. Unset flags fall through to the
// environment, the config file and finally the defaults.
func NewFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.String("config", "", "Path to a config file (default configs/config.yml)")
	fs.String("mode", ModeRun, "Process mode: run or serve")
	fs.String("port", "8080", "HTTP port in serve mode")
	fs.String("db", "kitchen.db", "SQLite database path")
	fs.String("log", "info", "Log level: debug, info, warn, error")
	fs.String("signing-key", "", "JWT signing key, required in serve mode")
	fs.String("endpoint", "https://api.cloudkitchens.com", "Challenge server endpoint")
	fs.String("auth", "", "Challenge authentication token")
	fs.String("name", "", "Problem name (optional)")
	fs.Int64("seed", 0, "Problem seed (random if zero)")
	fs.Duration("rate", 500*time.Millisecond, "Time between placing orders")
	fs.Duration("min", 4*time.Second, "Minimum pickup delay")
	fs.Duration("max", 8*time.Second, "Maximum pickup delay")
	fs.Int("heater", 6, "Heater capacity")
	fs.Int("cooler", 6, "Cooler capacity")
	fs.Int("shelf", 12, "Shelf capacity")
	return fs
}

// Load parses args and merges flags, KITCHEN_* environment variables, the
// optional config file and defaults, in that order of precedence.
func Load(args []string) (Config, error) {
	fs := NewFlagSet("kitchen")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	v := viper.New()
	setDefaults(v)
	for flagName, key := range flagKeys {
		if err := v.BindPFlag(key, fs.Lookup(flagName)); err != nil {
			return Config{}, fmt.Errorf("bind flag %q: %w", flagName, err)
		}
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := readConfigFile(v, fs); err != nil {
		return Config{}, err
	}
	return fromViper(v)
}

func readConfigFile(v *viper.Viper, fs *pflag.FlagSet) error {
	if path, _ := fs.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %q: %w", path, err)
		}
		return nil
	}

	v.AddConfigPath(defaultConfigPath)
	v.SetConfigName(defaultConfigName)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func fromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		Mode:       strings.ToLower(strings.TrimSpace(v.GetString("mode"))),
		Port:       v.GetString("port"),
		DBPath:     v.GetString("db.path"),
		LogLevel:   v.GetString("log.level"),
		SigningKey: v.GetString("auth.signing_key"),
		Challenge: ChallengeConfig{
			Endpoint: v.GetString("challenge.endpoint"),
			Auth:     v.GetString("challenge.auth"),
			Name:     v.GetString("challenge.name"),
			Seed:     v.GetInt64("challenge.seed"),
		},
		Simulation: SimulationConfig{
			Rate: v.GetDuration("simulation.rate"),
			Min:  v.GetDuration("simulation.min"),
			Max:  v.GetDuration("simulation.max"),
		},
		Storage: StorageConfig{
			Heater: v.GetInt("storage.heater"),
			Cooler: v.GetInt("storage.cooler"),
			Shelf:  v.GetInt("storage.shelf"),
		},
	}
	return cfg, cfg.Validate()
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	if c.Mode != ModeRun && c.Mode != ModeServe {
		return fmt.Errorf("invalid mode %q: must be %s or %s", c.Mode, ModeRun, ModeServe)
	}
	if c.Mode == ModeServe && strings.TrimSpace(c.SigningKey) == "" {
		return errSigningKey
	}
	if c.Simulation.Rate < 0 {
		return errNegativeRate
	}
	if c.Simulation.Min < 0 || c.Simulation.Min > c.Simulation.Max {
		return errPickupWindow
	}
	if c.Storage.Heater <= 0 || c.Storage.Cooler <= 0 || c.Storage.Shelf <= 0 {
		return fmt.Errorf("storage capacities must be positive, got heater=%d cooler=%d shelf=%d",
			c.Storage.Heater, c.Storage.Cooler, c.Storage.Shelf)
	}
	return nil
}
