// Package config provides configuration management for the boostr CLI.
//
// It implements the disciplined Viper pattern where Viper stays contained
// in this package and the rest of the codebase receives explicit Config structs.
// Configuration sources are resolved in this order: flags > env > config file > defaults.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the explicit configuration struct
// This is what the rest of the codebase sees
type Config struct {
	IndexFile string
	SteamPath string
	LogLevel  string
	Offline   bool
	Timing    TimingConfig
}

// TimingConfig holds the delays and timeouts used by the supervisor
type TimingConfig struct {
	// LaunchDelay throttles back-to-back launches so the Steam client is not flooded.
	LaunchDelay time.Duration
	// StopTimeout bounds the wait for a killed child to exit.
	StopTimeout time.Duration
	// ResolveTimeout bounds a single display-name lookup.
	ResolveTimeout time.Duration
	// ReturnDelay is the pause before falling back to the mode selector.
	ReturnDelay time.Duration
}

var validLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Init initializes viper with defaults and config file paths
func Init() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.AddConfigPath("$HOME/.boostr")
	viper.AddConfigPath(".")

	setDefaults(viper.GetViper())

	viper.SetEnvPrefix("BOOSTR")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// Read config file (ignore if not found)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("index-file", "gameindex.txt")
	v.SetDefault("steam-path", "")
	v.SetDefault("log-level", "warn")
	v.SetDefault("offline", false)
	v.SetDefault("launch-delay", time.Second)
	v.SetDefault("stop-timeout", 3*time.Second)
	v.SetDefault("resolve-timeout", 5*time.Second)
	v.SetDefault("return-delay", 3*time.Second)
}

// BindFlag binds a command-line flag to a configuration key.
func BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return fmt.Errorf("no flag to bind for %s", key)
	}
	return viper.BindPFlag(key, flag)
}

// Load reads from all sources and returns explicit Config
func Load() (*Config, error) {
	return fromViper(viper.GetViper())
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		IndexFile: v.GetString("index-file"),
		SteamPath: v.GetString("steam-path"),
		LogLevel:  v.GetString("log-level"),
		Offline:   v.GetBool("offline"),
		Timing: TimingConfig{
			LaunchDelay:    v.GetDuration("launch-delay"),
			StopTimeout:    v.GetDuration("stop-timeout"),
			ResolveTimeout: v.GetDuration("resolve-timeout"),
			ReturnDelay:    v.GetDuration("return-delay"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default returns the configuration produced by defaults alone.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	cfg, err := fromViper(v)
	if err != nil {
		panic(fmt.Sprintf("config: invalid defaults: %v", err))
	}
	return cfg
}

// Validate ensures config is sane
func (c *Config) Validate() error {
	if c.IndexFile == "" {
		return fmt.Errorf("index-file must not be empty")
	}

	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log-level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	if c.Timing.LaunchDelay < 0 {
		return fmt.Errorf("invalid launch-delay: %s", c.Timing.LaunchDelay)
	}

	if c.Timing.StopTimeout <= 0 {
		return fmt.Errorf("invalid stop-timeout: %s", c.Timing.StopTimeout)
	}

	if c.Timing.ResolveTimeout <= 0 {
		return fmt.Errorf("invalid resolve-timeout: %s", c.Timing.ResolveTimeout)
	}

	if c.Timing.ReturnDelay < 0 {
		return fmt.Errorf("invalid return-delay: %s", c.Timing.ReturnDelay)
	}

	return nil
}

// Display shows current config (for boostr config)
func Display() (string, error) {
	cfg, err := Load()
	if err != nil {
		return "", err
	}

	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		configFile = "(not found)"
	}

	steamPath := cfg.SteamPath
	if steamPath == "" {
		steamPath = "(auto-detect)"
	}

	return fmt.Sprintf(`Configuration:
  index-file:         %s
  steam-path:         %s
  log-level:          %s
  offline:            %t

Timing:
  launch-delay:       %s
  stop-timeout:       %s
  resolve-timeout:    %s
  return-delay:       %s

Sources:
  Config file:        %s
  Environment:        BOOSTR_*
  Flags:              (per command)
`,
		cfg.IndexFile,
		steamPath,
		cfg.LogLevel,
		cfg.Offline,
		cfg.Timing.LaunchDelay,
		cfg.Timing.StopTimeout,
		cfg.Timing.ResolveTimeout,
		cfg.Timing.ReturnDelay,
		configFile,
	), nil
}
