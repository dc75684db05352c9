// Package config loads device settings from defaults, an optional TOML
// file and NANOUI_ environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/h0rv/nanoui/internal/logging"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds the simulator configuration.
type Config struct {
	Device   DeviceConfig   `mapstructure:"device"`
	Flow     FlowConfig     `mapstructure:"flow"`
	Bridge   BridgeConfig   `mapstructure:"bridge"`
	Log      LogConfig      `mapstructure:"log"`
	Seed     SeedConfig     `mapstructure:"seed"`
	Requests RequestsConfig `mapstructure:"requests"`
}

// DeviceConfig describes the simulated hardware.
type DeviceConfig struct {
	TickInterval time.Duration `mapstructure:"tick_interval"`
	Width        int           `mapstructure:"width"` // Display width in columns
}

// FlowConfig tunes the flow state machine.
type FlowConfig struct {
	SuccessTimeoutTicks int `mapstructure:"success_timeout_ticks"`
	AddressCount        int `mapstructure:"address_count"`
}

// BridgeConfig tunes the simulated operation bridge.
type BridgeConfig struct {
	Delay       time.Duration `mapstructure:"delay"`
	FailSigning bool          `mapstructure:"fail_signing"`
}

// LogConfig holds logging settings. An empty Path discards log output.
type LogConfig struct {
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"`
}

// SeedConfig points at an optional hex seed file.
type SeedConfig struct {
	File string `mapstructure:"file"`
}

// RequestsConfig points at an optional YAML request fixture.
type RequestsConfig struct {
	File string `mapstructure:"file"`
}

// DefaultPath returns the config file used when neither an explicit path
// nor NANOUI_CONFIG is given.
func DefaultPath() string {
	return filepath.Join(os.Getenv("HOME"), ".config", "nanoui", "config.toml")
}

// Load reads configuration. path, or else NANOUI_CONFIG, names a file that
// must exist; otherwise DefaultPath is read if present. Env var overrides
// use prefix NANOUI_.
func Load(path string) (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("device.tick_interval", 100*time.Millisecond)
	v.SetDefault("device.width", 32)
	v.SetDefault("flow.success_timeout_ticks", 20)
	v.SetDefault("flow.address_count", 3)
	v.SetDefault("bridge.delay", 1500*time.Millisecond)
	v.SetDefault("bridge.fail_signing", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.path", "")
	v.SetDefault("seed.file", "")
	v.SetDefault("requests.file", "")

	v.SetConfigType("toml")

	explicit := path
	if explicit == "" {
		explicit = os.Getenv("NANOUI_CONFIG")
	}
	if explicit != "" {
		v.SetConfigFile(explicit)
	} else {
		v.AddConfigPath(filepath.Dir(DefaultPath()))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("NANOUI")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, c.Validate()
}

// Validate rejects values the device cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Device.TickInterval < 10*time.Millisecond {
		errs = append(errs, fmt.Errorf("device.tick_interval %s is below 10ms", c.Device.TickInterval))
	}
	if c.Device.Width < 16 || c.Device.Width > 120 {
		errs = append(errs, fmt.Errorf("device.width %d is outside 16..120", c.Device.Width))
	}
	if c.Flow.SuccessTimeoutTicks < 1 {
		errs = append(errs, fmt.Errorf("flow.success_timeout_ticks must be positive"))
	}
	if c.Flow.AddressCount < 1 || c.Flow.AddressCount > 20 {
		errs = append(errs, fmt.Errorf("flow.address_count %d is outside 1..20", c.Flow.AddressCount))
	}
	if c.Bridge.Delay < 0 {
		errs = append(errs, fmt.Errorf("bridge.delay must not be negative"))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}
