package main

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"i4.energy/across/wifilink/ring"
)

// Config holds the application configuration
type Config struct {
	// BindAddress is the address the server listens on (e.g. "0.0.0.0:8080")
	BindAddress string
	// SerialPort is the path to the module's serial port (e.g. "/dev/ttyUSB0")
	SerialPort string
	// BaudRate is the baud rate for serial communication with the module (e.g. 115200)
	BaudRate int
	// LogLevel sets the logging level (e.g. "debug", "info", "warn", "error")
	LogLevel string
	// BufferSize is the capacity of each UART ring
	BufferSize int
	// Simulate replaces the serial port with a scripted module. It is a
	// YAML script path, or "builtin" for the built-in script.
	Simulate string
	// EchoOff tells the session the module has command echo disabled
	EchoOff bool
}

// envPrefix prefixes every environment variable, e.g. WIFILINK_SERIAL_PORT.
const envPrefix = "WIFILINK"

// configKeys are the names shared by flags, config file and environment.
var configKeys = []string{
	"bind-address",
	"serial-port",
	"baud-rate",
	"log-level",
	"buffer-size",
	"simulate",
	"echo-off",
}

// ConfigOption is a function that modifies a Config
type ConfigOption func(*Config) error

// LoadConfig creates a new config by applying the given options in order
func LoadConfig(opts ...ConfigOption) (*Config, error) {
	config := &Config{}

	for _, opt := range opts {
		if err := opt(config); err != nil {
			return nil, err
		}
	}

	return config, nil
}

// WithDefaults applies default configuration values
func WithDefaults() ConfigOption {
	return func(c *Config) error {
		c.BindAddress = "0.0.0.0:8080"
		c.SerialPort = "/dev/ttyUSB0"
		c.BaudRate = 115200
		c.LogLevel = "info"
		c.BufferSize = ring.DefaultCapacity
		return nil
	}
}

// WithFile loads configuration from a YAML, TOML or JSON file. An empty
// path is a no-op.
func WithFile(path string) ConfigOption {
	return func(c *Config) error {
		if path == "" {
			return nil
		}
		v := viper.New()
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config file: %w", err)
		}
		return c.applyViper(v)
	}
}

// WithEnv loads configuration from WIFILINK_* environment variables
func WithEnv() ConfigOption {
	return func(c *Config) error {
		v := viper.New()
		v.SetEnvPrefix(envPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
		for _, key := range configKeys {
			if err := v.BindEnv(key); err != nil {
				return fmt.Errorf("bind env %q: %w", key, err)
			}
		}
		return c.applyViper(v)
	}
}

// WithFlags loads configuration from command-line flags that were set
func WithFlags(fSet *pflag.FlagSet) ConfigOption {
	return func(c *Config) error {
		var err error
		fSet.Visit(func(f *pflag.Flag) {
			if err == nil {
				err = c.set(f.Name, f.Value.String())
			}
		})
		return err
	}
}

func (c *Config) applyViper(v *viper.Viper) error {
	for _, key := range configKeys {
		if !v.IsSet(key) {
			continue
		}
		if err := c.set(key, v.GetString(key)); err != nil {
			return err
		}
	}
	return nil
}

// set assigns one named value. Unknown names are ignored.
func (c *Config) set(key, value string) error {
	switch key {
	case "bind-address":
		c.BindAddress = value
	case "serial-port":
		c.SerialPort = value
	case "baud-rate":
		b, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("baud-rate: %w", err)
		}
		c.BaudRate = b
	case "log-level":
		c.LogLevel = value
	case "buffer-size":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("buffer-size: %w", err)
		}
		c.BufferSize = n
	case "simulate":
		c.Simulate = value
	case "echo-off":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("echo-off: %w", err)
		}
		c.EchoOff = b
	}
	return nil
}

// Level maps LogLevel to a slog level. Unknown names select info.
func (c *Config) Level() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
