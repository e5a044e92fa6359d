// Package config layers autosplitter settings from built-in defaults, an
// optional YAML file and AUTOSPLITTER_ environment variables. Command-line
// flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/sweeney/galerians-autosplitter/internal/gpio"
	"github.com/sweeney/galerians-autosplitter/internal/livesplit"
	"github.com/sweeney/galerians-autosplitter/internal/route"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "AUTOSPLITTER_"

// Config is the full set of user settings.
type Config struct {
	LiveSplitHost string `yaml:"livesplit_host" env:"LIVESPLIT_HOST"`
	LiveSplitPort int    `yaml:"livesplit_port" env:"LIVESPLIT_PORT"`

	UpdateFrequency time.Duration `yaml:"update_frequency" env:"UPDATE_FREQUENCY"`

	// SplitType forces a split type; empty defers to the splits file.
	SplitType string `yaml:"split_type" env:"SPLIT_TYPE"`

	// SharedMemory is an explicit emulator shared memory file. Empty means
	// search /dev/shm for a running emulator.
	SharedMemory string `yaml:"shared_memory" env:"SHARED_MEMORY"`

	// HTTPAddr serves the status page; empty disables it.
	HTTPAddr string `yaml:"http_addr" env:"HTTP_ADDR"`

	// Heartbeat is the interval between MQTT heartbeats; zero disables them.
	Heartbeat time.Duration `yaml:"heartbeat" env:"HEARTBEAT"`

	MQTTBroker string `yaml:"mqtt_broker" env:"MQTT_BROKER"`
	NATSURL    string `yaml:"nats_url" env:"NATS_URL"`

	LED LEDConfig `yaml:"led" envPrefix:"LED_"`

	LogLevel string `yaml:"log_level" env:"LOG_LEVEL"`
}

// LEDConfig selects the status LED output line.
type LEDConfig struct {
	Enabled bool   `yaml:"enabled" env:"ENABLED"`
	Chip    string `yaml:"chip" env:"CHIP"`
	Pin     int    `yaml:"pin" env:"PIN"`
}

// Defaults returns the settings used when nothing else is configured.
func Defaults() Config {
	return Config{
		LiveSplitHost:   "localhost",
		LiveSplitPort:   livesplit.DefaultPort,
		UpdateFrequency: 15 * time.Millisecond,
		HTTPAddr:        ":8080",
		Heartbeat:       15 * time.Minute,
		LED: LEDConfig{
			Chip: gpio.DefaultChip,
			Pin:  gpio.DefaultPin,
		},
		LogLevel: "info",
	}
}

// Load builds the configuration. path may be empty to skip the file.
// environ replaces the process environment when non-nil.
func Load(path string, environ map[string]string) (Config, error) {
	cfg := Defaults()
	if path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.ApplyEnv(environ); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile overlays the YAML file at path. Unknown keys are rejected.
func (c *Config) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return c.decode(f)
}

func (c *Config) decode(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

// ApplyEnv overlays AUTOSPLITTER_ variables. Unset variables leave the
// current value alone.
func (c *Config) ApplyEnv(environ map[string]string) error {
	opts := env.Options{Prefix: EnvPrefix, Environment: environ}
	if err := env.ParseWithOptions(c, opts); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate checks values that cannot be caught by parsing.
func (c Config) Validate() error {
	var errs []error
	if c.LiveSplitPort <= 0 || c.LiveSplitPort > 65535 {
		errs = append(errs, fmt.Errorf("livesplit port %d out of range", c.LiveSplitPort))
	}
	if c.UpdateFrequency <= 0 {
		errs = append(errs, fmt.Errorf("update frequency must be positive, got %s", c.UpdateFrequency))
	}
	if _, err := c.RequestedSplitType(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	if c.Heartbeat < 0 {
		errs = append(errs, fmt.Errorf("heartbeat must not be negative, got %s", c.Heartbeat))
	}
	if c.LED.Enabled && c.LED.Pin < 0 {
		errs = append(errs, fmt.Errorf("led pin %d out of range", c.LED.Pin))
	}
	return errors.Join(errs...)
}

// LiveSplitAddr is the host:port of the LiveSplit server.
func (c Config) LiveSplitAddr() string {
	return net.JoinHostPort(c.LiveSplitHost, strconv.Itoa(c.LiveSplitPort))
}

// RequestedSplitType parses SplitType, returning route.Unset when empty.
func (c Config) RequestedSplitType() (route.SplitType, error) {
	if c.SplitType == "" {
		return route.Unset, nil
	}
	return route.ParseSplitType(c.SplitType)
}

// Level parses LogLevel.
func (c Config) Level() (zerolog.Level, error) {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("log level: %w", err)
	}
	return lvl, nil
}
