// Package config loads the bpcd/bpcreplay configuration, adapted from
// the teacher's pkg/app/config for the BPC receiver domain.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/womat/debug"
	"gopkg.in/yaml.v2"
)

// Config holds the daemon configuration. As in the teacher, every field
// that should be settable from the config file must be exported and
// CamelCase to match the YAML tags below.
type Config struct {
	Flag      FlagConfig      `yaml:"-"`
	GPIO      GPIOConfig      `yaml:"gpio"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	Webserver WebserverConfig `yaml:"webserver"`
	History   HistoryConfig   `yaml:"history"`
	Log       LogConfig       `yaml:"log"`
}

// FlagConfig holds the parsed command-line flags.
type FlagConfig struct {
	Version    bool   `yaml:"-"`
	LogLevel   string `yaml:"-"`
	ConfigFile string `yaml:"-"`
}

// GPIOConfig describes the line the BPC receiver's demodulated output is
// wired to.
type GPIOConfig struct {
	Chip              string `yaml:"chip"`
	Line              int    `yaml:"line"`
	PullUp            bool   `yaml:"pullup"`
	PullDown          bool   `yaml:"pulldown"`
	DebouncePeriodInt int    `yaml:"debounceperiod"`
}

// MQTTConfig describes the broker decoded frames are published to.
type MQTTConfig struct {
	Connection string `yaml:"connection"`
	Topic      string `yaml:"topic"`
	PublishAll bool   `yaml:"publishall"`
}

// WebserverConfig describes the read-only JSON/websocket front-end.
type WebserverConfig struct {
	URL         string          `yaml:"url"`
	Webservices map[string]bool `yaml:"webservices"`
}

// HistoryConfig describes the embedded frame-history store.
type HistoryConfig struct {
	File           string        `yaml:"file"`
	Retention      time.Duration `yaml:"-"`
	RetentionHours int           `yaml:"retentionhours"`
}

// LogConfig describes the debug sink and level.
type LogConfig struct {
	File       io.WriteCloser `yaml:"-"`
	Flag       int            `yaml:"-"`
	FlagString string         `yaml:"flag"`
	FileString string         `yaml:"file"`
}

// New returns a Config populated with the daemon's defaults.
func New() *Config {
	return &Config{
		GPIO: GPIOConfig{
			Chip: "gpiochip0",
			Line: 17,
		},
		Webserver: WebserverConfig{
			URL: "http://0.0.0.0:4100",
			Webservices: map[string]bool{
				"version": true,
				"health":  true,
				"frame":   true,
				"stats":   true,
				"history": true,
				"stream":  true,
			},
		},
		MQTT: MQTTConfig{
			Connection: "",
			Topic:      "/bpc/frame",
		},
		History: HistoryConfig{
			File:           "/var/lib/bpcd/history.db",
			RetentionHours: 24,
		},
		Log: LogConfig{
			FileString: "stderr",
			FlagString: "standard",
		},
	}
}

// Load reads the config file named by Flag.ConfigFile, overlays the
// command-line overrides, and derives the computed fields.
func (c *Config) Load() error {
	if err := c.readFile(); err != nil {
		return fmt.Errorf("error reading config file %q: %w", c.Flag.ConfigFile, err)
	}

	if c.Flag.LogLevel != "" {
		c.Log.FlagString = c.Flag.LogLevel
	}
	if err := c.setDebugConfig(); err != nil {
		return fmt.Errorf("unable to open debug sink %q: %w", c.Log.FileString, err)
	}

	c.History.Retention = time.Duration(c.History.RetentionHours) * time.Hour

	return nil
}

func (c *Config) readFile() error {
	file, err := os.Open(c.Flag.ConfigFile)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	return yaml.NewDecoder(file).Decode(c)
}

// setDebugConfig translates the log level string into the debug
// package's flag combination and opens the configured sink, exactly as
// the teacher's pkg/app/config does.
func (c *Config) setDebugConfig() (err error) {
	switch strings.ToLower(c.Log.FlagString) {
	case "trace", "full":
		c.Log.Flag = debug.Full
	case "debug":
		c.Log.Flag = debug.Fatal | debug.Info | debug.Error | debug.Warning | debug.Debug
	case "warning", "standard":
		c.Log.Flag = debug.Fatal | debug.Info | debug.Error | debug.Warning
	case "error":
		c.Log.Flag = debug.Fatal | debug.Info | debug.Error
	case "info":
		c.Log.Flag = debug.Fatal | debug.Info
	case "fatal":
		c.Log.Flag = debug.Fatal
	}

	switch c.Log.FileString {
	case "stderr":
		c.Log.File = os.Stderr
	case "stdout":
		c.Log.File = os.Stdout
	default:
		if c.Log.File, err = os.OpenFile(c.Log.FileString, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666); err != nil {
			return err
		}
	}

	return nil
}
