package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/scoreit/scoreit/internal/env"
)

// ErrUnknownKey indicates the config file contains an unexpected/unknown
// key.
type ErrUnknownKey struct {
	Line int
	Key  string
}

// Error returns the error string for ErrUnknownKey types.
func (e ErrUnknownKey) Error() string {
	return fmt.Sprintf("line %d: unknown config key %q", e.Line, e.Key)
}

// ErrMissingValue indicates that a value was not supplied with a given config
// key.
type ErrMissingValue struct {
	Line   int
	ForKey string
}

// Error returns the error string for ErrMissingValue instances.
func (e ErrMissingValue) Error() string {
	return fmt.Sprintf("line %d: missing value for config key %q", e.Line, e.ForKey)
}

var ErrInvalidValue = errors.New("invalid config value")

const (
	StoreNBT    = "nbt"
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

// Config holds the program's configuration.
type Config struct {
	DiscordToken     string
	CommandPrefix    string
	Admins           []string
	Store            string
	StorePath        string
	HTTPListen       string
	DumpDir          string
	TopRankings      uint
	AutosaveInterval time.Duration
	AMQPURL          string
	PointNamespace   string
	LogLevel         string
	LogFormat        string
}

func Default() Config {
	return Config{
		CommandPrefix:    "scoreit",
		Store:            StoreNBT,
		StorePath:        "scoreit.dat",
		HTTPListen:       ":8080",
		DumpDir:          "config/scoreit/dumps",
		TopRankings:      5,
		AutosaveInterval: 30 * time.Second,
		PointNamespace:   "scoreit",
		LogLevel:         "info",
		LogFormat:        "text",
	}
}

// Load reads a YAML mapping of config keys on top of the defaults. Every
// key must be known and have a value.
func Load(r io.Reader) (Config, error) {
	config := Default()

	var doc yaml.Node
	err := yaml.NewDecoder(r).Decode(&doc)
	if errors.Is(err, io.EOF) {
		return config, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if len(doc.Content) == 0 {
		return config, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return Config{}, fmt.Errorf("line %d: config must be a mapping of keys to values", root.Line)
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]

		if val.Tag == "!!null" {
			return Config{}, ErrMissingValue{Line: key.Line, ForKey: key.Value}
		}

		var target any
		switch key.Value {
		case "discord_token":
			target = &config.DiscordToken
		case "command_prefix":
			target = &config.CommandPrefix
		case "admins":
			target = &config.Admins
		case "store":
			target = &config.Store
		case "store_path":
			target = &config.StorePath
		case "http_listen":
			target = &config.HTTPListen
		case "dump_dir":
			target = &config.DumpDir
		case "top_rankings":
			target = &config.TopRankings
		case "autosave_interval":
			target = &config.AutosaveInterval
		case "amqp_url":
			target = &config.AMQPURL
		case "point_namespace":
			target = &config.PointNamespace
		case "log_level":
			target = &config.LogLevel
		case "log_format":
			target = &config.LogFormat
		default:
			return Config{}, ErrUnknownKey{Line: key.Line, Key: key.Value}
		}

		if err := val.Decode(target); err != nil {
			return Config{}, fmt.Errorf("line %d: %s: %w", key.Line, key.Value, err)
		}
	}

	return config, nil
}

// LoadFromFile is a convenience function for reading a Config from a file.
func LoadFromFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()

	return Load(f)
}

// ApplyEnv overrides config values with SCOREIT_* variables looked up
// through f.
func (c *Config) ApplyEnv(f env.Lookup) error {
	strs := map[string]*string{
		"SCOREIT_DISCORD_TOKEN":   &c.DiscordToken,
		"SCOREIT_COMMAND_PREFIX":  &c.CommandPrefix,
		"SCOREIT_STORE":           &c.Store,
		"SCOREIT_STORE_PATH":      &c.StorePath,
		"SCOREIT_HTTP_LISTEN":     &c.HTTPListen,
		"SCOREIT_DUMP_DIR":        &c.DumpDir,
		"SCOREIT_AMQP_URL":        &c.AMQPURL,
		"SCOREIT_POINT_NAMESPACE": &c.PointNamespace,
		"SCOREIT_LOG_LEVEL":       &c.LogLevel,
		"SCOREIT_LOG_FORMAT":      &c.LogFormat,
	}
	for key, dst := range strs {
		if v, err := env.Get(key, f); err == nil {
			*dst = v
		}
	}

	if ids, err := env.List("SCOREIT_ADMINS", f); err == nil {
		c.Admins = ids
	}

	d, err := env.Duration("SCOREIT_AUTOSAVE_INTERVAL", f)
	switch {
	case err == nil:
		c.AutosaveInterval = d
	case !errors.Is(err, env.ErrKeyNotFound):
		return fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}

	return nil
}

// Validate checks values that cannot be checked while parsing.
func (c Config) Validate() error {
	switch c.Store {
	case StoreNBT, StoreSQLite, StoreMemory:
	default:
		return fmt.Errorf("%w: store must be one of nbt, sqlite, memory, got %q", ErrInvalidValue, c.Store)
	}

	if c.Store != StoreMemory && c.StorePath == "" {
		return fmt.Errorf("%w: store_path is required for the %s store", ErrInvalidValue, c.Store)
	}
	if c.CommandPrefix == "" {
		return fmt.Errorf("%w: command_prefix must not be empty", ErrInvalidValue)
	}
	if c.TopRankings == 0 {
		return fmt.Errorf("%w: top_rankings must be positive", ErrInvalidValue)
	}
	if c.AutosaveInterval <= 0 {
		return fmt.Errorf("%w: autosave_interval must be positive", ErrInvalidValue)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidValue, c.LogFormat)
	}

	return nil
}

// ConfigureLogging applies the log level and format to the standard logger.
func (c Config) ConfigureLogging(logger *logrus.Logger) error {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return err
	}
	logger.SetLevel(level)

	if c.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return nil
}
