package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// LookupFunc reads an environment variable, like os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Load builds the configuration with Read, then validates it.
func Load(path, envFile string) (*Config, error) {
	cfg, err := Read(path, envFile)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Read builds the configuration from defaults, the file at path (if not empty),
// the .env file at envFile (if it exists) and the process environment.
// Commands that only talk to Adafruit IO use it directly, since they need no database.
func Read(path, envFile string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := ParseConfig(data, path, cfg); err != nil {
			return nil, err
		}
	}

	if envFile != "" {
		// godotenv never overrides variables that are already set
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	if err := ApplyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ParseConfig parses configuration data on top of cfg.
//
// The format is determined by the file extension in path, or defaults to YAML
// if the path is empty or has an unknown extension.
func ParseConfig(data []byte, path string, cfg *Config) error {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse JSON config: %w", err)
		}
	case ".yaml", ".yml", "":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse YAML config: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse config (unknown format %s): %w", ext, err)
		}
	}

	return nil
}

// ApplyEnv overrides cfg with the environment variables the dashboard understands.
func ApplyEnv(cfg *Config, lookup LookupFunc) error {
	strs := map[string]*string{
		"LISTEN_ADDR":            &cfg.Server.Addr,
		"DB_DRIVER":              &cfg.Database.Driver,
		"PG_DSN":                 &cfg.Database.DSN,
		"AIO_USERNAME":           &cfg.AIO.Username,
		"AIO_KEY":                &cfg.AIO.Key,
		"AIO_BASE_URL":           &cfg.AIO.BaseURL,
		"AIO_COMMAND_FEED":       &cfg.AIO.Feeds.Command,
		"AIO_STEERING_FEED":      &cfg.AIO.Feeds.Steering,
		"AIO_CAMERA_FEED":        &cfg.AIO.Feeds.Camera,
		"AIO_LINE_FEED":          &cfg.AIO.Feeds.Line,
		"AIO_OBSTACLE_FEED":      &cfg.AIO.Feeds.Obstacle,
		"AIO_ULTRA_HTTP_FEED":    &cfg.AIO.Feeds.Ultrasonic,
		"AIO_GRAY_MID_HTTP_FEED": &cfg.AIO.Feeds.GrayMid,
		"AIO_TTS_FEED":           &cfg.AIO.Feeds.TTS,
		"LOG_LEVEL":              &cfg.Log.Level,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	durations := map[string]*Duration{
		"AIO_TIMEOUT": &cfg.AIO.Timeout,
	}
	for key, dst := range durations {
		v, ok := lookup(key)
		if !ok || v == "" {
			continue
		}
		d, err := ParseDurationString(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = Duration(d)
	}

	ints := map[string]*int{
		"LIVE_POINTS":       &cfg.Charts.LivePoints,
		"AIO_PUBLISH_BURST": &cfg.AIO.PublishBurst,
	}
	for key, dst := range ints {
		v, ok := lookup(key)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = n
	}

	if v, ok := lookup("DEBUG"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid DEBUG: %w", err)
		}
		cfg.Server.Debug = b
	}

	if v, ok := lookup("AIO_PUBLISH_PER_MINUTE"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid AIO_PUBLISH_PER_MINUTE: %w", err)
		}
		cfg.AIO.PublishPerMinute = f
	}

	return nil
}
