package config

import (
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap/zapcore"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors struct {
	Errors []*ValidationError
}

func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "no validation errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e.Errors)))
	for i, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Add adds an error to the collection.
func (e *ValidationErrors) Add(field, message string) {
	e.Errors = append(e.Errors, &ValidationError{Field: field, Message: message})
}

// HasErrors returns true if there are any errors.
func (e *ValidationErrors) HasErrors() bool {
	return len(e.Errors) > 0
}

// Validate validates the entire configuration.
//
// Returns nil if valid, or a *ValidationErrors containing all validation errors.
// Adafruit IO credentials are not required here: pages that need them report
// the missing credentials when used.
func (c *Config) Validate() error {
	errs := &ValidationErrors{}

	if c.Server.Addr == "" {
		errs.Add("server.addr", "listen address is required")
	}
	if c.Server.ReadTimeout < 0 {
		errs.Add("server.readTimeout", "cannot be negative")
	}

	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		errs.Add("database.driver", fmt.Sprintf("invalid driver '%s', must be one of: postgres, sqlite", c.Database.Driver))
	}
	if c.Database.DSN == "" {
		errs.Add("database.dsn", "PG_DSN is not set")
	}

	if c.AIO.BaseURL != "" {
		if u, err := url.Parse(c.AIO.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs.Add("aio.baseUrl", fmt.Sprintf("invalid URL '%s'", c.AIO.BaseURL))
		}
	}
	if c.AIO.Timeout <= 0 {
		errs.Add("aio.timeout", "must be positive")
	}
	if c.AIO.PublishPerMinute < 0 {
		errs.Add("aio.publishPerMinute", "cannot be negative")
	}
	if c.AIO.PublishPerMinute > 0 && c.AIO.PublishBurst < 1 {
		errs.Add("aio.publishBurst", "must be at least 1 when publishing is limited")
	}

	feeds := map[string]string{
		"command":    c.AIO.Feeds.Command,
		"steering":   c.AIO.Feeds.Steering,
		"camera":     c.AIO.Feeds.Camera,
		"line":       c.AIO.Feeds.Line,
		"obstacle":   c.AIO.Feeds.Obstacle,
		"ultrasonic": c.AIO.Feeds.Ultrasonic,
		"grayMid":    c.AIO.Feeds.GrayMid,
		"tts":        c.AIO.Feeds.TTS,
	}
	for _, name := range []string{"command", "steering", "camera", "line", "obstacle", "ultrasonic", "grayMid", "tts"} {
		if feeds[name] == "" {
			errs.Add("aio.feeds."+name, "feed key is required")
		}
	}

	if c.Charts.LivePoints < 1 {
		errs.Add("charts.livePoints", "must be at least 1")
	}
	if c.Charts.UltrasonicLimit < 1 {
		errs.Add("charts.ultrasonicLimit", "must be at least 1")
	}
	if c.Charts.TableLimit < 1 {
		errs.Add("charts.tableLimit", "must be at least 1")
	}

	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		errs.Add("log.level", err.Error())
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}
