package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func validConfig() *Config {
	cfg := Default()
	cfg.Database.DSN = "postgres://localhost/picarx"
	return cfg
}

func TestParseDurationString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{name: "standard seconds", input: "30s", expected: 30 * time.Second},
		{name: "milliseconds", input: "500ms", expected: 500 * time.Millisecond},
		{name: "integer as seconds", input: "5", expected: 5 * time.Second},
		{name: "empty string", input: "", expected: 0},
		{name: "invalid format", input: "abc", wantErr: true},
		{name: "trailing garbage", input: "5x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseDurationString(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, d)
		})
	}
}

func TestParseConfigYAML(t *testing.T) {
	cfg := Default()
	data := []byte(`
server:
  addr: ":8080"
database:
  driver: sqlite
  dsn: "file:readings.db"
aio:
  username: robot
  timeout: 2s
  feeds:
    tts: speech
charts:
  livePoints: 50
`)

	require.NoError(t, ParseConfig(data, "dash.yaml", cfg))

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "file:readings.db", cfg.Database.DSN)
	assert.Equal(t, "robot", cfg.AIO.Username)
	assert.Equal(t, 2*time.Second, time.Duration(cfg.AIO.Timeout))
	assert.Equal(t, "speech", cfg.AIO.Feeds.TTS)
	assert.Equal(t, 50, cfg.Charts.LivePoints)

	// untouched defaults survive
	assert.Equal(t, "picarx-command", cfg.AIO.Feeds.Command)
	assert.Equal(t, 500, cfg.Charts.UltrasonicLimit)
}

func TestParseConfigJSON(t *testing.T) {
	cfg := Default()
	data := []byte(`{"database": {"driver": "sqlite", "dsn": ":memory:"}, "aio": {"timeout": "1s"}}`)

	require.NoError(t, ParseConfig(data, "dash.json", cfg))
	assert.Equal(t, ":memory:", cfg.Database.DSN)
	assert.Equal(t, time.Second, cfg.AIO.Timeout.GetDuration(0))
}

func TestParseConfigInvalid(t *testing.T) {
	assert.Error(t, ParseConfig([]byte(`{"server": `), "dash.json", Default()))
	assert.Error(t, ParseConfig([]byte("aio:\n  timeout: forever\n"), "dash.yml", Default()))
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	cfg.Database.DSN = "from-file"

	err := ApplyEnv(cfg, envMap(map[string]string{
		"PG_DSN":                 "postgres://env/db",
		"AIO_USERNAME":           "robot",
		"AIO_KEY":                "secret",
		"AIO_ULTRA_HTTP_FEED":    "distance",
		"AIO_TIMEOUT":            "3s",
		"LIVE_POINTS":            "10",
		"AIO_TTS_FEED":           "",
		"AIO_PUBLISH_PER_MINUTE": "0.5",
		"AIO_PUBLISH_BURST":      "2",
		"DEBUG":                  "true",
	}))
	require.NoError(t, err)

	assert.Equal(t, "postgres://env/db", cfg.Database.DSN)
	assert.Equal(t, "robot", cfg.AIO.Username)
	assert.Equal(t, "secret", cfg.AIO.Key)
	assert.Equal(t, "distance", cfg.AIO.Feeds.Ultrasonic)
	assert.Equal(t, 3*time.Second, time.Duration(cfg.AIO.Timeout))
	assert.Equal(t, 10, cfg.Charts.LivePoints)
	assert.Equal(t, "tts", cfg.AIO.Feeds.TTS, "empty variables are ignored")
	assert.Equal(t, 0.5, cfg.AIO.PublishPerMinute)
	assert.Equal(t, 2, cfg.AIO.PublishBurst)
	assert.True(t, cfg.Server.Debug)
}

func TestApplyEnvInvalid(t *testing.T) {
	assert.ErrorContains(t, ApplyEnv(Default(), envMap(map[string]string{"AIO_TIMEOUT": "soon"})), "AIO_TIMEOUT")
	assert.ErrorContains(t, ApplyEnv(Default(), envMap(map[string]string{"LIVE_POINTS": "many"})), "LIVE_POINTS")
	assert.ErrorContains(t, ApplyEnv(Default(), envMap(map[string]string{"AIO_PUBLISH_PER_MINUTE": "lots"})), "AIO_PUBLISH_PER_MINUTE")
	assert.ErrorContains(t, ApplyEnv(Default(), envMap(map[string]string{"DEBUG": "maybe"})), "DEBUG")
}

func TestValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, validConfig().Validate())
	})

	t.Run("missing DSN", func(t *testing.T) {
		err := Default().Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "PG_DSN is not set")
	})

	t.Run("collects every problem", func(t *testing.T) {
		cfg := validConfig()
		cfg.Database.Driver = "mysql"
		cfg.AIO.BaseURL = "not a url"
		cfg.AIO.Feeds.Camera = ""
		cfg.Charts.TableLimit = 0
		cfg.Log.Level = "loud"

		err := cfg.Validate()
		require.Error(t, err)

		var errs *ValidationErrors
		require.ErrorAs(t, err, &errs)
		assert.Len(t, errs.Errors, 5)
		assert.Contains(t, err.Error(), "5 validation errors")
		assert.Contains(t, err.Error(), "aio.feeds.camera")
	})

	t.Run("publish limit", func(t *testing.T) {
		cfg := validConfig()
		cfg.AIO.PublishBurst = 0
		assert.ErrorContains(t, cfg.Validate(), "aio.publishBurst")

		cfg.AIO.PublishPerMinute = 0
		assert.NoError(t, cfg.Validate(), "burst is unused without a limit")

		cfg.AIO.PublishPerMinute = -1
		assert.ErrorContains(t, cfg.Validate(), "aio.publishPerMinute")
	})
}

func TestValidationErrorMessages(t *testing.T) {
	assert.Equal(t, "validation error on field 'a.b': bad", (&ValidationError{Field: "a.b", Message: "bad"}).Error())
	assert.Equal(t, "validation error: bad", (&ValidationError{Message: "bad"}).Error())
	assert.Equal(t, "no validation errors", (&ValidationErrors{}).Error())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "dash.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database:\n  driver: sqlite\n  dsn: \"file-dsn\"\n"), 0o644))

	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("AIO_USERNAME=from-dotenv\n"), 0o644))

	t.Setenv("PG_DSN", "env-dsn")
	t.Setenv("AIO_USERNAME", "")
	os.Unsetenv("AIO_USERNAME")

	cfg, err := Load(path, envFile)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "env-dsn", cfg.Database.DSN)
	assert.Equal(t, "from-dotenv", cfg.AIO.Username)
}

func TestLoadMissingFiles(t *testing.T) {
	t.Setenv("PG_DSN", "env-dsn")

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), "")
	assert.ErrorContains(t, err, "failed to read config file")

	cfg, err := Load("", filepath.Join(t.TempDir(), ".env"))
	require.NoError(t, err)
	assert.Equal(t, "env-dsn", cfg.Database.DSN)
}
