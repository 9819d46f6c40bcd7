package providers

import (
	"bikeprice/internal/structures"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *structures.Config {
	return &structures.Config{
		WebServer: structures.Server{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Upstream: structures.UpstreamConfig{
			Timeout:        5 * time.Second,
			MaxAttempts:    3,
			InitialBackoff: 100 * time.Millisecond,
			MaxBackoff:     time.Second,
			MaxConcurrent:  4,
			UserAgent:      "test-agent",
		},
		Normalization: structures.NormalizationConfig{Policy: "strict"},
		Snapshot: structures.SnapshotConfig{
			FilePath:        "/tmp/pricing.json",
			CityConcurrency: 4,
		},
		Display: structures.DisplayConfig{
			DefaultCountry: "Denmark",
			DefaultCity:    "Copenhagen",
		},
		Logger: structures.LoggerConfig{
			Level: "info",
			Mode:  0644,
			Dir:   "/tmp/logs",
		},
	}
}

func TestConfigValidator_ValidConfig(t *testing.T) {
	v := NewCnfValidator(validConfig())
	assert.NoError(t, v.Validate())
}

func TestConfigValidator_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *structures.Config)
	}{
		{"empty host", func(c *structures.Config) { c.WebServer.Host = "" }},
		{"zero port", func(c *structures.Config) { c.WebServer.Port = 0 }},
		{"empty log level", func(c *structures.Config) { c.Logger.Level = "" }},
		{"invalid log level", func(c *structures.Config) { c.Logger.Level = "verbose" }},
		{"unknown policy", func(c *structures.Config) { c.Normalization.Policy = "relaxed" }},
		{"no snapshot path", func(c *structures.Config) { c.Snapshot.FilePath = "" }},
		{"zero attempts", func(c *structures.Config) { c.Upstream.MaxAttempts = 0 }},
		{"no user agent", func(c *structures.Config) { c.Upstream.UserAgent = "" }},
		{"backoff inverted", func(c *structures.Config) {
			c.Upstream.InitialBackoff = 2 * time.Second
			c.Upstream.MaxBackoff = time.Second
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			assert.Error(t, NewCnfValidator(c).Validate())
		})
	}
}

func TestConfigProvider_DefaultsWithoutFile(t *testing.T) {
	dir := t.TempDir()
	conf, err := NewConfigProvider(&structures.CliFlags{ConfigPath: filepath.Join(dir, "missing.yaml")})
	require.NoError(t, err)

	assert.Equal(t, AppName, conf.AppName)
	assert.Equal(t, "strict", conf.Normalization.Policy)
	assert.Equal(t, "pricing.json", conf.Snapshot.FilePath)
	assert.Equal(t, 3, conf.Upstream.MaxAttempts)
	assert.Equal(t, "Copenhagen", conf.Display.DefaultCity)
}

func TestConfigProvider_ReadsYaml(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
webServer:
  host: 127.0.0.1
  port: 9000
normalization:
  policy: lenient
snapshot:
  filePath: /tmp/out.json
  cityConcurrency: 2
logger:
  level: warn
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	conf, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path, DebugMode: true})
	require.NoError(t, err)

	assert.Equal(t, 9000, conf.WebServer.Port)
	assert.Equal(t, "lenient", conf.Normalization.Policy)
	assert.Equal(t, "/tmp/out.json", conf.Snapshot.FilePath)
	assert.Equal(t, 2, conf.Snapshot.CityConcurrency)
	assert.Equal(t, "debug", conf.Logger.Level)
	assert.Equal(t, path, conf.Path)
}

func TestConfigProvider_RejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("normalization:\n  policy: sometimes\n"), 0644))

	_, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path})
	assert.Error(t, err)
}
