package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("INKWELL_CONFIG_PATH", t.TempDir()) // no file present

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 25, cfg.PageSizeDefault)
	assert.Equal(t, 100, cfg.PageSizeMax)
	assert.Equal(t, 28800, cfg.TokenTTL)
	assert.True(t, cfg.HistoryEnabled)
	assert.False(t, cfg.CacheEnabled)
	assert.Equal(t, 30, cfg.RetentionDays)
	assert.Equal(t, 50, cfg.RevisionKeep)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)

	assert.Equal(t, "default", cfg.Source("page_size_default"))
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	content := `
page_size_default: 10
history_enabled: false
log_level: debug
unknown_key: ignored
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0o644))
	t.Setenv("INKWELL_CONFIG_PATH", dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.PageSizeDefault)
	assert.False(t, cfg.HistoryEnabled)
	assert.Equal(t, "debug", cfg.LogLevel)

	assert.Equal(t, "file", cfg.Source("page_size_default"))
	assert.Equal(t, "file", cfg.Source("history_enabled"))
	// Not named in the file, so still a default
	assert.Equal(t, "default", cfg.Source("page_size_max"))
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("page_size_default: 10\n"), 0o644))
	t.Setenv("INKWELL_CONFIG_PATH", dir)
	t.Setenv("INKWELL_PAGE_SIZE_DEFAULT", "15")
	t.Setenv("INKWELL_HISTORY_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 15, cfg.PageSizeDefault)
	assert.Equal(t, "environment", cfg.Source("page_size_default"))
	assert.False(t, cfg.HistoryEnabled)
	assert.Equal(t, "environment", cfg.Source("history_enabled"))
}

func TestLoadBadYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("{not yaml"), 0o644))
	t.Setenv("INKWELL_CONFIG_PATH", dir)

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errHas string
	}{
		{"valid", func(c *Config) {}, ""},
		{"bad proxy", func(c *Config) { c.TrustedProxies = []string{"not-a-cidr"} }, "trusted_proxies"},
		{"plain ip proxy ok", func(c *Config) { c.TrustedProxies = []string{"10.0.0.1"} }, ""},
		{"cidr proxy ok", func(c *Config) { c.TrustedProxies = []string{"10.0.0.0/8"} }, ""},
		{"zero default page", func(c *Config) { c.PageSizeDefault = 0 }, "page_size_default"},
		{"default exceeds max", func(c *Config) { c.PageSizeDefault = 200 }, "page_size_max"},
		{"zero ttl", func(c *Config) { c.TokenTTL = 0 }, "token_ttl"},
		{"zero retention", func(c *Config) { c.RetentionDays = 0 }, "retention_days"},
		{"zero revision keep", func(c *Config) { c.RevisionKeep = 0 }, "revision_keep"},
		{"bad level", func(c *Config) { c.LogLevel = "verbose" }, "log_level"},
		{"bad format", func(c *Config) { c.LogFormat = "xml" }, "log_format"},
		{"cache without redis", func(c *Config) { c.CacheEnabled = true }, "redis_url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newDefault()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.errHas == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errHas)
			}
		})
	}
}

func TestIsTrustedProxy(t *testing.T) {
	cfg := newDefault()
	cfg.TrustedProxies = []string{"10.0.0.0/8", "192.168.1.5"}

	assert.True(t, cfg.IsTrustedProxy("10.1.2.3"))
	assert.True(t, cfg.IsTrustedProxy("192.168.1.5"))
	assert.False(t, cfg.IsTrustedProxy("172.16.0.1"))
	assert.False(t, cfg.IsTrustedProxy("garbage"))

	cfg.TrustedProxies = nil
	assert.False(t, cfg.IsTrustedProxy("10.1.2.3"))
}

func TestFormatText(t *testing.T) {
	t.Setenv("INKWELL_CONFIG_PATH", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	out := cfg.FormatText()
	assert.Contains(t, out, "page_size_default")
	assert.Contains(t, out, "SOURCE")
	assert.Contains(t, out, "(not set)") // redis_url has no value
}

func TestFormatJSON(t *testing.T) {
	t.Setenv("INKWELL_CONFIG_PATH", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	out, err := cfg.FormatJSON()
	require.NoError(t, err)
	assert.Contains(t, out, `"config_file"`)
	assert.Contains(t, out, `"token_ttl"`)
}
