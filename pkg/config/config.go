package config

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/inkwell-sh/inkwell/pkg/log"
)

const (
	DefaultConfigPath = "/etc/inkwell/config"
	ConfigFileName    = "inkwell.yml"
)

// Config holds all Inkwell configuration settings
type Config struct {
	// TrustedProxies is a list of CIDR ranges for trusted proxies
	TrustedProxies []string `yaml:"trusted_proxies" json:"trusted_proxies"`

	// PageSizeDefault is the page size applied when a request names none
	PageSizeDefault int `yaml:"page_size_default" json:"page_size_default"`

	// PageSizeMax caps the page size a request may ask for
	PageSizeMax int `yaml:"page_size_max" json:"page_size_max"`

	// TokenTTL is the lifetime of issued access tokens in seconds
	TokenTTL int `yaml:"token_ttl" json:"token_ttl"`

	// HistoryEnabled turns post revision capture on or off
	HistoryEnabled bool `yaml:"history_enabled" json:"history_enabled"`

	// CacheEnabled turns the rendered-post Redis cache on or off
	CacheEnabled bool `yaml:"cache_enabled" json:"cache_enabled"`

	// RedisURL is the Redis connection URL for the rendered-post cache
	RedisURL string `yaml:"redis_url" json:"redis_url"`

	// RetentionDays is how long soft-deleted rows stay before the purge job
	RetentionDays int `yaml:"retention_days" json:"retention_days"`

	// RevisionKeep is how many closed revisions the trim job keeps per post
	RevisionKeep int `yaml:"revision_keep" json:"revision_keep"`

	// DBMaxOpen is the maximum number of open database connections
	DBMaxOpen int `yaml:"db_max_open" json:"db_max_open"`

	// DBMaxIdle is the maximum number of idle database connections
	DBMaxIdle int `yaml:"db_max_idle" json:"db_max_idle"`

	// DBConnMaxLifetime is the connection lifetime in seconds
	DBConnMaxLifetime int `yaml:"db_conn_max_lifetime" json:"db_conn_max_lifetime"`

	// SlowQueryMs is the slow-query log threshold in milliseconds
	SlowQueryMs int `yaml:"slow_query_ms" json:"slow_query_ms"`

	// LogLevel is the logging verbosity
	LogLevel string `yaml:"log_level" json:"log_level"`

	// LogFormat is json or console
	LogFormat string `yaml:"log_format" json:"log_format"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// Global singleton config
var (
	globalConfig *Config
	configMu     sync.RWMutex
)

// Get returns the global configuration, loading it if necessary
func Get() *Config {
	configMu.RLock()
	if globalConfig != nil {
		configMu.RUnlock()
		return globalConfig
	}
	configMu.RUnlock()

	configMu.Lock()
	defer configMu.Unlock()

	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			// Return defaults on error
			globalConfig = newDefault()
		} else {
			globalConfig = cfg
		}
	}
	return globalConfig
}

// Reload reloads the configuration from file and environment
func Reload() error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
	return nil
}

// newDefault returns a config with default values
func newDefault() *Config {
	return &Config{
		TrustedProxies:    []string{},
		PageSizeDefault:   25,
		PageSizeMax:       100,
		TokenTTL:          28800,
		HistoryEnabled:    true,
		CacheEnabled:      false,
		RedisURL:          "",
		RetentionDays:     30,
		RevisionKeep:      50,
		DBMaxOpen:         25,
		DBMaxIdle:         5,
		DBConnMaxLifetime: 3600,
		SlowQueryMs:       200,
		LogLevel:          "info",
		LogFormat:         "json",
		sources:           make(map[string]string),
	}
}

// fileValues mirrors Config with pointer fields so a file can set a value
// to its zero form (e.g. history_enabled: false) and still be detected.
type fileValues struct {
	TrustedProxies    []string `yaml:"trusted_proxies"`
	PageSizeDefault   *int     `yaml:"page_size_default"`
	PageSizeMax       *int     `yaml:"page_size_max"`
	TokenTTL          *int     `yaml:"token_ttl"`
	HistoryEnabled    *bool    `yaml:"history_enabled"`
	CacheEnabled      *bool    `yaml:"cache_enabled"`
	RedisURL          *string  `yaml:"redis_url"`
	RetentionDays     *int     `yaml:"retention_days"`
	RevisionKeep      *int     `yaml:"revision_keep"`
	DBMaxOpen         *int     `yaml:"db_max_open"`
	DBMaxIdle         *int     `yaml:"db_max_idle"`
	DBConnMaxLifetime *int     `yaml:"db_conn_max_lifetime"`
	SlowQueryMs       *int     `yaml:"slow_query_ms"`
	LogLevel          *string  `yaml:"log_level"`
	LogFormat         *string  `yaml:"log_format"`
}

// Load loads configuration from file and environment variables
// Environment variables take precedence over file values
func Load() (*Config, error) {
	config := newDefault()

	// Initialize all sources as "default"
	for _, name := range attributeNames() {
		config.sources[name] = "default"
	}

	// Determine config file path
	configPath := os.Getenv("INKWELL_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	// Try to load from config file
	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var file fileValues
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&file)
	}

	// Override with environment variables
	config.applyEnvConfig()

	return config, nil
}

func attributeNames() []string {
	return []string{
		"trusted_proxies", "page_size_default", "page_size_max", "token_ttl",
		"history_enabled", "cache_enabled", "redis_url", "retention_days",
		"revision_keep", "db_max_open", "db_max_idle", "db_conn_max_lifetime",
		"slow_query_ms", "log_level", "log_format",
	}
}

func (c *Config) applyFileConfig(file *fileValues) {
	if len(file.TrustedProxies) > 0 {
		c.TrustedProxies = file.TrustedProxies
		c.sources["trusted_proxies"] = "file"
	}
	if file.PageSizeDefault != nil {
		c.PageSizeDefault = *file.PageSizeDefault
		c.sources["page_size_default"] = "file"
	}
	if file.PageSizeMax != nil {
		c.PageSizeMax = *file.PageSizeMax
		c.sources["page_size_max"] = "file"
	}
	if file.TokenTTL != nil {
		c.TokenTTL = *file.TokenTTL
		c.sources["token_ttl"] = "file"
	}
	if file.HistoryEnabled != nil {
		c.HistoryEnabled = *file.HistoryEnabled
		c.sources["history_enabled"] = "file"
	}
	if file.CacheEnabled != nil {
		c.CacheEnabled = *file.CacheEnabled
		c.sources["cache_enabled"] = "file"
	}
	if file.RedisURL != nil {
		c.RedisURL = *file.RedisURL
		c.sources["redis_url"] = "file"
	}
	if file.RetentionDays != nil {
		c.RetentionDays = *file.RetentionDays
		c.sources["retention_days"] = "file"
	}
	if file.RevisionKeep != nil {
		c.RevisionKeep = *file.RevisionKeep
		c.sources["revision_keep"] = "file"
	}
	if file.DBMaxOpen != nil {
		c.DBMaxOpen = *file.DBMaxOpen
		c.sources["db_max_open"] = "file"
	}
	if file.DBMaxIdle != nil {
		c.DBMaxIdle = *file.DBMaxIdle
		c.sources["db_max_idle"] = "file"
	}
	if file.DBConnMaxLifetime != nil {
		c.DBConnMaxLifetime = *file.DBConnMaxLifetime
		c.sources["db_conn_max_lifetime"] = "file"
	}
	if file.SlowQueryMs != nil {
		c.SlowQueryMs = *file.SlowQueryMs
		c.sources["slow_query_ms"] = "file"
	}
	if file.LogLevel != nil {
		c.LogLevel = *file.LogLevel
		c.sources["log_level"] = "file"
	}
	if file.LogFormat != nil {
		c.LogFormat = *file.LogFormat
		c.sources["log_format"] = "file"
	}
}

func (c *Config) applyEnvConfig() {
	if val := os.Getenv("INKWELL_TRUSTED_PROXIES"); val != "" {
		c.TrustedProxies = splitAndTrim(val)
		c.sources["trusted_proxies"] = "environment"
	}
	c.applyEnvInt("INKWELL_PAGE_SIZE_DEFAULT", "page_size_default", &c.PageSizeDefault)
	c.applyEnvInt("INKWELL_PAGE_SIZE_MAX", "page_size_max", &c.PageSizeMax)
	c.applyEnvInt("INKWELL_TOKEN_TTL", "token_ttl", &c.TokenTTL)
	c.applyEnvBool("INKWELL_HISTORY_ENABLED", "history_enabled", &c.HistoryEnabled)
	c.applyEnvBool("INKWELL_CACHE_ENABLED", "cache_enabled", &c.CacheEnabled)
	if val := os.Getenv("INKWELL_REDIS_URL"); val != "" {
		c.RedisURL = val
		c.sources["redis_url"] = "environment"
	}
	c.applyEnvInt("INKWELL_RETENTION_DAYS", "retention_days", &c.RetentionDays)
	c.applyEnvInt("INKWELL_REVISION_KEEP", "revision_keep", &c.RevisionKeep)
	c.applyEnvInt("INKWELL_DB_MAX_OPEN", "db_max_open", &c.DBMaxOpen)
	c.applyEnvInt("INKWELL_DB_MAX_IDLE", "db_max_idle", &c.DBMaxIdle)
	c.applyEnvInt("INKWELL_DB_CONN_MAX_LIFETIME", "db_conn_max_lifetime", &c.DBConnMaxLifetime)
	c.applyEnvInt("INKWELL_SLOW_QUERY_MS", "slow_query_ms", &c.SlowQueryMs)
	if val := os.Getenv("INKWELL_LOG_LEVEL"); val != "" {
		c.LogLevel = val
		c.sources["log_level"] = "environment"
	}
	if val := os.Getenv("INKWELL_LOG_FORMAT"); val != "" {
		c.LogFormat = val
		c.sources["log_format"] = "environment"
	}
}

func (c *Config) applyEnvInt(env, name string, dst *int) {
	if val := os.Getenv(env); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			*dst = i
			c.sources[name] = "environment"
		}
	}
}

func (c *Config) applyEnvBool(env, name string, dst *bool) {
	if val := os.Getenv(env); val != "" {
		*dst = val == "true" || val == "1"
		c.sources[name] = "environment"
	}
}

// ConfigFilePath returns the path to the config file
func (c *Config) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *Config) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// TokenTTLDuration returns the access token TTL as a duration
func (c *Config) TokenTTLDuration() time.Duration {
	return time.Duration(c.TokenTTL) * time.Second
}

// ConnMaxLifetime returns the database connection lifetime as a duration
func (c *Config) ConnMaxLifetime() time.Duration {
	return time.Duration(c.DBConnMaxLifetime) * time.Second
}

// SlowQueryThreshold returns the slow-query threshold as a duration
func (c *Config) SlowQueryThreshold() time.Duration {
	return time.Duration(c.SlowQueryMs) * time.Millisecond
}

// RetentionAge returns the soft-delete retention window as a duration
func (c *Config) RetentionAge() time.Duration {
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}

// IsTrustedProxy checks if an IP is from a trusted proxy
func (c *Config) IsTrustedProxy(ip string) bool {
	if len(c.TrustedProxies) == 0 {
		return false
	}

	parsedIP := net.ParseIP(ip)
	if parsedIP == nil {
		return false
	}

	for _, cidr := range c.TrustedProxies {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			// Try as plain IP
			if net.ParseIP(cidr) != nil && cidr == ip {
				return true
			}
			continue
		}
		if network.Contains(parsedIP) {
			return true
		}
	}
	return false
}

// Validate validates the configuration
func (c *Config) Validate() error {
	// Validate trusted proxies are valid CIDR ranges or plain IPs
	for _, cidr := range c.TrustedProxies {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			if net.ParseIP(cidr) == nil {
				return fmt.Errorf("invalid trusted_proxies value: %s", cidr)
			}
		}
	}

	if c.PageSizeDefault < 1 {
		return fmt.Errorf("page_size_default must be positive, got %d", c.PageSizeDefault)
	}
	if c.PageSizeMax < 1 {
		return fmt.Errorf("page_size_max must be positive, got %d", c.PageSizeMax)
	}
	if c.PageSizeDefault > c.PageSizeMax {
		return fmt.Errorf("page_size_default (%d) exceeds page_size_max (%d)", c.PageSizeDefault, c.PageSizeMax)
	}
	if c.TokenTTL < 1 {
		return fmt.Errorf("token_ttl must be positive, got %d", c.TokenTTL)
	}
	if c.RetentionDays < 1 {
		return fmt.Errorf("retention_days must be positive, got %d", c.RetentionDays)
	}
	if c.RevisionKeep < 1 {
		return fmt.Errorf("revision_keep must be positive, got %d", c.RevisionKeep)
	}
	if !log.ValidLevel(c.LogLevel) {
		return fmt.Errorf("invalid log_level: %s", c.LogLevel)
	}
	if c.LogFormat != "json" && c.LogFormat != "console" {
		return fmt.Errorf("invalid log_format: %s", c.LogFormat)
	}
	if c.CacheEnabled && c.RedisURL == "" {
		return fmt.Errorf("cache_enabled requires redis_url")
	}

	return nil
}

// Attributes returns all configuration attributes with their values and sources
func (c *Config) Attributes() []Attribute {
	return []Attribute{
		{Name: "trusted_proxies", Value: strings.Join(c.TrustedProxies, ","), Source: c.Source("trusted_proxies")},
		{Name: "page_size_default", Value: strconv.Itoa(c.PageSizeDefault), Source: c.Source("page_size_default")},
		{Name: "page_size_max", Value: strconv.Itoa(c.PageSizeMax), Source: c.Source("page_size_max")},
		{Name: "token_ttl", Value: strconv.Itoa(c.TokenTTL), Source: c.Source("token_ttl")},
		{Name: "history_enabled", Value: strconv.FormatBool(c.HistoryEnabled), Source: c.Source("history_enabled")},
		{Name: "cache_enabled", Value: strconv.FormatBool(c.CacheEnabled), Source: c.Source("cache_enabled")},
		{Name: "redis_url", Value: c.RedisURL, Source: c.Source("redis_url")},
		{Name: "retention_days", Value: strconv.Itoa(c.RetentionDays), Source: c.Source("retention_days")},
		{Name: "revision_keep", Value: strconv.Itoa(c.RevisionKeep), Source: c.Source("revision_keep")},
		{Name: "db_max_open", Value: strconv.Itoa(c.DBMaxOpen), Source: c.Source("db_max_open")},
		{Name: "db_max_idle", Value: strconv.Itoa(c.DBMaxIdle), Source: c.Source("db_max_idle")},
		{Name: "db_conn_max_lifetime", Value: strconv.Itoa(c.DBConnMaxLifetime), Source: c.Source("db_conn_max_lifetime")},
		{Name: "slow_query_ms", Value: strconv.Itoa(c.SlowQueryMs), Source: c.Source("slow_query_ms")},
		{Name: "log_level", Value: c.LogLevel, Source: c.Source("log_level")},
		{Name: "log_format", Value: c.LogFormat, Source: c.Source("log_format")},
	}
}

// FormatText returns a text representation of the configuration
func (c *Config) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-24s %-30s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-24s %-30s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-24s %-30s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *Config) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
