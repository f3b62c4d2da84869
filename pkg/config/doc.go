// Package config provides configuration management for Inkwell.
//
// Configuration is merged from three layers, later layers winning:
//
//   - Built-in defaults
//   - YAML file ($INKWELL_CONFIG_PATH/inkwell.yml, default /etc/inkwell/config)
//   - INKWELL_* environment variables
//
// The source each value came from is tracked per attribute and surfaced by
// the `inkwellctl configuration show` command.
//
// # Key Configuration Options
//
//   - INKWELL_TRUSTED_PROXIES: CIDR ranges allowed to set X-Forwarded-For
//   - INKWELL_PAGE_SIZE_DEFAULT / INKWELL_PAGE_SIZE_MAX: listing page sizes
//   - INKWELL_TOKEN_TTL: access token lifetime in seconds
//   - INKWELL_HISTORY_ENABLED: post revision capture
//   - INKWELL_CACHE_ENABLED / INKWELL_REDIS_URL: rendered-post cache
//   - INKWELL_RETENTION_DAYS / INKWELL_REVISION_KEEP: maintenance windows
//   - INKWELL_LOG_LEVEL / INKWELL_LOG_FORMAT: logging
package config
