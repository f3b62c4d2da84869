// Package log bootstraps the global zerolog logger.
//
// All application logging goes through zerolog. JSON output is the default;
// console output is available for development via log_format=console.
//
// # Environment Variables
//
//   - INKWELL_LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - INKWELL_LOG_FORMAT: json or console (default: json)
package log
