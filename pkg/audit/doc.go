// Package audit provides audit logging for Inkwell operations.
//
// This package implements structured audit logging for security-relevant
// operations such as authentication attempts, content writes, API key
// rotation, seed loads and retention sweeps.
//
// # Event Types
//
//   - Login events (success/failure)
//   - Entity events for blog, post and comment writes
//   - API key rotation and password change events
//   - Seed manifest load events
//   - Retention sweep events
//
// Events are emitted as RFC5424 syslog lines on stdout and, when
// INKWELL_AUDIT_DATABASE_URL is set, persisted to the audit_events table.
// Entity events record which columns changed, never the values.
//
// # Usage
//
//	audit.Log(audit.LoginEvent{Email: email, ClientIP: ip, Method: "password", Success: true})
package audit
