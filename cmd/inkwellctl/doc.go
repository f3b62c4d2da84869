// Package main implements inkwellctl, the CLI for the Inkwell multi-blog
// publishing server.
//
// # Architecture
//
// The server is organized into several packages:
//
//   - pkg/server: HTTP server and routing
//   - pkg/server/endpoints: REST API endpoint handlers
//   - pkg/store: storage interfaces and the GORM implementation
//   - pkg/history: temporal post revision capture
//   - pkg/seal: cryptographic operations for credentials at rest
//   - pkg/auth: passwords, API keys and access tokens
//   - pkg/model: database models
//   - pkg/db: database connection utilities
//   - pkg/audit: audit logging
//   - pkg/config: configuration management
//   - pkg/seed: declarative content seeding
//   - pkg/retention: soft-delete purge and revision trimming
//
// # Quick Start
//
//	# Generate a data key for encryption
//	export INKWELL_DATA_KEY="$(inkwellctl data-key generate)"
//
//	# Run database migrations
//	inkwellctl db migrate
//
//	# Create an author
//	inkwellctl author create vera@example.com --name Vera
//
//	# Start the server
//	inkwellctl server
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string
//   - INKWELL_DATA_KEY: Base64-encoded 256-bit key for credential encryption
//   - INKWELL_LOG_LEVEL: Log level (debug, info, warn, error)
//   - INKWELL_AUDIT_ENABLED: Enable syslog-format audit logging
//   - INKWELL_AUDIT_DATABASE_URL: Optional audit event database
//   - PORT: Server port (default: 8000)
package main
