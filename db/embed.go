//go:build embed_migrations

package db

import "embed"

// Migrations holds the versioned schema migrations compiled into the binary
// for production builds (build tag embed_migrations). Development builds run
// them from file://db/migrations instead.
//
//go:embed migrations/*.sql
var Migrations embed.FS
