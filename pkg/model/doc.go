// Package model defines the database models for Inkwell.
//
// This package contains GORM models that map to the Inkwell PostgreSQL
// schema. The schema itself is owned by the SQL migrations under
// db/migrations; the models mirror it with explicit column tags.
//
// # Core Models
//
//   - Author: registered writers, bcrypt password digests
//   - Credential: per-author API keys, encrypted at rest
//   - Blog: publications, soft-deleted, optimistic lock_version
//   - Post: Markdown articles, per-blog unique slug, status enum,
//     optimistic lock_version, soft-deleted
//   - Tag: normalized labels, joined through post_tags
//   - Comment: public notes on posts
//   - PostRevision: append-only temporal snapshots of posts
//
// # Hooks
//
// Credential encrypts its API key in BeforeSave and decrypts in AfterFind
// using the cipher bound into the session context (see pkg/seal). Blog and
// Post normalize their slugs in BeforeSave. None of the hooks issue queries.
package model
