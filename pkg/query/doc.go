// Package query provides pagination, sorting and cursor helpers shared by
// the stores.
//
// Sorting is whitelist-only: request fields resolve through a per-store map
// to SQL columns, so user input never appears in an ORDER BY clause. Offset
// pages are clamped against the configured maximum; keyset cursors encode a
// (published_at, id) position. There is no query language here and none is
// planned - filters are typed fields, bound as parameters.
package query
