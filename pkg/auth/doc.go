// Package auth covers Inkwell's three credential forms: bcrypt passwords,
// random API keys checked in constant time, and the HS256 access tokens the
// API hands out after login. All mismatches surface as ErrBadCredentials or
// ErrBadToken with no further detail.
package auth
