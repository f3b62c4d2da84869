package query

import (
	"errors"

	"gorm.io/gorm"
)

// ErrBadSort is returned when a sort field isn't in the store's whitelist.
var ErrBadSort = errors.New("unsupported sort field")

// Page is offset pagination. Number is 1-based.
type Page struct {
	Number int
	Size   int
}

// Normalize clamps a page to sane values: non-positive numbers become page 1,
// a zero size takes the default, and size never exceeds max.
func (p Page) Normalize(defaultSize, maxSize int) Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size < 1 {
		p.Size = defaultSize
	}
	if p.Size > maxSize {
		p.Size = maxSize
	}
	return p
}

// Offset returns the row offset for the page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// Sort is a single sort directive.
type Sort struct {
	Field string
	Desc  bool
}

// ParseSort reads "field" or "-field" (descending) into a Sort.
func ParseSort(s string) Sort {
	if len(s) > 0 && s[0] == '-' {
		return Sort{Field: s[1:], Desc: true}
	}
	return Sort{Field: s}
}

// Column resolves the sort against a whitelist mapping exposed field names
// to SQL columns. An empty field falls back to fallback; anything not in
// the whitelist is ErrBadSort. User input never reaches the ORDER BY
// clause directly.
func (s Sort) Column(whitelist map[string]string, fallback string) (string, error) {
	if s.Field == "" {
		return fallback, nil
	}
	col, ok := whitelist[s.Field]
	if !ok {
		return "", ErrBadSort
	}
	return col, nil
}

// Paginate returns a GORM scope applying the page's offset and limit.
func Paginate(p Page) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Offset(p.Offset()).Limit(p.Size)
	}
}

// OrderBy returns a GORM scope ordering by a resolved column. The column
// must come from Sort.Column, never from the request.
func OrderBy(column string, desc bool) func(*gorm.DB) *gorm.DB {
	dir := " ASC"
	if desc {
		dir = " DESC"
	}
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Order(column + dir)
	}
}
