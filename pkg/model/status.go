package model

import (
	"database/sql/driver"
	"fmt"
)

//go:generate go run github.com/dmarkham/enumer -type Status -trimprefix Status -transform lower -yaml -output status.gen.go

// Status is the lifecycle state of a post.
type Status int

const (
	StatusDraft Status = iota
	StatusPublished
	StatusArchived
)

// Value stores the status as its text form, so the column reads naturally
// in SQL and survives reordering of the Go constants.
func (s Status) Value() (driver.Value, error) {
	if !s.IsAStatus() {
		return nil, fmt.Errorf("invalid status value: %d", int(s))
	}
	return s.String(), nil
}

func (s *Status) Scan(src interface{}) error {
	var name string
	switch v := src.(type) {
	case string:
		name = v
	case []byte:
		name = string(v)
	default:
		return fmt.Errorf("cannot scan %T into Status", src)
	}

	parsed, err := StatusString(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
