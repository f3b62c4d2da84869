package gorm

import (
	"errors"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/inkwell-sh/inkwell/pkg/store"
)

const pgUniqueViolation = "23505"

// mapError translates driver and ORM errors into the store sentinels.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrNotFound
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
		return store.ErrDuplicate
	}

	// The test double runs on SQLite, which reports unique violations
	// without a typed error we can depend on.
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return store.ErrDuplicate
	}

	return err
}
