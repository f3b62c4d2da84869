package db

import (
	"context"
	"database/sql"
	"errors"
	"math/rand"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/inkwell-sh/inkwell/pkg/store"
)

// Postgres error codes that indicate the transaction lost a race and can
// simply be run again.
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// InTransaction runs fn inside a transaction, committing on nil and rolling
// back on error or panic.
func InTransaction(gdb *gorm.DB, fn func(tx *gorm.DB) error) error {
	return gdb.Transaction(fn)
}

// InTransactionWith runs fn inside a transaction with explicit options,
// e.g. a raised isolation level.
func InTransactionWith(gdb *gorm.DB, opts *sql.TxOptions, fn func(tx *gorm.DB) error) error {
	return gdb.Transaction(fn, opts)
}

// WithSavepoint runs fn under a savepoint inside an existing transaction.
// On error the transaction rolls back to the savepoint and stays usable.
func WithSavepoint(tx *gorm.DB, name string, fn func(tx *gorm.DB) error) error {
	if err := tx.SavePoint(name).Error; err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.RollbackTo(name).Error; rbErr != nil {
			return rbErr
		}
		return err
	}
	return nil
}

// Retryable reports whether err is worth re-running the whole unit of work
// for: Postgres serialization failures and deadlocks, plus optimistic-lock
// conflicts (the caller is expected to re-read before retrying).
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, store.ErrStaleVersion) {
		return true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		code := string(pqErr.Code)
		return code == pgSerializationFailure || code == pgDeadlockDetected
	}
	return false
}

// WithRetry runs fn up to attempts times, backing off with jitter between
// tries as long as the failure is Retryable. The last error is returned
// unwrapped so sentinel checks still work.
func WithRetry(ctx context.Context, attempts int, fn func(ctx context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * 50 * time.Millisecond
			backoff += time.Duration(rand.Int63n(int64(25 * time.Millisecond)))
			log.Debug().Int("attempt", attempt+1).Dur("backoff", backoff).
				Err(err).Msg("retrying after conflict")

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		err = fn(ctx)
		if err == nil || !Retryable(err) {
			return err
		}
	}
	return err
}
