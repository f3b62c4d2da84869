package db

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/inkwell-sh/inkwell/pkg/seal"
)

// Config holds database connection configuration
type Config struct {
	// URL is the database connection URL (defaults to DATABASE_URL env var)
	URL string

	// Cipher is optional - if provided, it is bound into the session context
	// so model hooks can encrypt/decrypt columns
	Cipher seal.SymmetricCipher

	// Pool settings; zero values keep the driver defaults
	MaxOpen         int
	MaxIdle         int
	ConnMaxLifetime time.Duration

	// SlowQuery is the threshold above which statements log at WARN
	SlowQuery time.Duration

	// LogLevel selects how chatty the SQL trace is (debug logs every
	// statement). Defaults to INKWELL_LOG_LEVEL.
	LogLevel string
}

// Connect establishes a database connection.
// If no URL is provided, it reads from DATABASE_URL environment variable.
func Connect(cfg Config) (*gorm.DB, error) {
	dbURL := cfg.URL
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	level := cfg.LogLevel
	if level == "" {
		level = os.Getenv("INKWELL_LOG_LEVEL")
	}

	gdb, err := gorm.Open(
		postgres.New(postgres.Config{
			DSN:                  dbURL,
			PreferSimpleProtocol: true, // disables implicit prepared statement usage
		}),
		&gorm.Config{
			Logger: NewLogger(level, cfg.SlowQuery),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}
	if cfg.MaxOpen > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpen)
	}
	if cfg.MaxIdle > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdle)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if cfg.Cipher != nil {
		gdb = gdb.WithContext(seal.WithCipher(context.Background(), cfg.Cipher))
	}

	return gdb, nil
}

// URL returns the database URL from environment.
// Returns empty string if DATABASE_URL is not set.
func URL() string {
	return os.Getenv("DATABASE_URL")
}

// Ping round-trips a SELECT 1 to verify connectivity.
func Ping(ctx context.Context, gdb *gorm.DB) error {
	return gdb.WithContext(ctx).Exec("SELECT 1").Error
}

// WaitForDatabase polls the database once per second until it answers or
// retries run out. Used by `inkwellctl db wait`.
func WaitForDatabase(ctx context.Context, url string, retries int) error {
	for i := 0; i < retries; i++ {
		gdb, err := Connect(Config{URL: url, LogLevel: "error"})
		if err == nil {
			err = Ping(ctx, gdb)
			if sqlDB, dbErr := gdb.DB(); dbErr == nil {
				_ = sqlDB.Close()
			}
			if err == nil {
				return nil
			}
		}
		log.Debug().Err(err).Int("attempt", i+1).Msg("database not ready")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(1 * time.Second):
		}
	}
	return fmt.Errorf("database not ready after %d attempts", retries)
}
