package db

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/inkwell-sh/inkwell/pkg/log"
)

const defaultSlowThreshold = 200 * time.Millisecond

// Logger routes GORM's SQL trace through zerolog. At debug level every
// statement is logged with its row count and elapsed time; above that only
// errors and slow queries appear. ErrRecordNotFound is a normal outcome,
// not an error.
type Logger struct {
	level         zerolog.Level
	slowThreshold time.Duration
}

var _ gormlogger.Interface = (*Logger)(nil)

// NewLogger creates a GORM logger at the named level with the given
// slow-query threshold (zero means the default of 200ms).
func NewLogger(level string, slowThreshold time.Duration) *Logger {
	if slowThreshold <= 0 {
		slowThreshold = defaultSlowThreshold
	}
	return &Logger{
		level:         log.ParseLevel(level),
		slowThreshold: slowThreshold,
	}
}

// LogMode implements gorm's logger.Interface. The zerolog level is the
// source of truth, so this just maps GORM's notion back onto ours.
func (l *Logger) LogMode(mode gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	switch mode {
	case gormlogger.Silent:
		clone.level = zerolog.Disabled
	case gormlogger.Error:
		clone.level = zerolog.ErrorLevel
	case gormlogger.Warn:
		clone.level = zerolog.WarnLevel
	case gormlogger.Info:
		clone.level = zerolog.DebugLevel
	}
	return &clone
}

func (l *Logger) Info(ctx context.Context, msg string, args ...interface{}) {
	if l.level <= zerolog.InfoLevel {
		zlog.Ctx(ctx).Info().Msgf(msg, args...)
	}
}

func (l *Logger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if l.level <= zerolog.WarnLevel {
		zlog.Ctx(ctx).Warn().Msgf(msg, args...)
	}
}

func (l *Logger) Error(ctx context.Context, msg string, args ...interface{}) {
	if l.level <= zerolog.ErrorLevel {
		zlog.Ctx(ctx).Error().Msgf(msg, args...)
	}
}

// Trace logs one executed statement.
func (l *Logger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level == zerolog.Disabled {
		return
	}

	elapsed := time.Since(begin)

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		zlog.Error().Err(err).Str("sql", sql).Int64("rows", rows).
			Dur("elapsed", elapsed).Msg("query failed")
	case elapsed >= l.slowThreshold:
		sql, rows := fc()
		zlog.Warn().Str("sql", sql).Int64("rows", rows).
			Dur("elapsed", elapsed).Dur("threshold", l.slowThreshold).
			Bool("slow_query", true).Msg("slow query")
	case l.level <= zerolog.DebugLevel:
		sql, rows := fc()
		zlog.Debug().Str("sql", sql).Int64("rows", rows).
			Dur("elapsed", elapsed).Msg("query")
	}
}
