// Package dbtest opens throwaway in-memory SQLite databases for store and
// plugin tests. Each call gets its own schema, migrated from the models,
// so tests never share state.
package dbtest

import (
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/inkwell-sh/inkwell/pkg/model"
)

var dbCounter int64

// Open returns a GORM session on a fresh in-memory database with the full
// schema in place. The database lives until the test's cleanup closes it.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	// A named shared-cache DSN keeps the database alive across the pooled
	// connections GORM opens.
	dsn := fmt.Sprintf("file:dbtest%d?mode=memory&cache=shared", atomic.AddInt64(&dbCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	err = db.AutoMigrate(
		&model.Author{},
		&model.Credential{},
		&model.Blog{},
		&model.Post{},
		&model.Tag{},
		&model.Comment{},
		&model.PostRevision{},
	)
	if err != nil {
		t.Fatalf("migrate schema: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	return db
}
