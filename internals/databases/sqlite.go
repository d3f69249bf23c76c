package database

import (
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// OpenSQLite opens a local database (DB_DRIVER=sqlite) or, with ":memory:",
// a private in-memory one. SQLite allows a single writer, so the pool is
// capped at one connection; an in-memory database also lives only as long as
// that connection.
func OpenSQLite(path string, logger gormLogger.Interface) (*gorm.DB, error) {
	if logger == nil {
		logger = gormLogger.Default.LogMode(gormLogger.Silent)
	}
	dsn := path
	if dsn != ":memory:" && !strings.Contains(dsn, "?") {
		dsn += "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger,
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// OpenMemory returns a migrated in-memory database.
func OpenMemory() (*gorm.DB, error) {
	db, err := OpenSQLite(":memory:", nil)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}
