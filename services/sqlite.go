package services

import (
	"net/http"
	"os"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SQLite backs local development (DB_DRIVER=sqlite) and the test suites.

func sqliteDSN() string {
	database := os.Getenv("DB_DATABASE")
	if database == "" {
		database = "bloolabb.db"
	}
	if !strings.Contains(database, "?") && !strings.HasPrefix(database, "file::memory:") {
		database += "?_foreign_keys=on&_busy_timeout=5000"
	}
	return database
}

func sqliteDialector(dsn string) gorm.Dialector {
	return sqlite.Open(dsn)
}

func classifySqliteError(err error) (int, string, bool) {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return http.StatusConflict, "UNIQUE_CONSTRAINT", true
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return http.StatusBadRequest, "FOREIGN_KEY_VIOLATION", true
	case strings.Contains(msg, "no such table"):
		return http.StatusInternalServerError, "SCHEMA_ERROR", true
	case strings.Contains(msg, "database is locked"):
		return http.StatusServiceUnavailable, "DATABASE_LOCKED", true
	}
	return 0, "", false
}

// OpenSqlite opens an already migrated SQLite database. Used by the seeder
// and by tests that need a real store.
func OpenSqlite(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqliteDialector(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(Models()...); err != nil {
		return nil, err
	}
	return db, nil
}
