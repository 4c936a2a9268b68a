package store

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// DialectorFactory builds a gorm.Dialector from a DSN.
type DialectorFactory func(dsn string) gorm.Dialector

// sqlDialects maps relational driver names to their dialector factories.
var sqlDialects = map[string]DialectorFactory{
	"sqlite":   openSQLite,
	"postgres": postgres.Open,
}

// openSQLite enables a busy timeout on file databases so concurrent upserts
// from different request flows wait for the write lock instead of failing.
func openSQLite(dsn string) gorm.Dialector {
	if dsn == ":memory:" || strings.Contains(dsn, "_busy_timeout") {
		return sqlite.Open(dsn)
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return sqlite.Open(dsn + sep + "_busy_timeout=5000")
}

// dialectorFor returns the dialector for a relational driver.
func dialectorFor(driver, dsn string) (gorm.Dialector, error) {
	factory, ok := sqlDialects[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
	return factory(dsn), nil
}

// IsSQLDriver reports whether driver is served by the gorm backend.
func IsSQLDriver(driver string) bool {
	_, ok := sqlDialects[driver]
	return ok
}
