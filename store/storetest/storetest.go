// Package storetest opens throwaway databases for tests.
package storetest

import (
	"testing"

	"backoffice/db"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
)

// Open returns a migrated in-memory sqlite database closed at the end of the test.
func Open(tb testing.TB) *gorm.DB {
	tb.Helper()
	conn, err := gorm.Open("sqlite3", ":memory:")
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}
	// every connection would get its own empty :memory: database
	conn.DB().SetMaxOpenConns(1)
	if err := db.Migrate(conn); err != nil {
		conn.Close()
		tb.Fatalf("migrate: %v", err)
	}
	tb.Cleanup(func() { conn.Close() })
	return conn
}
