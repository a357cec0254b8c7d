package testutil

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"workforce-attendance/internal/db"
)

// OpenDB returns a migrated in-memory SQLite database private to the test.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	database, err := db.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("test db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return database
}
