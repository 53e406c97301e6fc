package helpers

import (
	"fmt"
	"testing"

	"gorm.io/gorm"

	"github.com/fame0528/DarkFrame-sub009/internal/adapters/persistence"
	"github.com/fame0528/DarkFrame-sub009/internal/infrastructure/database"
)

// NewTestDB opens a private migrated in-memory database closed with the test
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewTestConnection()
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

// SharedTestDB is opened once per BDD run; scenarios wipe it in their
// Before hook instead of migrating a fresh database each time.
var SharedTestDB *gorm.DB

func InitializeSharedTestDB() error {
	db, err := database.NewTestConnection()
	if err != nil {
		return fmt.Errorf("failed to open shared test database: %w", err)
	}
	SharedTestDB = db
	return nil
}

// TruncateAllTables empties every migrated table, dependents first
func TruncateAllTables() error {
	if SharedTestDB == nil {
		return fmt.Errorf("shared test database not initialized")
	}
	models := persistence.AllModels()
	for i := len(models) - 1; i >= 0; i-- {
		stmt := &gorm.Statement{DB: SharedTestDB}
		if err := stmt.Parse(models[i]); err != nil {
			return fmt.Errorf("failed to resolve table for %T: %w", models[i], err)
		}
		if err := SharedTestDB.Exec("DELETE FROM " + stmt.Schema.Table).Error; err != nil {
			return fmt.Errorf("failed to truncate %s: %w", stmt.Schema.Table, err)
		}
	}
	return nil
}

func CloseSharedTestDB() error {
	if SharedTestDB == nil {
		return nil
	}
	return database.Close(SharedTestDB)
}
