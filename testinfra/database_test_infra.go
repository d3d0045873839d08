package testinfra

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"jobboard/persistence"

	"github.com/google/uuid"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
)

type TestDatabase struct {
	TestDatabaseFile string
	DS               *persistence.DataSourceManager
}

// StartSqliteTestDatabase opens a throwaway sqlite database file, one per
// test, so tests stay hermetic and parallelizable.
func StartSqliteTestDatabase(baseName string) *TestDatabase {
	databaseFile := filepath.Join(os.TempDir(),
		baseName+"_test_"+strings.ReplaceAll(uuid.New().String(), "-", "")+".db")

	dbConfig := &persistence.DatabaseConfig{DriverType: "sqlite3", DriverArgs: databaseFile}
	ds := &persistence.DataSourceManager{DatabaseConfig: dbConfig}
	if err := ds.Start(); err != nil {
		defer ds.Stop()
		log.Fatalf("database connection failed %v\n", err)
	}

	return &TestDatabase{TestDatabaseFile: databaseFile, DS: ds}
}

func StopSqliteTestDatabase(testDatabase *TestDatabase) {
	if testDatabase == nil {
		return
	}
	if testDatabase.DS != nil {
		testDatabase.DS.Stop()
	}
	if testDatabase.TestDatabaseFile != "" {
		if err := os.Remove(testDatabase.TestDatabaseFile); err != nil {
			log.Println("failed to remove test database file: " + testDatabase.TestDatabaseFile)
		}
	}
}
