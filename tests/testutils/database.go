package testutils

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"tasktrack/db"
	"tasktrack/internal/config"
)

func SetupTestDatabase(t *testing.T) (*sql.DB, func()) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")

	testDB, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=10000&_foreign_keys=on")
	require.NoError(t, err)

	err = db.InitializeSchema(testDB)
	require.NoError(t, err)

	cleanup := func() {
		testDB.Close()
		os.RemoveAll(tempDir)
	}

	return testDB, cleanup
}

func SetupTestRepositoryFactory(t *testing.T) (*db.RepositoryFactory, func()) {
	testDB, cleanup := SetupTestDatabase(t)
	factory := db.NewRepositoryFactory(testDB)
	return factory, cleanup
}

func GetTestConfig() *config.Config {
	return &config.Config{
		AppName:        "Task Tracker API Test",
		JwtKey:         []byte("test_jwt_secret_key_for_testing_only"),
		AccessTokenTTL: 30 * time.Minute,
		SQLitePath:     ":memory:",
		DatabaseName:   "tasktrack_test",
		Port:           "0",
	}
}
