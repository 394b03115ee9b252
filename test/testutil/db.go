package testutil

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/munirag/munirag/internal/config"
	"github.com/munirag/munirag/internal/db"
)

// OpenTestDB connects to the postgres instance named by TEST_DB_HOST and
// applies migrations. Tests that need a database skip when the variable
// is unset. The pgvector extension must be installed on the server.
func OpenTestDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()
	host := os.Getenv("TEST_DB_HOST")
	if host == "" {
		t.Skip("TEST_DB_HOST not set, skipping postgres test")
	}
	conn, err := db.Open(config.DatabaseConfig{
		Host:     host,
		Port:     5432,
		User:     "munirag",
		Password: "munirag_pass",
		DBName:   "munirag_test",
		SSLMode:  "disable",
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.ApplyMigrations(conn); err != nil {
		t.Fatalf("migrations: %v", err)
	}
	return conn, func() {
		_ = conn.Close()
	}
}

// ResetTables empties the domain tables so each test starts clean.
func ResetTables(t *testing.T, conn *sql.DB) {
	t.Helper()
	for _, table := range []string{"query_logs", "attachments", "chunks", "documents"} {
		if _, err := conn.ExecContext(context.Background(), "DELETE FROM "+table); err != nil {
			t.Fatalf("reset %s: %v", table, err)
		}
	}
}
