package postgresql_test

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"testing"

	"github.com/cmlabs-hris/grafik-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/grafik-backend-go/internal/repository/postgresql"
)

var testDB *database.DB

// TestMain connects to TEST_DATABASE_URL and applies the schema. Without it
// the repository tests are skipped.
func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn != "" {
		db, err := database.NewPostgreSQLDB(dsn)
		if err != nil {
			fmt.Fprintln(os.Stderr, "failed to connect to test database:", err)
			os.Exit(1)
		}
		migrations, err := fs.Sub(postgresql.Migrations, "migrations")
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if err := db.Migrate(context.Background(), migrations); err != nil {
			fmt.Fprintln(os.Stderr, "failed to migrate test database:", err)
			os.Exit(1)
		}
		testDB = db
	}

	code := m.Run()
	if testDB != nil {
		testDB.Close()
	}
	os.Exit(code)
}

var tables = []string{
	"leave_requests",
	"schedule_entries",
	"shift_type_departments",
	"shift_types",
	"request_templates",
	"request_kinds",
	"leave_kinds",
	"company_days_off",
	"user_departments",
	"departments",
	"refresh_tokens",
	"settings",
	"users",
}

// setupTestDB skips the test without a database and truncates every table
// before and after it.
func setupTestDB(t *testing.T) *database.DB {
	t.Helper()
	if testDB == nil {
		t.Skip("TEST_DATABASE_URL not set")
	}
	truncate(t)
	t.Cleanup(func() { truncate(t) })
	return testDB
}

func truncate(t *testing.T) {
	t.Helper()
	_, err := testDB.Exec(context.Background(),
		"TRUNCATE TABLE "+strings.Join(tables, ", ")+" RESTART IDENTITY CASCADE")
	if err != nil {
		t.Fatalf("truncate: %v", err)
	}
}
