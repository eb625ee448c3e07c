package client

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/grafik"
)

var ErrCacheMiss = errors.New("month is not cached")

// Cache keeps the last fetched month views for offline reading.
type Cache struct {
	db *sql.DB
}

// OpenCache opens or creates the cache database at path.
func OpenCache(path string) (*Cache, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to cache: %w", err)
	}

	c := &Cache{db: db}
	if err := c.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running cache migrations: %w", err)
	}
	return c, nil
}

func (c *Cache) migrate() error {
	_, err := c.db.Exec(`
		CREATE TABLE IF NOT EXISTS month_views (
			department_id INTEGER NOT NULL,
			year          INTEGER NOT NULL,
			month         INTEGER NOT NULL,
			body          TEXT    NOT NULL,
			fetched_at    TEXT    NOT NULL,
			PRIMARY KEY (department_id, year, month)
		)
	`)
	return err
}

func (c *Cache) Close() error {
	return c.db.Close()
}

// Put stores v, replacing an older copy of the same month.
func (c *Cache) Put(ctx context.Context, v grafik.MonthView, fetchedAt time.Time) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding month view: %w", err)
	}
	_, err = c.db.ExecContext(ctx, `
		INSERT INTO month_views (department_id, year, month, body, fetched_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (department_id, year, month)
		DO UPDATE SET body = excluded.body, fetched_at = excluded.fetched_at
	`, v.Department.ID, v.Year, v.Month, string(body), fetchedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("storing month view: %w", err)
	}
	return nil
}

// Get returns a cached month and when it was fetched. A zero departmentID
// matches the most recently fetched department for that month.
func (c *Cache) Get(ctx context.Context, departmentID int64, year, month int) (grafik.MonthView, time.Time, error) {
	var (
		body      string
		fetchedAt string
	)
	err := c.db.QueryRowContext(ctx, `
		SELECT body, fetched_at
		FROM month_views
		WHERE (? = 0 OR department_id = ?) AND year = ? AND month = ?
		ORDER BY fetched_at DESC
		LIMIT 1
	`, departmentID, departmentID, year, month).Scan(&body, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return grafik.MonthView{}, time.Time{}, ErrCacheMiss
	}
	if err != nil {
		return grafik.MonthView{}, time.Time{}, fmt.Errorf("querying cache: %w", err)
	}

	var v grafik.MonthView
	if err := json.Unmarshal([]byte(body), &v); err != nil {
		return grafik.MonthView{}, time.Time{}, fmt.Errorf("decoding cached month view: %w", err)
	}
	at, err := time.Parse(time.RFC3339, fetchedAt)
	if err != nil {
		return grafik.MonthView{}, time.Time{}, fmt.Errorf("parsing fetched_at: %w", err)
	}
	return v, at, nil
}

// Prune drops months fetched before cutoff and returns how many were removed.
func (c *Cache) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := c.db.ExecContext(ctx, `DELETE FROM month_views WHERE fetched_at < ?`, cutoff.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("pruning cache: %w", err)
	}
	return res.RowsAffected()
}
