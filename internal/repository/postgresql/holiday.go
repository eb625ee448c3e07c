package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/holiday"
	"github.com/cmlabs-hris/grafik-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type dayOffRepositoryImpl struct {
	db *database.DB
}

func NewDayOffRepository(db *database.DB) holiday.DayOffRepository {
	return &dayOffRepositoryImpl{db: db}
}

func scanDayOff(row pgx.Row) (holiday.DayOff, error) {
	var d holiday.DayOff
	err := row.Scan(&d.ID, &d.Date, &d.Name, &d.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return holiday.DayOff{}, holiday.ErrDayOffNotFound
	}
	return d, err
}

// Create implements holiday.DayOffRepository.
func (r *dayOffRepositoryImpl) Create(ctx context.Context, d holiday.DayOff) (holiday.DayOff, error) {
	q := GetQuerier(ctx, r.db)
	created, err := scanDayOff(q.QueryRow(ctx, `
		INSERT INTO company_days_off (date, name) VALUES ($1, $2)
		RETURNING id, date, name, created_at
	`, d.Date, d.Name))
	if err != nil {
		if isUniqueViolation(err) {
			return holiday.DayOff{}, holiday.ErrDayOffDateExists
		}
		return holiday.DayOff{}, fmt.Errorf("insert day off: %w", err)
	}
	return created, nil
}

// GetByID implements holiday.DayOffRepository.
func (r *dayOffRepositoryImpl) GetByID(ctx context.Context, id int64) (holiday.DayOff, error) {
	q := GetQuerier(ctx, r.db)
	return scanDayOff(q.QueryRow(ctx, `SELECT id, date, name, created_at FROM company_days_off WHERE id = $1`, id))
}

// Update implements holiday.DayOffRepository.
func (r *dayOffRepositoryImpl) Update(ctx context.Context, d holiday.DayOff) error {
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, `UPDATE company_days_off SET date = $1, name = $2 WHERE id = $3`, d.Date, d.Name, d.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return holiday.ErrDayOffDateExists
		}
		return fmt.Errorf("update day off: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return holiday.ErrDayOffNotFound
	}
	return nil
}

// Delete implements holiday.DayOffRepository.
func (r *dayOffRepositoryImpl) Delete(ctx context.Context, id int64) error {
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, `DELETE FROM company_days_off WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete day off: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return holiday.ErrDayOffNotFound
	}
	return nil
}

// ListBetween implements holiday.DayOffRepository.
func (r *dayOffRepositoryImpl) ListBetween(ctx context.Context, from, to time.Time) ([]holiday.DayOff, error) {
	q := GetQuerier(ctx, r.db)
	rows, err := q.Query(ctx, `
		SELECT id, date, name, created_at FROM company_days_off
		WHERE date BETWEEN $1 AND $2
		ORDER BY date ASC
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("query days off: %w", err)
	}
	defer rows.Close()

	var out []holiday.DayOff
	for rows.Next() {
		d, err := scanDayOff(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
