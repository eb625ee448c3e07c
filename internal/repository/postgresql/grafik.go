package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/grafik"
	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/shifttype"
	"github.com/cmlabs-hris/grafik-backend-go/internal/pkg/database"
)

type entryRepositoryImpl struct {
	db *database.DB
}

func NewEntryRepository(db *database.DB) grafik.EntryRepository {
	return &entryRepositoryImpl{db: db}
}

func (r *entryRepositoryImpl) query(ctx context.Context, query string, args ...interface{}) ([]grafik.Entry, error) {
	q := GetQuerier(ctx, r.db)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query schedule entries: %w", err)
	}
	defer rows.Close()

	var out []grafik.Entry
	for rows.Next() {
		var e grafik.Entry
		var from, to *string
		if err := rows.Scan(
			&e.ID,
			&e.UserID,
			&e.DepartmentID,
			&e.Date,
			&e.ShiftTypeID,
			&e.Note,
			&e.CreatedBy,
			&e.CreatedAt,
			&e.UpdatedAt,
			&e.Code,
			&e.Color,
			&from,
			&to,
		); err != nil {
			return nil, err
		}
		e.Hours = shifttype.ShiftType{HoursFrom: from, HoursTo: to}.Hours()
		out = append(out, e)
	}
	return out, rows.Err()
}

const entrySelect = `
	SELECT e.id, e.user_id, e.department_id, e.date, e.shift_type_id, e.note, e.created_by,
		e.created_at, e.updated_at, st.code, st.color, st.hours_from, st.hours_to
	FROM schedule_entries e
	JOIN shift_types st ON st.id = e.shift_type_id`

// ListBetween implements grafik.EntryRepository.
func (r *entryRepositoryImpl) ListBetween(ctx context.Context, departmentID int64, from, to time.Time) ([]grafik.Entry, error) {
	return r.query(ctx, entrySelect+`
		WHERE e.department_id = $1 AND e.date BETWEEN $2 AND $3
		ORDER BY e.user_id, e.date`, departmentID, from, to)
}

// ListByCode implements grafik.EntryRepository.
func (r *entryRepositoryImpl) ListByCode(ctx context.Context, departmentID int64, year int, code string) ([]grafik.Entry, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	return r.query(ctx, entrySelect+`
		WHERE e.department_id = $1 AND e.date BETWEEN $2 AND $3 AND st.code = $4
		ORDER BY e.user_id, e.date`, departmentID, from, to, code)
}

// Upsert implements grafik.EntryRepository.
func (r *entryRepositoryImpl) Upsert(ctx context.Context, e grafik.Entry) error {
	q := GetQuerier(ctx, r.db)
	_, err := q.Exec(ctx, `
		INSERT INTO schedule_entries (user_id, department_id, date, shift_type_id, note, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT ON CONSTRAINT uq_schedule_entry
		DO UPDATE SET shift_type_id = EXCLUDED.shift_type_id, updated_at = NOW()
	`, e.UserID, e.DepartmentID, e.Date, e.ShiftTypeID, e.Note, e.CreatedBy)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("schedule entry: %w", ErrReferenceNotFound)
		}
		return fmt.Errorf("upsert schedule entry: %w", err)
	}
	return nil
}

// Delete implements grafik.EntryRepository.
func (r *entryRepositoryImpl) Delete(ctx context.Context, departmentID int64, ref grafik.CellRef) error {
	q := GetQuerier(ctx, r.db)
	_, err := q.Exec(ctx, `
		DELETE FROM schedule_entries
		WHERE user_id = $1 AND date = $2 AND department_id = $3
	`, ref.UserID, ref.Date, departmentID)
	if err != nil {
		return fmt.Errorf("delete schedule entry: %w", err)
	}
	return nil
}
