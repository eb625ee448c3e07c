package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/shifttype"
	"github.com/cmlabs-hris/grafik-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const shiftTypeSelect = `
	SELECT st.id, st.name, st.code, st.color, st.hours_from, st.hours_to, st.active, st.position,
		st.shortcut, st.main_only, st.legacy_template, st.template_id, st.created_at, st.updated_at,
		COALESCE((SELECT array_agg(std.department_id ORDER BY std.department_id)
			FROM shift_type_departments std WHERE std.shift_type_id = st.id), '{}')
	FROM shift_types st`

type shiftTypeRepositoryImpl struct {
	db *database.DB
}

func NewShiftTypeRepository(db *database.DB) shifttype.ShiftTypeRepository {
	return &shiftTypeRepositoryImpl{db: db}
}

func scanShiftType(row pgx.Row) (shifttype.ShiftType, error) {
	var st shifttype.ShiftType
	err := row.Scan(
		&st.ID,
		&st.Name,
		&st.Code,
		&st.Color,
		&st.HoursFrom,
		&st.HoursTo,
		&st.Active,
		&st.Position,
		&st.Shortcut,
		&st.MainOnly,
		&st.LegacyTemplate,
		&st.TemplateID,
		&st.CreatedAt,
		&st.UpdatedAt,
		&st.DepartmentIDs,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return shifttype.ShiftType{}, shifttype.ErrShiftTypeNotFound
	}
	return st, err
}

func (r *shiftTypeRepositoryImpl) list(ctx context.Context, query string, args ...interface{}) ([]shifttype.ShiftType, error) {
	q := GetQuerier(ctx, r.db)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query shift types: %w", err)
	}
	defer rows.Close()

	var out []shifttype.ShiftType
	for rows.Next() {
		st, err := scanShiftType(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func mapShiftTypeWriteError(err error) error {
	if isUniqueViolation(err) {
		if isConstraint(err, "shift_types_shortcut_key") {
			return shifttype.ErrShortcutTaken
		}
		return shifttype.ErrShiftTypeCodeExists
	}
	return err
}

func (r *shiftTypeRepositoryImpl) replaceDepartments(ctx context.Context, id int64, departmentIDs []int64) error {
	q := GetQuerier(ctx, r.db)
	if _, err := q.Exec(ctx, `DELETE FROM shift_type_departments WHERE shift_type_id = $1`, id); err != nil {
		return fmt.Errorf("clear shift type departments: %w", err)
	}
	if len(departmentIDs) == 0 {
		return nil
	}
	_, err := q.Exec(ctx, `
		INSERT INTO shift_type_departments (shift_type_id, department_id)
		SELECT $1, UNNEST($2::BIGINT[])
		ON CONFLICT DO NOTHING
	`, id, departmentIDs)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("shift type departments: %w", ErrReferenceNotFound)
		}
		return fmt.Errorf("insert shift type departments: %w", err)
	}
	return nil
}

// Create implements shifttype.ShiftTypeRepository. Call inside a transaction.
func (r *shiftTypeRepositoryImpl) Create(ctx context.Context, st shifttype.ShiftType) (shifttype.ShiftType, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO shift_types (name, code, color, hours_from, hours_to, active, position, shortcut,
			main_only, legacy_template, template_id)
		VALUES ($1, $2, $3, $4, $5, $6,
			COALESCE($7, (SELECT COALESCE(MAX(position), 0) + 1 FROM shift_types)),
			$8, $9, $10, $11)
		RETURNING id
	`
	var position *int
	if st.Position > 0 {
		position = &st.Position
	}
	var id int64
	err := q.QueryRow(ctx, query,
		st.Name, st.Code, st.Color, st.HoursFrom, st.HoursTo, st.Active, position,
		st.Shortcut, st.MainOnly, st.LegacyTemplate, st.TemplateID,
	).Scan(&id)
	if err != nil {
		return shifttype.ShiftType{}, mapShiftTypeWriteError(err)
	}
	if err := r.replaceDepartments(ctx, id, st.DepartmentIDs); err != nil {
		return shifttype.ShiftType{}, err
	}
	return r.GetByID(ctx, id)
}

// GetByID implements shifttype.ShiftTypeRepository.
func (r *shiftTypeRepositoryImpl) GetByID(ctx context.Context, id int64) (shifttype.ShiftType, error) {
	q := GetQuerier(ctx, r.db)
	return scanShiftType(q.QueryRow(ctx, shiftTypeSelect+` WHERE st.id = $1`, id))
}

// GetByCode implements shifttype.ShiftTypeRepository.
func (r *shiftTypeRepositoryImpl) GetByCode(ctx context.Context, code string) (shifttype.ShiftType, error) {
	q := GetQuerier(ctx, r.db)
	return scanShiftType(q.QueryRow(ctx, shiftTypeSelect+` WHERE st.code = $1`, code))
}

// List implements shifttype.ShiftTypeRepository.
func (r *shiftTypeRepositoryImpl) List(ctx context.Context, onlyActive bool) ([]shifttype.ShiftType, error) {
	return r.list(ctx, shiftTypeSelect+` WHERE (NOT $1 OR st.active) ORDER BY st.position ASC, st.id ASC`, onlyActive)
}

// ListForDepartment implements shifttype.ShiftTypeRepository.
func (r *shiftTypeRepositoryImpl) ListForDepartment(ctx context.Context, departmentID int64) ([]shifttype.ShiftType, error) {
	query := shiftTypeSelect + `
		WHERE st.active AND (
			NOT EXISTS (SELECT 1 FROM shift_type_departments x WHERE x.shift_type_id = st.id)
			OR EXISTS (SELECT 1 FROM shift_type_departments x WHERE x.shift_type_id = st.id AND x.department_id = $1)
		)
		ORDER BY st.position ASC, st.id ASC`
	return r.list(ctx, query, departmentID)
}

// Update implements shifttype.ShiftTypeRepository. Call inside a transaction.
func (r *shiftTypeRepositoryImpl) Update(ctx context.Context, st shifttype.ShiftType) error {
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, `
		UPDATE shift_types
		SET name = $1, code = $2, color = $3, hours_from = $4, hours_to = $5, shortcut = $6,
			main_only = $7, legacy_template = $8, template_id = $9, updated_at = NOW()
		WHERE id = $10
	`, st.Name, st.Code, st.Color, st.HoursFrom, st.HoursTo, st.Shortcut, st.MainOnly, st.LegacyTemplate, st.TemplateID, st.ID)
	if err != nil {
		return mapShiftTypeWriteError(err)
	}
	if tag.RowsAffected() == 0 {
		return shifttype.ErrShiftTypeNotFound
	}
	return r.replaceDepartments(ctx, st.ID, st.DepartmentIDs)
}

// Delete implements shifttype.ShiftTypeRepository.
func (r *shiftTypeRepositoryImpl) Delete(ctx context.Context, id int64) error {
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, `DELETE FROM shift_types WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return shifttype.ErrShiftTypeInUse
		}
		return fmt.Errorf("delete shift type: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shifttype.ErrShiftTypeNotFound
	}
	return nil
}

// SetActive implements shifttype.ShiftTypeRepository.
func (r *shiftTypeRepositoryImpl) SetActive(ctx context.Context, id int64, active bool) error {
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, `UPDATE shift_types SET active = $1, updated_at = NOW() WHERE id = $2`, active, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shifttype.ErrShiftTypeNotFound
	}
	return nil
}

// UpdatePositions implements shifttype.ShiftTypeRepository. Position
// follows the order of ids, starting at 1.
func (r *shiftTypeRepositoryImpl) UpdatePositions(ctx context.Context, ids []int64) error {
	q := GetQuerier(ctx, r.db)
	_, err := q.Exec(ctx, `
		UPDATE shift_types st
		SET position = o.ord, updated_at = NOW()
		FROM UNNEST($1::BIGINT[]) WITH ORDINALITY AS o(id, ord)
		WHERE st.id = o.id
	`, ids)
	return err
}

// CountUsage implements shifttype.ShiftTypeRepository.
func (r *shiftTypeRepositoryImpl) CountUsage(ctx context.Context, id int64) (int64, error) {
	q := GetQuerier(ctx, r.db)
	var n int64
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM schedule_entries WHERE shift_type_id = $1`, id).Scan(&n)
	return n, err
}

// Shortcuts implements shifttype.ShiftTypeRepository.
func (r *shiftTypeRepositoryImpl) Shortcuts(ctx context.Context) (map[int64]string, error) {
	q := GetQuerier(ctx, r.db)
	rows, err := q.Query(ctx, `SELECT id, shortcut FROM shift_types WHERE shortcut IS NOT NULL AND shortcut <> ''`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64]string)
	for rows.Next() {
		var id int64
		var sc string
		if err := rows.Scan(&id, &sc); err != nil {
			return nil, err
		}
		out[id] = sc
	}
	return out, rows.Err()
}

// Count implements shifttype.ShiftTypeRepository.
func (r *shiftTypeRepositoryImpl) Count(ctx context.Context) (int64, error) {
	q := GetQuerier(ctx, r.db)
	var n int64
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM shift_types`).Scan(&n)
	return n, err
}
