package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/podanie"
	"github.com/cmlabs-hris/grafik-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type templateRepositoryImpl struct {
	db *database.DB
}

func NewTemplateRepository(db *database.DB) podanie.TemplateRepository {
	return &templateRepositoryImpl{db: db}
}

const templateColumns = `id, name, body_html, form_fields, active, created_at, updated_at`

func scanTemplate(row pgx.Row) (podanie.Template, error) {
	var t podanie.Template
	err := row.Scan(&t.ID, &t.Name, &t.BodyHTML, &t.FormFields, &t.Active, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return podanie.Template{}, podanie.ErrTemplateNotFound
	}
	return t, err
}

// Create implements podanie.TemplateRepository.
func (r *templateRepositoryImpl) Create(ctx context.Context, t podanie.Template) (podanie.Template, error) {
	q := GetQuerier(ctx, r.db)
	if t.FormFields == nil {
		t.FormFields = []string{}
	}
	created, err := scanTemplate(q.QueryRow(ctx, `
		INSERT INTO request_templates (name, body_html, form_fields, active)
		VALUES ($1, $2, $3, $4)
		RETURNING `+templateColumns, t.Name, t.BodyHTML, t.FormFields, t.Active))
	if err != nil {
		return podanie.Template{}, fmt.Errorf("insert request template: %w", err)
	}
	return created, nil
}

// GetByID implements podanie.TemplateRepository.
func (r *templateRepositoryImpl) GetByID(ctx context.Context, id int64) (podanie.Template, error) {
	q := GetQuerier(ctx, r.db)
	return scanTemplate(q.QueryRow(ctx, `SELECT `+templateColumns+` FROM request_templates WHERE id = $1`, id))
}

// List implements podanie.TemplateRepository.
func (r *templateRepositoryImpl) List(ctx context.Context, onlyActive bool) ([]podanie.Template, error) {
	q := GetQuerier(ctx, r.db)
	rows, err := q.Query(ctx, `
		SELECT `+templateColumns+` FROM request_templates
		WHERE ($1 = FALSE OR active)
		ORDER BY name ASC
	`, onlyActive)
	if err != nil {
		return nil, fmt.Errorf("query request templates: %w", err)
	}
	defer rows.Close()

	var out []podanie.Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Update implements podanie.TemplateRepository.
func (r *templateRepositoryImpl) Update(ctx context.Context, t podanie.Template) error {
	q := GetQuerier(ctx, r.db)
	if t.FormFields == nil {
		t.FormFields = []string{}
	}
	tag, err := q.Exec(ctx, `
		UPDATE request_templates
		SET name = $1, body_html = $2, form_fields = $3, active = $4, updated_at = NOW()
		WHERE id = $5
	`, t.Name, t.BodyHTML, t.FormFields, t.Active, t.ID)
	if err != nil {
		return fmt.Errorf("update request template: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return podanie.ErrTemplateNotFound
	}
	return nil
}

// Delete implements podanie.TemplateRepository. Templates still referenced by
// a shift type are kept.
func (r *templateRepositoryImpl) Delete(ctx context.Context, id int64) error {
	q := GetQuerier(ctx, r.db)
	var used bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM shift_types WHERE template_id = $1)`, id).Scan(&used); err != nil {
		return fmt.Errorf("check template usage: %w", err)
	}
	if used {
		return podanie.ErrTemplateInUse
	}
	tag, err := q.Exec(ctx, `DELETE FROM request_templates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete request template: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return podanie.ErrTemplateNotFound
	}
	return nil
}

// Count implements podanie.TemplateRepository.
func (r *templateRepositoryImpl) Count(ctx context.Context) (int64, error) {
	q := GetQuerier(ctx, r.db)
	var n int64
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM request_templates`).Scan(&n)
	return n, err
}

type dictionaryRepositoryImpl struct {
	db *database.DB
}

func NewDictionaryRepository(db *database.DB) podanie.DictionaryRepository {
	return &dictionaryRepositoryImpl{db: db}
}

// table returns the dictionary table name. Only the two known kinds are
// accepted so the name is safe to interpolate.
func dictionaryTable(kind podanie.DictionaryKind) (string, error) {
	if !kind.Valid() {
		return "", podanie.ErrUnknownDictionary
	}
	return string(kind), nil
}

// List implements podanie.DictionaryRepository.
func (r *dictionaryRepositoryImpl) List(ctx context.Context, kind podanie.DictionaryKind) ([]podanie.DictionaryItem, error) {
	table, err := dictionaryTable(kind)
	if err != nil {
		return nil, err
	}
	q := GetQuerier(ctx, r.db)
	rows, err := q.Query(ctx, `SELECT id, name, position FROM `+table+` ORDER BY position ASC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	var out []podanie.DictionaryItem
	for rows.Next() {
		var it podanie.DictionaryItem
		if err := rows.Scan(&it.ID, &it.Name, &it.Position); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// GetByID implements podanie.DictionaryRepository.
func (r *dictionaryRepositoryImpl) GetByID(ctx context.Context, kind podanie.DictionaryKind, id int64) (podanie.DictionaryItem, error) {
	table, err := dictionaryTable(kind)
	if err != nil {
		return podanie.DictionaryItem{}, err
	}
	q := GetQuerier(ctx, r.db)
	var it podanie.DictionaryItem
	err = q.QueryRow(ctx, `SELECT id, name, position FROM `+table+` WHERE id = $1`, id).Scan(&it.ID, &it.Name, &it.Position)
	if errors.Is(err, pgx.ErrNoRows) {
		return podanie.DictionaryItem{}, podanie.ErrDictionaryNotFound
	}
	return it, err
}

// Create implements podanie.DictionaryRepository.
func (r *dictionaryRepositoryImpl) Create(ctx context.Context, kind podanie.DictionaryKind, item podanie.DictionaryItem) (podanie.DictionaryItem, error) {
	table, err := dictionaryTable(kind)
	if err != nil {
		return podanie.DictionaryItem{}, err
	}
	q := GetQuerier(ctx, r.db)
	err = q.QueryRow(ctx, `INSERT INTO `+table+` (name, position) VALUES ($1, $2) RETURNING id`,
		item.Name, item.Position).Scan(&item.ID)
	if err != nil {
		return podanie.DictionaryItem{}, fmt.Errorf("insert into %s: %w", table, err)
	}
	return item, nil
}

// Update implements podanie.DictionaryRepository.
func (r *dictionaryRepositoryImpl) Update(ctx context.Context, kind podanie.DictionaryKind, item podanie.DictionaryItem) error {
	table, err := dictionaryTable(kind)
	if err != nil {
		return err
	}
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, `UPDATE `+table+` SET name = $1, position = $2 WHERE id = $3`, item.Name, item.Position, item.ID)
	if err != nil {
		return fmt.Errorf("update %s: %w", table, err)
	}
	if tag.RowsAffected() == 0 {
		return podanie.ErrDictionaryNotFound
	}
	return nil
}

// Delete implements podanie.DictionaryRepository.
func (r *dictionaryRepositoryImpl) Delete(ctx context.Context, kind podanie.DictionaryKind, id int64) error {
	table, err := dictionaryTable(kind)
	if err != nil {
		return err
	}
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	if tag.RowsAffected() == 0 {
		return podanie.ErrDictionaryNotFound
	}
	return nil
}

// Count implements podanie.DictionaryRepository.
func (r *dictionaryRepositoryImpl) Count(ctx context.Context, kind podanie.DictionaryKind) (int64, error) {
	table, err := dictionaryTable(kind)
	if err != nil {
		return 0, err
	}
	q := GetQuerier(ctx, r.db)
	var n int64
	err = q.QueryRow(ctx, `SELECT COUNT(*) FROM `+table).Scan(&n)
	return n, err
}

type requestRepositoryImpl struct {
	db *database.DB
}

func NewRequestRepository(db *database.DB) podanie.RequestRepository {
	return &requestRepositoryImpl{db: db}
}

const requestSelect = `
	SELECT lr.id, lr.user_id, lr.department_id, lr.shift_type_id, lr.date_from, lr.date_to,
		lr.substitute, lr.phone, lr.justification, lr.request_kind_id, lr.leave_kind_id,
		lr.signature, lr.created_at,
		u.full_name, u.email, u.address, d.name,
		st.code, st.name, st.template_id, st.legacy_template,
		rk.name, lk.name
	FROM leave_requests lr
	JOIN users u ON u.id = lr.user_id
	JOIN departments d ON d.id = lr.department_id
	LEFT JOIN shift_types st ON st.id = lr.shift_type_id
	LEFT JOIN request_kinds rk ON rk.id = lr.request_kind_id
	LEFT JOIN leave_kinds lk ON lk.id = lr.leave_kind_id`

func scanRequest(row pgx.Row) (podanie.Request, error) {
	var r podanie.Request
	err := row.Scan(
		&r.ID,
		&r.UserID,
		&r.DepartmentID,
		&r.ShiftTypeID,
		&r.DateFrom,
		&r.DateTo,
		&r.Substitute,
		&r.Phone,
		&r.Justification,
		&r.RequestKindID,
		&r.LeaveKindID,
		&r.Signature,
		&r.CreatedAt,
		&r.UserName,
		&r.UserEmail,
		&r.UserAddress,
		&r.DepartmentName,
		&r.ShiftTypeCode,
		&r.ShiftTypeName,
		&r.TemplateID,
		&r.LegacyTemplate,
		&r.RequestKindName,
		&r.LeaveKindName,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return podanie.Request{}, podanie.ErrRequestNotFound
	}
	return r, err
}

func (r *requestRepositoryImpl) list(ctx context.Context, query string, args ...interface{}) ([]podanie.Request, error) {
	q := GetQuerier(ctx, r.db)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query leave requests: %w", err)
	}
	defer rows.Close()

	var out []podanie.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

// Create implements podanie.RequestRepository.
func (r *requestRepositoryImpl) Create(ctx context.Context, req podanie.Request) (podanie.Request, error) {
	q := GetQuerier(ctx, r.db)
	var id int64
	err := q.QueryRow(ctx, `
		INSERT INTO leave_requests (
			user_id, department_id, shift_type_id, date_from, date_to,
			substitute, phone, justification, request_kind_id, leave_kind_id, signature
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`,
		req.UserID,
		req.DepartmentID,
		req.ShiftTypeID,
		req.DateFrom,
		req.DateTo,
		req.Substitute,
		req.Phone,
		req.Justification,
		req.RequestKindID,
		req.LeaveKindID,
		req.Signature,
	).Scan(&id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return podanie.Request{}, fmt.Errorf("leave request: %w", ErrReferenceNotFound)
		}
		return podanie.Request{}, fmt.Errorf("insert leave request: %w", err)
	}
	return r.GetByID(ctx, id)
}

// GetByID implements podanie.RequestRepository.
func (r *requestRepositoryImpl) GetByID(ctx context.Context, id int64) (podanie.Request, error) {
	q := GetQuerier(ctx, r.db)
	return scanRequest(q.QueryRow(ctx, requestSelect+` WHERE lr.id = $1`, id))
}

// List implements podanie.RequestRepository.
func (r *requestRepositoryImpl) List(ctx context.Context, scope podanie.ListScope) ([]podanie.Request, error) {
	const order = ` ORDER BY lr.created_at DESC, lr.id DESC`
	switch {
	case scope.All:
		return r.list(ctx, requestSelect+order)
	case len(scope.DepartmentIDs) > 0:
		return r.list(ctx, requestSelect+` WHERE lr.department_id = ANY($1) OR lr.user_id = $2`+order,
			scope.DepartmentIDs, scope.UserID)
	default:
		return r.list(ctx, requestSelect+` WHERE lr.user_id = $1`+order, scope.UserID)
	}
}

// Delete implements podanie.RequestRepository.
func (r *requestRepositoryImpl) Delete(ctx context.Context, id int64) error {
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, `DELETE FROM leave_requests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete leave request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return podanie.ErrRequestNotFound
	}
	return nil
}

// Overlapping implements podanie.RequestRepository.
func (r *requestRepositoryImpl) Overlapping(ctx context.Context, departmentID int64, from, to time.Time) ([]podanie.Request, error) {
	return r.list(ctx, requestSelect+`
		WHERE lr.department_id = $1 AND lr.date_from <= $3 AND lr.date_to >= $2
		ORDER BY lr.created_at ASC, lr.id ASC`, departmentID, from, to)
}
