package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/department"
	"github.com/cmlabs-hris/grafik-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type departmentRepositoryImpl struct {
	db *database.DB
}

func NewDepartmentRepository(db *database.DB) department.DepartmentRepository {
	return &departmentRepositoryImpl{db: db}
}

func scanDepartment(row pgx.Row) (department.Department, error) {
	var d department.Department
	var code *string
	err := row.Scan(&d.ID, &d.Name, &code, &d.Position, &d.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return department.Department{}, department.ErrDepartmentNotFound
	}
	if code != nil {
		d.Code = *code
	}
	return d, err
}

// Create implements department.DepartmentRepository.
func (r *departmentRepositoryImpl) Create(ctx context.Context, d department.Department) (department.Department, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO departments (name, code, position)
		VALUES ($1, NULLIF($2, ''), $3)
		RETURNING id, name, code, position, created_at
	`
	created, err := scanDepartment(q.QueryRow(ctx, query, d.Name, d.Code, d.Position))
	if err != nil {
		return department.Department{}, fmt.Errorf("insert department: %w", err)
	}
	return created, nil
}

// GetByID implements department.DepartmentRepository.
func (r *departmentRepositoryImpl) GetByID(ctx context.Context, id int64) (department.Department, error) {
	q := GetQuerier(ctx, r.db)
	return scanDepartment(q.QueryRow(ctx, `SELECT id, name, code, position, created_at FROM departments WHERE id = $1`, id))
}

// List implements department.DepartmentRepository.
func (r *departmentRepositoryImpl) List(ctx context.Context) ([]department.Department, error) {
	q := GetQuerier(ctx, r.db)
	rows, err := q.Query(ctx, `SELECT id, name, code, position, created_at FROM departments ORDER BY position ASC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("query departments: %w", err)
	}
	defer rows.Close()

	var out []department.Department
	for rows.Next() {
		d, err := scanDepartment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Update implements department.DepartmentRepository.
func (r *departmentRepositoryImpl) Update(ctx context.Context, d department.Department) error {
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, `UPDATE departments SET name = $1, code = NULLIF($2, ''), position = $3 WHERE id = $4`,
		d.Name, d.Code, d.Position, d.ID)
	if err != nil {
		return fmt.Errorf("update department: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return department.ErrDepartmentNotFound
	}
	return nil
}

// Delete implements department.DepartmentRepository.
func (r *departmentRepositoryImpl) Delete(ctx context.Context, id int64) error {
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, `DELETE FROM departments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete department: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return department.ErrDepartmentNotFound
	}
	return nil
}

type membershipRepositoryImpl struct {
	db *database.DB
}

func NewMembershipRepository(db *database.DB) department.MembershipRepository {
	return &membershipRepositoryImpl{db: db}
}

func scanMember(row pgx.Row) (department.Member, error) {
	var m department.Member
	err := row.Scan(
		&m.UserID,
		&m.DepartmentID,
		&m.IsMain,
		&m.IsHead,
		&m.IsHidden,
		&m.Position,
		&m.FullName,
		&m.Email,
		&m.Address,
		&m.LeaveDaysPerYear,
	)
	return m, err
}

func (r *membershipRepositoryImpl) queryMembers(ctx context.Context, query string, args ...interface{}) ([]department.Member, error) {
	q := GetQuerier(ctx, r.db)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query members: %w", err)
	}
	defer rows.Close()

	var out []department.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ListMembers implements department.MembershipRepository.
func (r *membershipRepositoryImpl) ListMembers(ctx context.Context, departmentID int64, includeHidden bool) ([]department.Member, error) {
	query := `
		SELECT ud.user_id, ud.department_id, ud.is_main, ud.is_head, ud.is_hidden, ud.position,
			u.full_name, u.email, u.address, u.leave_days_per_year
		FROM user_departments ud
		JOIN users u ON u.id = ud.user_id
		WHERE ud.department_id = $1 AND ($2 OR NOT ud.is_hidden)
		ORDER BY ud.is_main DESC, ud.position ASC, u.full_name ASC
	`
	return r.queryMembers(ctx, query, departmentID, includeHidden)
}

// Heads implements department.MembershipRepository.
func (r *membershipRepositoryImpl) Heads(ctx context.Context, departmentID int64) ([]department.Member, error) {
	query := `
		SELECT ud.user_id, ud.department_id, ud.is_main, ud.is_head, ud.is_hidden, ud.position,
			u.full_name, u.email, u.address, u.leave_days_per_year
		FROM user_departments ud
		JOIN users u ON u.id = ud.user_id
		WHERE ud.department_id = $1 AND ud.is_head
		ORDER BY u.full_name ASC
	`
	return r.queryMembers(ctx, query, departmentID)
}

const membershipColumns = `user_id, department_id, is_main, is_head, is_hidden, position`

func scanMembership(row pgx.Row) (department.Membership, error) {
	var m department.Membership
	err := row.Scan(&m.UserID, &m.DepartmentID, &m.IsMain, &m.IsHead, &m.IsHidden, &m.Position)
	return m, err
}

// ListByUser implements department.MembershipRepository.
func (r *membershipRepositoryImpl) ListByUser(ctx context.Context, userID int64) ([]department.Membership, error) {
	byUser, err := r.ListByUsers(ctx, []int64{userID})
	if err != nil {
		return nil, err
	}
	return byUser[userID], nil
}

// ListByUsers implements department.MembershipRepository.
func (r *membershipRepositoryImpl) ListByUsers(ctx context.Context, userIDs []int64) (map[int64][]department.Membership, error) {
	out := make(map[int64][]department.Membership, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	q := GetQuerier(ctx, r.db)
	rows, err := q.Query(ctx, `
		SELECT ud.user_id, ud.department_id, ud.is_main, ud.is_head, ud.is_hidden, ud.position
		FROM user_departments ud
		JOIN departments d ON d.id = ud.department_id
		WHERE ud.user_id = ANY($1)
		ORDER BY d.position ASC, d.name ASC
	`, userIDs)
	if err != nil {
		return nil, fmt.Errorf("query memberships: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, err
		}
		out[m.UserID] = append(out[m.UserID], m)
	}
	return out, rows.Err()
}

// Replace implements department.MembershipRepository. It must run inside
// a transaction so the delete and inserts commit together.
func (r *membershipRepositoryImpl) Replace(ctx context.Context, departmentID int64, members []department.Membership) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `DELETE FROM user_departments WHERE department_id = $1`, departmentID); err != nil {
		return fmt.Errorf("clear memberships: %w", err)
	}
	for _, m := range members {
		if m.IsMain {
			// A user keeps a single main department.
			if _, err := q.Exec(ctx, `UPDATE user_departments SET is_main = FALSE WHERE user_id = $1 AND is_main`, m.UserID); err != nil {
				return fmt.Errorf("reset main department: %w", err)
			}
		}
		_, err := q.Exec(ctx, `
			INSERT INTO user_departments (`+membershipColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, m.UserID, departmentID, m.IsMain, m.IsHead, m.IsHidden, m.Position)
		if err != nil {
			if isForeignKeyViolation(err) {
				return fmt.Errorf("user %d: %w", m.UserID, ErrReferenceNotFound)
			}
			return fmt.Errorf("insert membership: %w", err)
		}
	}
	return nil
}

// SetPosition implements department.MembershipRepository.
func (r *membershipRepositoryImpl) SetPosition(ctx context.Context, departmentID, userID int64, position int) error {
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, `
		UPDATE user_departments SET position = $3
		WHERE department_id = $1 AND user_id = $2
	`, departmentID, userID, position)
	if err != nil {
		return fmt.Errorf("set member position: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return department.ErrNotMember
	}
	return nil
}
