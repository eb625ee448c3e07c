package department

import "time"

type Department struct {
	ID        int64
	Name      string
	Code      string
	Position  int
	CreatedAt time.Time
}

// Membership links a user to a department. A user has at most one main
// department; heads may edit the department's grid.
type Membership struct {
	UserID       int64
	DepartmentID int64
	IsMain       bool
	IsHead       bool
	IsHidden     bool
	Position     int
}

// Member is a membership joined with the user's details.
type Member struct {
	Membership
	FullName         string
	Email            string
	Address          *string
	LeaveDaysPerYear int
}

// Access describes what a user may do across departments.
type Access struct {
	UserID  int64
	IsAdmin bool
	// Memberships keyed by department id.
	Memberships map[int64]Membership
}

func (a Access) IsMember(departmentID int64) bool {
	_, ok := a.Memberships[departmentID]
	return ok
}

func (a Access) CanView(departmentID int64) bool {
	return a.IsAdmin || a.IsMember(departmentID)
}

func (a Access) CanEdit(departmentID int64) bool {
	if a.IsAdmin {
		return true
	}
	m, ok := a.Memberships[departmentID]
	return ok && m.IsHead
}

// HeadOfAny reports whether the user heads at least one department.
func (a Access) HeadOfAny() bool {
	for _, m := range a.Memberships {
		if m.IsHead {
			return true
		}
	}
	return false
}

// HeadedDepartments returns the ids of departments the user heads.
func (a Access) HeadedDepartments() []int64 {
	var ids []int64
	for id, m := range a.Memberships {
		if m.IsHead {
			ids = append(ids, id)
		}
	}
	return ids
}

// MainDepartment returns the user's main department id, if any.
func (a Access) MainDepartment() (int64, bool) {
	for id, m := range a.Memberships {
		if m.IsMain {
			return id, true
		}
	}
	return 0, false
}
