package department

import "context"

type DepartmentRepository interface {
	Create(ctx context.Context, d Department) (Department, error)
	GetByID(ctx context.Context, id int64) (Department, error)
	List(ctx context.Context) ([]Department, error)
	Update(ctx context.Context, d Department) error
	Delete(ctx context.Context, id int64) error
}

type MembershipRepository interface {
	// ListMembers returns the department's members ordered by main flag,
	// position and name. Hidden members are included only on request.
	ListMembers(ctx context.Context, departmentID int64, includeHidden bool) ([]Member, error)
	ListByUser(ctx context.Context, userID int64) ([]Membership, error)
	// ListByUsers returns memberships of several users keyed by user id.
	ListByUsers(ctx context.Context, userIDs []int64) (map[int64][]Membership, error)
	// Replace swaps the department's membership list for members.
	Replace(ctx context.Context, departmentID int64, members []Membership) error
	Heads(ctx context.Context, departmentID int64) ([]Member, error)
	SetPosition(ctx context.Context, departmentID, userID int64, position int) error
}

type DepartmentService interface {
	List(ctx context.Context) ([]DepartmentResponse, error)
	Get(ctx context.Context, id int64) (DepartmentResponse, error)
	Create(ctx context.Context, req CreateDepartmentRequest) (DepartmentResponse, error)
	Update(ctx context.Context, req UpdateDepartmentRequest) (DepartmentResponse, error)
	Delete(ctx context.Context, id int64) error
	Members(ctx context.Context, departmentID int64) ([]MemberResponse, error)
	SyncMembers(ctx context.Context, req SyncMembersRequest) ([]MemberResponse, error)
	// Staff lists the department's members for an admin or one of its heads.
	Staff(ctx context.Context, access Access, departmentID int64) ([]MemberResponse, error)
	// UpdateStaff saves addresses, leave limits and order of the members.
	UpdateStaff(ctx context.Context, access Access, req UpdateStaffRequest) ([]MemberResponse, error)
	// Access loads the user's memberships for permission checks.
	Access(ctx context.Context, userID int64, isAdmin bool) (Access, error)
	// Accessible lists the departments the user may view.
	Accessible(ctx context.Context, access Access) ([]Department, error)
}
