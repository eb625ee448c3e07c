package department

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/department"
	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/grafik-backend-go/internal/repository/postgresql"
)

// UserDetails stores the user fields edited from a department's staff list.
type UserDetails interface {
	Update(ctx context.Context, req user.UpdateUserRequest) error
}

type DepartmentServiceImpl struct {
	tx postgresql.Transactor
	department.DepartmentRepository
	department.MembershipRepository
	users UserDetails
}

func NewDepartmentService(tx postgresql.Transactor, departmentRepository department.DepartmentRepository, membershipRepository department.MembershipRepository, users UserDetails) department.DepartmentService {
	return &DepartmentServiceImpl{
		tx:                   tx,
		DepartmentRepository: departmentRepository,
		MembershipRepository: membershipRepository,
		users:                users,
	}
}

// List implements department.DepartmentService.
func (s *DepartmentServiceImpl) List(ctx context.Context) ([]department.DepartmentResponse, error) {
	depts, err := s.DepartmentRepository.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]department.DepartmentResponse, 0, len(depts))
	for _, d := range depts {
		out = append(out, department.NewDepartmentResponse(d))
	}
	return out, nil
}

// Get implements department.DepartmentService.
func (s *DepartmentServiceImpl) Get(ctx context.Context, id int64) (department.DepartmentResponse, error) {
	d, err := s.DepartmentRepository.GetByID(ctx, id)
	if err != nil {
		return department.DepartmentResponse{}, err
	}
	return department.NewDepartmentResponse(d), nil
}

// Create implements department.DepartmentService.
func (s *DepartmentServiceImpl) Create(ctx context.Context, req department.CreateDepartmentRequest) (department.DepartmentResponse, error) {
	d, err := s.DepartmentRepository.Create(ctx, department.Department{
		Name:     strings.TrimSpace(req.Name),
		Code:     strings.ToUpper(strings.TrimSpace(req.Code)),
		Position: req.Position,
	})
	if err != nil {
		return department.DepartmentResponse{}, err
	}
	return department.NewDepartmentResponse(d), nil
}

// Update implements department.DepartmentService.
func (s *DepartmentServiceImpl) Update(ctx context.Context, req department.UpdateDepartmentRequest) (department.DepartmentResponse, error) {
	d := department.Department{
		ID:       req.ID,
		Name:     strings.TrimSpace(req.Name),
		Code:     strings.ToUpper(strings.TrimSpace(req.Code)),
		Position: req.Position,
	}
	if err := s.DepartmentRepository.Update(ctx, d); err != nil {
		return department.DepartmentResponse{}, err
	}
	return s.Get(ctx, req.ID)
}

// Delete implements department.DepartmentService.
func (s *DepartmentServiceImpl) Delete(ctx context.Context, id int64) error {
	return s.DepartmentRepository.Delete(ctx, id)
}

// Members implements department.DepartmentService. Hidden members are
// listed so administrators can unhide them.
func (s *DepartmentServiceImpl) Members(ctx context.Context, departmentID int64) ([]department.MemberResponse, error) {
	if _, err := s.DepartmentRepository.GetByID(ctx, departmentID); err != nil {
		return nil, err
	}
	members, err := s.MembershipRepository.ListMembers(ctx, departmentID, true)
	if err != nil {
		return nil, err
	}
	out := make([]department.MemberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, department.NewMemberResponse(m))
	}
	return out, nil
}

// SyncMembers implements department.DepartmentService.
func (s *DepartmentServiceImpl) SyncMembers(ctx context.Context, req department.SyncMembersRequest) ([]department.MemberResponse, error) {
	members := make([]department.Membership, 0, len(req.Members))
	for i, m := range req.Members {
		position := m.Position
		if position == 0 {
			position = i + 1
		}
		members = append(members, department.Membership{
			UserID:       m.UserID,
			DepartmentID: req.DepartmentID,
			IsMain:       m.IsMain,
			IsHead:       m.IsHead,
			IsHidden:     m.IsHidden,
			Position:     position,
		})
	}

	err := s.tx.Do(ctx, func(txCtx context.Context) error {
		if _, err := s.DepartmentRepository.GetByID(txCtx, req.DepartmentID); err != nil {
			return err
		}
		if err := s.MembershipRepository.Replace(txCtx, req.DepartmentID, members); err != nil {
			if errors.Is(err, postgresql.ErrReferenceNotFound) {
				return fmt.Errorf("%w: unknown user in member list", err)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Members(ctx, req.DepartmentID)
}

// Staff implements department.DepartmentService.
func (s *DepartmentServiceImpl) Staff(ctx context.Context, access department.Access, departmentID int64) ([]department.MemberResponse, error) {
	if !access.CanEdit(departmentID) {
		return nil, department.ErrForbidden
	}
	return s.Members(ctx, departmentID)
}

// UpdateStaff implements department.DepartmentService. Entries for users
// outside the department are ignored; an empty address clears it.
func (s *DepartmentServiceImpl) UpdateStaff(ctx context.Context, access department.Access, req department.UpdateStaffRequest) ([]department.MemberResponse, error) {
	if !access.CanEdit(req.DepartmentID) {
		return nil, department.ErrForbidden
	}

	err := s.tx.Do(ctx, func(txCtx context.Context) error {
		if _, err := s.DepartmentRepository.GetByID(txCtx, req.DepartmentID); err != nil {
			return err
		}
		members, err := s.MembershipRepository.ListMembers(txCtx, req.DepartmentID, true)
		if err != nil {
			return err
		}
		isMember := make(map[int64]bool, len(members))
		for _, m := range members {
			isMember[m.UserID] = true
		}

		for _, in := range req.Staff {
			if !isMember[in.UserID] {
				continue
			}
			if in.Address != nil || in.LeaveDaysPerYear != nil {
				upd := user.UpdateUserRequest{ID: in.UserID, LeaveDaysPerYear: in.LeaveDaysPerYear}
				if in.Address != nil {
					address := strings.TrimSpace(*in.Address)
					upd.Address = &address
				}
				if err := s.users.Update(txCtx, upd); err != nil {
					return fmt.Errorf("update user %d: %w", in.UserID, err)
				}
			}
			if in.Position != nil {
				if err := s.MembershipRepository.SetPosition(txCtx, req.DepartmentID, in.UserID, *in.Position); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Members(ctx, req.DepartmentID)
}

// Access implements department.DepartmentService.
func (s *DepartmentServiceImpl) Access(ctx context.Context, userID int64, isAdmin bool) (department.Access, error) {
	memberships, err := s.MembershipRepository.ListByUser(ctx, userID)
	if err != nil {
		return department.Access{}, fmt.Errorf("load memberships: %w", err)
	}
	access := department.Access{
		UserID:      userID,
		IsAdmin:     isAdmin,
		Memberships: make(map[int64]department.Membership, len(memberships)),
	}
	for _, m := range memberships {
		access.Memberships[m.DepartmentID] = m
	}
	return access, nil
}

// Accessible implements department.DepartmentService.
func (s *DepartmentServiceImpl) Accessible(ctx context.Context, access department.Access) ([]department.Department, error) {
	all, err := s.DepartmentRepository.List(ctx)
	if err != nil {
		return nil, err
	}
	if access.IsAdmin {
		return all, nil
	}
	out := make([]department.Department, 0, len(access.Memberships))
	for _, d := range all {
		if access.IsMember(d.ID) {
			out = append(out, d)
		}
	}
	return out, nil
}
