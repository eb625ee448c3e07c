package report

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/department"
	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/grafik"
	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/grafik-backend-go/internal/pkg/pdf"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type fakeDepartments struct {
	department.DepartmentRepository
}

func (fakeDepartments) GetByID(ctx context.Context, id int64) (department.Department, error) {
	if id != 1 {
		return department.Department{}, department.ErrDepartmentNotFound
	}
	return department.Department{ID: 1, Name: "Recepcja", Code: "REC"}, nil
}

type fakeMemberships struct {
	department.MembershipRepository
}

func (fakeMemberships) ListMembers(ctx context.Context, departmentID int64, includeHidden bool) ([]department.Member, error) {
	return []department.Member{
		{Membership: department.Membership{UserID: 2, DepartmentID: 1, IsMain: true}, FullName: "Anna Kowalska"},
		{Membership: department.Membership{UserID: 3, DepartmentID: 1, IsMain: true}, FullName: "Jan Nowak"},
		{Membership: department.Membership{UserID: 4, DepartmentID: 1}, FullName: "Ewa Gość"},
	}, nil
}

type fakeUsers struct {
	user.UserRepository
}

func (fakeUsers) GetByIDs(ctx context.Context, ids []int64) (map[int64]user.User, error) {
	return map[int64]user.User{
		2: {ID: 2, LeaveDaysPerYear: 26},
		3: {ID: 3, LeaveDaysPerYear: 0},
	}, nil
}

type fakeGrafik struct {
	grafik.GrafikService
}

func (fakeGrafik) LeaveDays(ctx context.Context, departmentID int64, year int) (map[int64]map[int][]int, error) {
	return map[int64]map[int][]int{
		2: {1: {2, 3, 4, 9}, 7: {14, 15, 16, 17, 18, 21, 22, 23, 24}},
		3: {12: {24}},
		4: {5: {5}},
	}, nil
}

var admin = department.Access{UserID: 1, IsAdmin: true}

func newService() *ReportServiceImpl {
	svc := NewReportService(fakeDepartments{}, fakeMemberships{}, fakeUsers{}, fakeGrafik{}, pdf.NewRenderer("")).(*ReportServiceImpl)
	svc.now = func() time.Time { return time.Date(2025, 12, 31, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestVacation(t *testing.T) {
	svc := newService()
	rep, err := svc.Vacation(context.Background(), report.VacationReportRequest{Access: admin, DepartmentID: 1, Year: 2025})
	require.NoError(t, err)

	assert.Equal(t, "REC", rep.DepartmentCode)
	assert.Len(t, rep.Months, 12)
	require.Len(t, rep.Employees, 2, "only main-department members are reported")

	anna := rep.Employees[0]
	assert.Equal(t, 13, anna.Total)
	assert.Equal(t, 13, anna.Remaining)
	assert.True(t, decimal.RequireFromString("0.5").Equal(anna.UsedShare))
	assert.Equal(t, report.VacationMonth{Days: 4, Ranges: "2-4, 9"}, anna.Months[0])
	assert.Equal(t, "14-18, 21-24", anna.Months[6].Ranges)
	assert.Equal(t, 0, anna.Months[1].Days)

	jan := rep.Employees[1]
	assert.Equal(t, 1, jan.Total)
	assert.Equal(t, -1, jan.Remaining)
	assert.True(t, jan.UsedShare.IsZero())
}

func TestVacation_UnknownDepartment(t *testing.T) {
	_, err := newService().Vacation(context.Background(), report.VacationReportRequest{Access: admin, DepartmentID: 9, Year: 2025})
	assert.ErrorIs(t, err, department.ErrDepartmentNotFound)
}

func TestVacationFile(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	t.Run("xlsx", func(t *testing.T) {
		file, err := svc.VacationFile(ctx, report.VacationReportRequest{Access: admin, DepartmentID: 1, Year: 2025, Format: report.FormatXLSX})
		require.NoError(t, err)
		assert.Equal(t, "raport_urlopy_rec_2025.xlsx", file.Name)

		book, err := excelize.OpenReader(bytes.NewReader(file.Data))
		require.NoError(t, err)
		defer book.Close()

		name, err := book.GetCellValue(sheetName, "A4")
		require.NoError(t, err)
		assert.Equal(t, "Anna Kowalska", name)
		jan, err := book.GetCellValue(sheetName, "B4")
		require.NoError(t, err)
		assert.Equal(t, "4 (2-4, 9)", jan)
		header, err := book.GetCellValue(sheetName, "K3")
		require.NoError(t, err)
		assert.Equal(t, "Paź", header)
	})

	t.Run("pdf", func(t *testing.T) {
		file, err := svc.VacationFile(ctx, report.VacationReportRequest{Access: admin, DepartmentID: 1, Year: 2025, Format: report.FormatPDF})
		require.NoError(t, err)
		assert.Equal(t, "application/pdf", file.ContentType)
		assert.True(t, bytes.HasPrefix(file.Data, []byte("%PDF-")))
	})

	t.Run("json is not a file format", func(t *testing.T) {
		_, err := svc.VacationFile(ctx, report.VacationReportRequest{Access: admin, DepartmentID: 1, Year: 2025, Format: report.FormatJSON})
		assert.ErrorIs(t, err, report.ErrUnsupportedFormat)
	})
}

func TestVacation_HeadAccess(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	head := department.Access{UserID: 2, Memberships: map[int64]department.Membership{
		1: {UserID: 2, DepartmentID: 1, IsHead: true},
	}}
	member := department.Access{UserID: 3, Memberships: map[int64]department.Membership{
		1: {UserID: 3, DepartmentID: 1, IsMain: true},
	}}

	rep, err := svc.Vacation(ctx, report.VacationReportRequest{Access: head, DepartmentID: 1, Year: 2025})
	require.NoError(t, err)
	assert.Equal(t, "Recepcja", rep.DepartmentName)

	_, err = svc.Vacation(ctx, report.VacationReportRequest{Access: member, DepartmentID: 1, Year: 2025})
	assert.ErrorIs(t, err, department.ErrForbidden)

	_, err = svc.VacationFile(ctx, report.VacationReportRequest{Access: head, DepartmentID: 2, Year: 2025, Format: report.FormatPDF})
	assert.ErrorIs(t, err, department.ErrForbidden, "heads cannot read other departments")
}
