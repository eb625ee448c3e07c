package department

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccess(t *testing.T) {
	a := Access{
		UserID: 5,
		Memberships: map[int64]Membership{
			10: {UserID: 5, DepartmentID: 10, IsMain: true},
			20: {UserID: 5, DepartmentID: 20, IsHead: true},
		},
	}

	assert.True(t, a.CanView(10))
	assert.False(t, a.CanEdit(10))
	assert.True(t, a.CanEdit(20))
	assert.False(t, a.CanView(30))
	assert.True(t, a.HeadOfAny())
	assert.Equal(t, []int64{20}, a.HeadedDepartments())

	main, ok := a.MainDepartment()
	assert.True(t, ok)
	assert.Equal(t, int64(10), main)

	admin := Access{UserID: 1, IsAdmin: true}
	assert.True(t, admin.CanEdit(30))
	assert.True(t, admin.CanView(30))
	_, ok = admin.MainDepartment()
	assert.False(t, ok)
}
