package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// assertMarkers checks that exactly the selected cells carry the marker.
func assertMarkers(t *testing.T, c *Controller) {
	t.Helper()
	for _, r := range c.Grid().Rows() {
		for _, d := range c.Grid().Days() {
			key := k(r.EmployeeID, d.Day)
			cl, _ := c.Grid().Cell(key)
			assert.Equal(t, c.Selection().Has(key), cl.Selected, "cell %s", key)
		}
	}
}

func TestSelection_MarkersFollowMembership(t *testing.T) {
	c := newTestController()
	s := c.Selection()

	s.Select(k(annaID, 3))
	s.Select(k(borysID, 7))
	s.Toggle(k(annaID, 4))
	assert.Equal(t, 3, s.Len())
	assertMarkers(t, c)

	s.Toggle(k(annaID, 4))
	s.Deselect(k(borysID, 7))
	assert.Equal(t, []Key{k(annaID, 3)}, s.Keys())
	assertMarkers(t, c)

	s.ClearAll()
	assert.Zero(t, s.Len())
	assertMarkers(t, c)
}

func TestSelection_IgnoresKeysOutsideGrid(t *testing.T) {
	c := newTestController()
	s := c.Selection()

	s.Select(k(99, 3))
	s.Select(k(annaID, 40))
	assert.Zero(t, s.Len())
}

func TestSelection_SelectTwiceKeepsOneMember(t *testing.T) {
	c := newTestController()
	s := c.Selection()

	s.Select(k(annaID, 3))
	s.Select(k(annaID, 3))
	assert.Equal(t, 1, s.Len())
}

func TestSelection_EmployeesInFirstSeenOrder(t *testing.T) {
	c := newTestController()
	s := c.Selection()

	s.Select(k(celinaID, 1))
	s.Select(k(annaID, 1))
	s.Select(k(celinaID, 2))
	assert.Equal(t, []int64{celinaID, annaID}, s.Employees())
}

func TestSelection_ClearAllClosesMenu(t *testing.T) {
	c := newTestController()
	drag(c, k(annaID, 2), k(annaID, 3))
	assert.NotNil(t, c.Menu())

	c.Selection().ClearAll()
	assert.Nil(t, c.Menu())
}

func TestSelection_ReplaceKeepsMenu(t *testing.T) {
	c := newTestController()
	drag(c, k(annaID, 2), k(annaID, 3))

	c.Selection().Replace([]Key{k(borysID, 5)})
	assert.NotNil(t, c.Menu())
	assert.Equal(t, []Key{k(borysID, 5)}, c.Selection().Keys())
	assertMarkers(t, c)
}
