package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindTypeGroup_BridgesWeekendAndFreeDay(t *testing.T) {
	// Day 5 is a Saturday without an entry, day 6 carries the free-day code.
	codes := map[int]string{3: "U", 4: "U", 6: "W", 7: "U", 8: "U", 10: "1", 11: "U"}
	saturday := func(day int) bool { return day == 5 }

	assert.Equal(t, []int{3, 4, 7, 8}, FindTypeGroup(codes, "U", "W", saturday, 3))
	assert.Equal(t, []int{3, 4, 7, 8}, FindTypeGroup(codes, "U", "W", saturday, 8))
	// Day 9 is empty and day 10 is a working shift: both break the run.
	assert.Equal(t, []int{11}, FindTypeGroup(codes, "U", "W", saturday, 11))
}

func TestFindTypeGroup_NonBridgeGapSplitsRuns(t *testing.T) {
	codes := map[int]string{3: "U", 4: "U", 5: "1", 7: "U"}

	assert.Equal(t, []int{3, 4}, FindTypeGroup(codes, "U", "W", nil, 4))
	assert.Equal(t, []int{7}, FindTypeGroup(codes, "U", "W", nil, 7))
}

func TestFindTypeGroup_FallsBackToFirstRun(t *testing.T) {
	codes := map[int]string{3: "U", 9: "U"}

	assert.Equal(t, []int{3}, FindTypeGroup(codes, "U", "W", nil, 20))
}

func TestFindTypeGroup_NoMatches(t *testing.T) {
	codes := map[int]string{1: "1", 2: "W"}

	assert.Empty(t, FindTypeGroup(codes, "U", "W", nil, 1))
	assert.Empty(t, FindTypeGroup(nil, "U", "W", nil, 1))
}
