package grid

import "sort"

// FindTypeGroup returns the run of days carrying code that contains refDay.
//
// codes maps day to the code of that day's cell. Two matching days belong
// to the same run when every day strictly between them is a bridge: a
// non-working day or a day whose code is freeCode. When refDay is in no run
// the first run is returned; when no day matches the result is nil.
func FindTypeGroup(codes map[int]string, code, freeCode string, nonWorking func(day int) bool, refDay int) []int {
	var matches []int
	for day, c := range codes {
		if c == code {
			matches = append(matches, day)
		}
	}
	if len(matches) == 0 {
		return nil
	}
	sort.Ints(matches)

	bridge := func(day int) bool {
		if nonWorking != nil && nonWorking(day) {
			return true
		}
		return freeCode != "" && codes[day] == freeCode
	}

	groups := [][]int{{matches[0]}}
	for i := 1; i < len(matches); i++ {
		prev, curr := matches[i-1], matches[i]
		bridged := true
		for d := prev + 1; d < curr; d++ {
			if !bridge(d) {
				bridged = false
				break
			}
		}
		if bridged {
			groups[len(groups)-1] = append(groups[len(groups)-1], curr)
		} else {
			groups = append(groups, []int{curr})
		}
	}

	for _, g := range groups {
		for _, d := range g {
			if d == refDay {
				return g
			}
		}
	}
	return groups[0]
}

// TypeGroup resolves the contiguous run of code around refDay in one row.
func (g *Grid) TypeGroup(employeeID int64, code string, refDay int) []int {
	return FindTypeGroup(g.rowCodes(employeeID), code, g.freeCode, g.NonWorking, refDay)
}
