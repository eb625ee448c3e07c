package grafik

import "strconv"

// EventUpdated is published on the department topic after every mutation.
const EventUpdated = "grafik.updated"

// UpdatedEvent tells subscribers which cells changed. Cells is empty after
// an auto-plan; clients reload the whole month then.
type UpdatedEvent struct {
	DepartmentID int64         `json:"department_id"`
	Year         int           `json:"year"`
	Month        int           `json:"month"`
	Reason       string        `json:"reason"`
	Cells        []BatchResult `json:"cells,omitempty"`
	By           int64         `json:"by"`
}

// Topic names the SSE topic of a department.
func Topic(departmentID int64) string {
	return "department:" + strconv.FormatInt(departmentID, 10)
}
