package grid

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/grafik"
	"github.com/cmlabs-hris/grafik-backend-go/internal/pkg/keycombo"
)

// LayoutFromMonthView converts the server's month view into a Layout.
func LayoutFromMonthView(v grafik.MonthView) Layout {
	l := Layout{
		DepartmentID: v.Department.ID,
		Year:         v.Year,
		Month:        time.Month(v.Month),
		CanEdit:      v.CanEdit,
		ViewerID:     v.ViewerID,
		FreeDayCode:  v.FreeDayCode,
		LeaveCode:    v.LeaveCode,
	}

	for _, r := range v.Rows {
		l.Rows = append(l.Rows, Row{EmployeeID: r.EmployeeID, Name: r.FullName, Main: r.Main, FreeDays: r.FreeDays})
	}
	for _, d := range v.Days {
		l.Days = append(l.Days, Day{Day: d.Day, Date: d.Date, NonWorking: d.NonWorking()})
	}

	seen := make(map[Key]bool, len(v.Entries))
	for _, e := range v.Entries {
		k := Key{EmployeeID: e.EmployeeID, Day: e.Day}
		seen[k] = true
		l.Cells = append(l.Cells, CellState{
			EmployeeID: e.EmployeeID,
			Day:        e.Day,
			Code:       e.Code,
			Color:      e.Color,
			RequestID:  v.Requests[grafik.RequestKey(e.EmployeeID, e.Day)],
		})
	}
	// Requests can cover cells whose entry was cleared later.
	for _, r := range v.Rows {
		for _, d := range v.Days {
			k := Key{EmployeeID: r.EmployeeID, Day: d.Day}
			if seen[k] {
				continue
			}
			if id := v.Requests[grafik.RequestKey(r.EmployeeID, d.Day)]; id != 0 {
				l.Cells = append(l.Cells, CellState{EmployeeID: r.EmployeeID, Day: d.Day, RequestID: id})
			}
		}
	}

	for _, st := range v.ShiftTypes {
		t := ShiftType{
			ID:          st.ID,
			Name:        st.Name,
			Code:        st.Code,
			Color:       st.Color,
			MainOnly:    st.MainOnly,
			TemplateKey: st.TemplateKey,
			TemplateID:  st.TemplateID,
		}
		if st.LegacyTemplate != nil {
			t.LegacyTemplate = *st.LegacyTemplate
		}
		if st.HoursFrom != nil && st.HoursTo != nil {
			t.Hours = clock(*st.HoursFrom) + "-" + clock(*st.HoursTo)
		}
		if st.Shortcut != nil {
			if combo, err := keycombo.Parse(*st.Shortcut); err == nil {
				t.Shortcut = combo
			}
		}
		l.ShiftTypes = append(l.ShiftTypes, t)
	}
	return l
}

// clock trims "06:00:00" to "06:00".
func clock(s string) string {
	if parts := strings.Split(s, ":"); len(parts) >= 2 {
		return parts[0] + ":" + parts[1]
	}
	return s
}
