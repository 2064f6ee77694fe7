package query

import (
	"encoding/json"

	"github.com/studentdesk/studentdesk/internal/domain/attendance"
	"github.com/studentdesk/studentdesk/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// MONTHLY ATTENDANCE VIEW
// One cell per calendar day of a month for a single student, as rendered by
// the attendance calendar.
// ══════════════════════════════════════════════════════════════════════════════

// DayStatus is the state of one calendar cell: an attendance status,
// DayWeekend, or DayUnmarked.
type DayStatus string

const (
	// DayWeekend marks Saturdays and Sundays. Weekends are never working days,
	// even when a record exists for them.
	DayWeekend DayStatus = "weekend"

	// DayUnmarked is a working day without a record. Encodes as JSON null.
	DayUnmarked DayStatus = ""
)

// MarshalJSON encodes DayUnmarked as null.
func (s DayStatus) MarshalJSON() ([]byte, error) {
	if s == DayUnmarked {
		return []byte("null"), nil
	}
	return json.Marshal(string(s))
}

// UnmarshalJSON decodes null as DayUnmarked.
func (s *DayStatus) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = DayUnmarked
		return nil
	}
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = DayStatus(v)
	return nil
}

// DayEntry is one calendar cell.
type DayEntry struct {
	Date   timeutil.Date `json:"date"`
	Status DayStatus     `json:"status"`
}

// MonthlyAttendance is a student's calendar for one month.
type MonthlyAttendance struct {
	StudentID   string         `json:"studentId"`
	Month       timeutil.Month `json:"-"`
	Days        []DayEntry     `json:"days"`
	WorkingDays int            `json:"workingDays"`
	PresentDays int            `json:"presentDays"`
	Percentage  int            `json:"percentage"`
}

// MonthlyView builds the calendar of studentID for month from the full
// attendance collection. The percentage is present-or-late days over all
// working days of the month, marked or not.
func MonthlyView(records []attendance.Record, studentID string, month timeutil.Month) MonthlyAttendance {
	byDate := make(map[timeutil.Date]attendance.Status)
	for _, r := range records {
		if r.StudentID != studentID {
			continue
		}
		// First record of the day wins in the calendar.
		if _, seen := byDate[r.Date]; !seen {
			byDate[r.Date] = r.Status
		}
	}

	view := MonthlyAttendance{StudentID: studentID, Month: month}
	for _, day := range month.Days() {
		entry := DayEntry{Date: day}
		switch {
		case day.IsWeekend():
			entry.Status = DayWeekend
		default:
			view.WorkingDays++
			if status, ok := byDate[day]; ok {
				entry.Status = DayStatus(status)
				if status.CountsAsAttended() {
					view.PresentDays++
				}
			}
		}
		view.Days = append(view.Days, entry)
	}

	view.Percentage = Percent(view.PresentDays, view.WorkingDays)
	return view
}

// Count returns how many cells carry status.
func (m MonthlyAttendance) Count(status DayStatus) int {
	n := 0
	for _, d := range m.Days {
		if d.Status == status {
			n++
		}
	}
	return n
}
