package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/studentdesk/studentdesk/internal/application/query"
	"github.com/studentdesk/studentdesk/pkg/timeutil"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func renderStatistics(w io.Writer, s query.Statistics, today query.Breakdown) {
	tw := newTable(w)
	fmt.Fprintf(tw, "Students\t%d (%d active)\n", s.TotalStudents, s.ActiveStudents)
	fmt.Fprintf(tw, "Courses\t%d\n", s.TotalCourses)
	fmt.Fprintf(tw, "Revenue\t%s\n", money(s.TotalRevenue))
	fmt.Fprintf(tw, "Pending\t%s\n", money(s.PendingBalance))
	fmt.Fprintf(tw, "Attendance today\t%d%% (%d of %d)\n", s.TodayAttendanceRate, s.PresentToday, s.TodayRecords)
	fmt.Fprintf(tw, "  present / absent / late / excused\t%d / %d / %d / %d\n",
		today.Present, today.Absent, today.Late, today.Excused)
	_ = tw.Flush()
}

func renderStudents(w io.Writer, rows []query.StudentRow) {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tCOURSE\tJOINED\tSTATUS")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.Name, r.CourseName, r.JoiningDate, r.Status)
	}
	_ = tw.Flush()
}

func renderCourses(w io.Writer, rows []query.CourseRow) {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tDURATION\tFEE\tENROLLED")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%d %s\t%s\t%d\n", r.ID, r.Name, r.Duration, r.DurationUnit, money(r.Fee), r.Enrolled)
	}
	_ = tw.Flush()
}

func renderPayments(w io.Writer, rows []query.PaymentRow, pending float64) {
	tw := newTable(w)
	fmt.Fprintln(tw, "DUE\tSTUDENT\t#\tAMOUNT\tBALANCE\tSTATUS")
	for _, r := range rows {
		status := string(r.EffectiveStatus)
		if r.IsOverdue() {
			status = strings.ToUpper(status)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\n",
			r.DueDate, r.StudentName, r.InstallmentNumber, money(r.Amount), money(r.Outstanding), status)
	}
	fmt.Fprintf(tw, "\t\t\t\t%s\ttotal pending\n", money(pending))
	_ = tw.Flush()
}

func renderRoster(w io.Writer, r query.Roster) {
	fmt.Fprintf(w, "%s (%s)\n", r.Date, r.Date.Time().Format(timeutil.FormatHumanDate))
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tSTATUS\tNOTES")
	for _, e := range r.Entries {
		status := string(e.Status)
		if status == "" {
			status = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.StudentID, e.Name, status, e.Notes)
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "present %d, absent %d, late %d, excused %d, unmarked %d\n",
		r.Present, r.Absent, r.Late, r.Excused, r.Unmarked)
}

// renderMonth prints a Monday-first calendar grid. Cells show the first
// letter of the status, "." for unmarked working days and blanks for weekends.
func renderMonth(w io.Writer, m *query.MonthlyAttendance) {
	fmt.Fprintf(w, "%s  student %s\n", m.Month, m.StudentID)
	fmt.Fprintln(w, "Mo Tu We Th Fr Sa Su")

	var line strings.Builder
	offset := (int(m.Month.First().Weekday()) + 6) % 7
	line.WriteString(strings.Repeat("   ", offset))
	for _, d := range m.Days {
		line.WriteString(fmt.Sprintf("%-3s", cell(d.Status)))
		if d.Date.Weekday() == time.Sunday {
			fmt.Fprintln(w, strings.TrimRight(line.String(), " "))
			line.Reset()
		}
	}
	if line.Len() > 0 {
		fmt.Fprintln(w, strings.TrimRight(line.String(), " "))
	}

	fmt.Fprintf(w, "attended %d of %d working days (%d%%)\n", m.PresentDays, m.WorkingDays, m.Percentage)
}

func cell(s query.DayStatus) string {
	switch s {
	case query.DayWeekend:
		return "  "
	case query.DayUnmarked:
		return "."
	default:
		return strings.ToUpper(string(s)[:1])
	}
}
