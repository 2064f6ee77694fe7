package query

import (
	"sort"

	"github.com/studentdesk/studentdesk/internal/domain/attendance"
	"github.com/studentdesk/studentdesk/internal/domain/course"
	"github.com/studentdesk/studentdesk/internal/domain/payment"
	"github.com/studentdesk/studentdesk/internal/domain/student"
	"github.com/studentdesk/studentdesk/pkg/timeutil"
)

// UnknownName is shown for references whose target no longer exists.
const UnknownName = "Unknown"

// ══════════════════════════════════════════════════════════════════════════════
// NAME LOOKUPS
// ══════════════════════════════════════════════════════════════════════════════

// CourseName returns the name of the course with the given ID, or UnknownName.
func CourseName(courses []course.Course, id string) string {
	for _, c := range courses {
		if c.ID == id {
			return c.Name
		}
	}
	return UnknownName
}

// StudentName returns the name of the student with the given ID, or UnknownName.
func StudentName(students []student.Student, id string) string {
	for _, s := range students {
		if s.ID == id {
			return s.Name
		}
	}
	return UnknownName
}

// ══════════════════════════════════════════════════════════════════════════════
// RECENT STUDENTS
// ══════════════════════════════════════════════════════════════════════════════

// StudentRow is a student with its course name resolved.
type StudentRow struct {
	student.Student
	CourseName string `json:"courseName"`
}

// RecentStudents returns up to limit students, newest first.
// A limit <= 0 returns all of them.
func RecentStudents(s Snapshot, limit int) []StudentRow {
	sorted := append([]student.Student(nil), s.Students...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}

	rows := make([]StudentRow, len(sorted))
	for i, st := range sorted {
		rows[i] = StudentRow{Student: st, CourseName: CourseName(s.Courses, st.CourseID)}
	}
	return rows
}

// ══════════════════════════════════════════════════════════════════════════════
// UPCOMING PAYMENTS
// ══════════════════════════════════════════════════════════════════════════════

// PaymentRow is an outstanding installment with its derived status.
type PaymentRow struct {
	payment.Payment
	StudentName     string         `json:"studentName"`
	EffectiveStatus payment.Status `json:"effectiveStatus"`
	Outstanding     float64        `json:"balance"`
}

// IsOverdue reports whether the installment is past due.
func (r PaymentRow) IsOverdue() bool {
	return r.EffectiveStatus == payment.StatusOverdue
}

// UpcomingPayments returns up to limit pending or partial installments,
// earliest due date first. Overdue ones are included and flagged.
// A limit <= 0 returns all of them.
func UpcomingPayments(s Snapshot, today timeutil.Date, limit int) []PaymentRow {
	var open []payment.Payment
	for _, p := range s.Payments {
		if p.Status.IsOutstanding() {
			open = append(open, p)
		}
	}
	sort.SliceStable(open, func(i, j int) bool {
		return open[i].DueDate.Before(open[j].DueDate)
	})
	if limit > 0 && len(open) > limit {
		open = open[:limit]
	}

	rows := make([]PaymentRow, len(open))
	for i, p := range open {
		rows[i] = PaymentRow{
			Payment:         p,
			StudentName:     StudentName(s.Students, p.StudentID),
			EffectiveStatus: p.EffectiveStatus(today),
			Outstanding:     p.Balance(),
		}
	}
	return rows
}

// ══════════════════════════════════════════════════════════════════════════════
// COURSES
// ══════════════════════════════════════════════════════════════════════════════

// CourseRow is a course with the number of students referencing it.
type CourseRow struct {
	course.Course
	Enrolled int `json:"enrolled"`
}

// CourseOverview lists every course with its enrolment count.
func CourseOverview(s Snapshot) []CourseRow {
	counts := make(map[string]int, len(s.Courses))
	for _, st := range s.Students {
		counts[st.CourseID]++
	}

	rows := make([]CourseRow, len(s.Courses))
	for i, c := range s.Courses {
		rows[i] = CourseRow{Course: c, Enrolled: counts[c.ID]}
	}
	return rows
}

// ══════════════════════════════════════════════════════════════════════════════
// DAILY ROSTER
// ══════════════════════════════════════════════════════════════════════════════

// RosterEntry is one student's mark on a day. Status is empty when unmarked.
type RosterEntry struct {
	StudentID string            `json:"studentId"`
	Name      string            `json:"name"`
	Status    attendance.Status `json:"status,omitempty"`
	Notes     string            `json:"notes,omitempty"`
}

// Roster is the attendance sheet of a set of students for one day.
type Roster struct {
	Date     timeutil.Date `json:"date"`
	Entries  []RosterEntry `json:"entries"`
	Present  int           `json:"present"`
	Absent   int           `json:"absent"`
	Late     int           `json:"late"`
	Excused  int           `json:"excused"`
	Unmarked int           `json:"unmarked"`
}

// RosterSummary builds the sheet for students on day from the attendance
// collection. Records of other students are ignored. When a student has
// several records on day, the last one is shown.
func RosterSummary(students []student.Student, records []attendance.Record, day timeutil.Date) Roster {
	marks := make(map[string]attendance.Record)
	for _, r := range records {
		if r.Date != day {
			continue
		}
		marks[r.StudentID] = r
	}

	roster := Roster{Date: day, Entries: make([]RosterEntry, 0, len(students))}
	for _, st := range students {
		entry := RosterEntry{StudentID: st.ID, Name: st.Name}
		rec, ok := marks[st.ID]
		if ok {
			entry.Status = rec.Status
			entry.Notes = rec.Notes
		}

		switch entry.Status {
		case attendance.StatusPresent:
			roster.Present++
		case attendance.StatusAbsent:
			roster.Absent++
		case attendance.StatusLate:
			roster.Late++
		case attendance.StatusExcused:
			roster.Excused++
		default:
			roster.Unmarked++
		}
		roster.Entries = append(roster.Entries, entry)
	}
	return roster
}
