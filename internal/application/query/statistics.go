// Package query contains read operations (CQRS - Queries): the statistics
// derived from the four collections. Everything here is recomputed from a
// fresh snapshot on each call; nothing is cached.
package query

import (
	"math"

	"github.com/studentdesk/studentdesk/internal/domain/attendance"
	"github.com/studentdesk/studentdesk/internal/domain/course"
	"github.com/studentdesk/studentdesk/internal/domain/payment"
	"github.com/studentdesk/studentdesk/internal/domain/student"
	"github.com/studentdesk/studentdesk/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// SNAPSHOT
// ══════════════════════════════════════════════════════════════════════════════

// Snapshot is the content of all four collections at one point in time.
type Snapshot struct {
	Courses    []course.Course
	Students   []student.Student
	Attendance []attendance.Record
	Payments   []payment.Payment
}

// Statistics is the dashboard headline.
type Statistics struct {
	TotalStudents       int     `json:"totalStudents"`
	ActiveStudents      int     `json:"activeStudents"`
	TotalCourses        int     `json:"totalCourses"`
	TotalRevenue        float64 `json:"totalRevenue"`
	PendingBalance      float64 `json:"pendingPayments"`
	TodayAttendanceRate int     `json:"attendanceRate"`
	PresentToday        int     `json:"presentToday"`
	TodayRecords        int     `json:"totalTodayRecords"`
}

// Summarize computes the dashboard headline for the given day.
func Summarize(s Snapshot, today timeutil.Date) Statistics {
	active := 0
	for _, st := range s.Students {
		if st.IsActive() {
			active++
		}
	}

	attended, total := attendedOn(s.Attendance, today)
	return Statistics{
		TotalStudents:       len(s.Students),
		ActiveStudents:      active,
		TotalCourses:        len(s.Courses),
		TotalRevenue:        TotalRevenue(s.Payments),
		PendingBalance:      PendingBalance(s.Payments),
		TodayAttendanceRate: Percent(attended, total),
		PresentToday:        attended,
		TodayRecords:        total,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// PAYMENTS
// ══════════════════════════════════════════════════════════════════════════════

// TotalRevenue sums PaidAmount over fully paid installments. Money received
// on partial installments is not counted.
func TotalRevenue(payments []payment.Payment) float64 {
	var sum float64
	for _, p := range payments {
		if p.Status == payment.StatusPaid {
			sum += p.PaidAmount
		}
	}
	return sum
}

// PendingBalance sums the outstanding balance of pending and partial installments.
func PendingBalance(payments []payment.Payment) float64 {
	var sum float64
	for _, p := range payments {
		if p.Status.IsOutstanding() {
			sum += p.Balance()
		}
	}
	return sum
}

// ══════════════════════════════════════════════════════════════════════════════
// ATTENDANCE
// ══════════════════════════════════════════════════════════════════════════════

// AttendanceRate is the share of records on day that count as attended,
// as a rounded percentage. 0 when nothing was recorded that day.
func AttendanceRate(records []attendance.Record, day timeutil.Date) int {
	attended, total := attendedOn(records, day)
	return Percent(attended, total)
}

// Breakdown counts the records of one day per status.
type Breakdown struct {
	Date    timeutil.Date `json:"date"`
	Present int           `json:"present"`
	Absent  int           `json:"absent"`
	Late    int           `json:"late"`
	Excused int           `json:"excused"`
	Total   int           `json:"total"`
}

// Rate returns the attendance rate of the day.
func (b Breakdown) Rate() int {
	return Percent(b.Present+b.Late, b.Total)
}

// DailyBreakdown counts the records dated on day by status.
func DailyBreakdown(records []attendance.Record, day timeutil.Date) Breakdown {
	b := Breakdown{Date: day}
	for _, r := range records {
		if r.Date != day {
			continue
		}
		b.Total++
		switch r.Status {
		case attendance.StatusPresent:
			b.Present++
		case attendance.StatusAbsent:
			b.Absent++
		case attendance.StatusLate:
			b.Late++
		case attendance.StatusExcused:
			b.Excused++
		}
	}
	return b
}

func attendedOn(records []attendance.Record, day timeutil.Date) (attended, total int) {
	for _, r := range records {
		if r.Date != day {
			continue
		}
		total++
		if r.Status.CountsAsAttended() {
			attended++
		}
	}
	return attended, total
}

// Percent returns part/whole as a percentage rounded half away from zero,
// or 0 when whole is 0.
func Percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}
