package query

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studentdesk/studentdesk/internal/domain/attendance"
	"github.com/studentdesk/studentdesk/internal/domain/course"
	"github.com/studentdesk/studentdesk/internal/domain/payment"
	"github.com/studentdesk/studentdesk/internal/domain/student"
	"github.com/studentdesk/studentdesk/pkg/timeutil"
)

var today = timeutil.MustParseDate("2025-09-10")

func rec(studentID, date string, status attendance.Status) attendance.Record {
	return attendance.Record{StudentID: studentID, Date: timeutil.MustParseDate(date), Status: status}
}

func TestTotalRevenue(t *testing.T) {
	payments := []payment.Payment{
		{Amount: 5000, PaidAmount: 5000, Status: payment.StatusPaid},
		{Amount: 5000, PaidAmount: 2500, Status: payment.StatusPartial},
		{Amount: 6000, PaidAmount: 6000, Status: payment.StatusPaid},
	}
	assert.Equal(t, 11000.0, TotalRevenue(payments))

	payments = append(payments, payment.Payment{Amount: 4000, Status: payment.StatusPending})
	assert.Equal(t, 11000.0, TotalRevenue(payments))
	assert.Equal(t, 0.0, TotalRevenue(nil))
}

func TestPendingBalance(t *testing.T) {
	payments := []payment.Payment{
		{Amount: 5000, PaidAmount: 5000, Status: payment.StatusPaid},
		{Amount: 5000, PaidAmount: 2500, Status: payment.StatusPartial},
		{Amount: 4000, Status: payment.StatusPending},
	}
	assert.Equal(t, 6500.0, PendingBalance(payments))
}

func TestAttendanceRate(t *testing.T) {
	t.Run("no records today", func(t *testing.T) {
		records := []attendance.Record{rec("s1", "2025-09-09", attendance.StatusPresent)}
		assert.Equal(t, 0, AttendanceRate(records, today))
	})

	t.Run("everyone present", func(t *testing.T) {
		records := []attendance.Record{
			rec("s1", "2025-09-10", attendance.StatusPresent),
			rec("s2", "2025-09-10", attendance.StatusPresent),
		}
		assert.Equal(t, 100, AttendanceRate(records, today))
	})

	t.Run("late counts, excused does not", func(t *testing.T) {
		records := []attendance.Record{
			rec("s1", "2025-09-10", attendance.StatusPresent),
			rec("s2", "2025-09-10", attendance.StatusLate),
			rec("s3", "2025-09-10", attendance.StatusExcused),
		}
		assert.Equal(t, 67, AttendanceRate(records, today))
	})
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 0, Percent(3, 0))
	assert.Equal(t, 50, Percent(1, 2))
	assert.Equal(t, 33, Percent(1, 3))
	assert.Equal(t, 5, Percent(1, 22))
	assert.Equal(t, 14, Percent(3, 22))
}

func TestDailyBreakdown(t *testing.T) {
	records := []attendance.Record{
		rec("s1", "2025-09-10", attendance.StatusPresent),
		rec("s2", "2025-09-10", attendance.StatusAbsent),
		rec("s3", "2025-09-10", attendance.StatusLate),
		rec("s4", "2025-09-10", attendance.StatusExcused),
		rec("s1", "2025-09-09", attendance.StatusAbsent),
	}

	b := DailyBreakdown(records, today)
	assert.Equal(t, Breakdown{Date: today, Present: 1, Absent: 1, Late: 1, Excused: 1, Total: 4}, b)
	assert.Equal(t, 50, b.Rate())
}

func TestSummarize(t *testing.T) {
	s := Snapshot{
		Courses: []course.Course{{ID: "c1", Name: "Web Development"}},
		Students: []student.Student{
			{ID: "s1", Status: student.StatusActive},
			{ID: "s2", Status: student.StatusInactive},
		},
		Attendance: []attendance.Record{
			rec("s1", "2025-09-10", attendance.StatusPresent),
			rec("s2", "2025-09-10", attendance.StatusAbsent),
		},
		Payments: []payment.Payment{
			{Amount: 5000, PaidAmount: 5000, Status: payment.StatusPaid},
			{Amount: 5000, Status: payment.StatusPending},
		},
	}

	stats := Summarize(s, today)
	assert.Equal(t, Statistics{
		TotalStudents:       2,
		ActiveStudents:      1,
		TotalCourses:        1,
		TotalRevenue:        5000,
		PendingBalance:      5000,
		TodayAttendanceRate: 50,
		PresentToday:        1,
		TodayRecords:        2,
	}, stats)
}

// ══════════════════════════════════════════════════════════════════════════════
// MONTHLY VIEW
// ══════════════════════════════════════════════════════════════════════════════

func TestMonthlyView_EmptyMonth(t *testing.T) {
	// September 2025 starts on a Monday: 30 days, 8 of them weekend.
	month := timeutil.Month{Year: 2025, Month: time.September}

	view := MonthlyView(nil, "s1", month)
	require.Len(t, view.Days, 30)
	assert.Equal(t, 22, view.Count(DayUnmarked))
	assert.Equal(t, 8, view.Count(DayWeekend))
	assert.Equal(t, 22, view.WorkingDays)
	assert.Equal(t, 0, view.Percentage)
}

func TestMonthlyView_Percentage(t *testing.T) {
	month := timeutil.Month{Year: 2025, Month: time.September}
	records := []attendance.Record{
		rec("s1", "2025-09-01", attendance.StatusPresent),
		rec("s1", "2025-09-02", attendance.StatusLate),
		rec("s1", "2025-09-03", attendance.StatusAbsent),
		rec("s1", "2025-09-04", attendance.StatusExcused),
		rec("s1", "2025-09-06", attendance.StatusPresent), // Saturday
		rec("s2", "2025-09-05", attendance.StatusPresent),
	}

	view := MonthlyView(records, "s1", month)
	assert.Equal(t, DayStatus("present"), view.Days[0].Status)
	assert.Equal(t, DayStatus("late"), view.Days[1].Status)
	assert.Equal(t, DayStatus("absent"), view.Days[2].Status)
	assert.Equal(t, DayStatus("excused"), view.Days[3].Status)
	assert.Equal(t, DayUnmarked, view.Days[4].Status)
	assert.Equal(t, DayWeekend, view.Days[5].Status)

	assert.Equal(t, 2, view.PresentDays)
	assert.Equal(t, 9, view.Percentage) // 2 / 22
}

func TestDayEntry_JSON(t *testing.T) {
	entries := []DayEntry{
		{Date: timeutil.MustParseDate("2025-09-05"), Status: DayUnmarked},
		{Date: timeutil.MustParseDate("2025-09-06"), Status: DayWeekend},
	}

	data, err := json.Marshal(entries)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"date":"2025-09-05","status":null},{"date":"2025-09-06","status":"weekend"}]`, string(data))

	var back []DayEntry
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, entries, back)
}
