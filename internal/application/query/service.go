package query

import (
	"context"

	"github.com/studentdesk/studentdesk/internal/domain/attendance"
	"github.com/studentdesk/studentdesk/internal/domain/course"
	"github.com/studentdesk/studentdesk/internal/domain/payment"
	"github.com/studentdesk/studentdesk/internal/domain/shared"
	"github.com/studentdesk/studentdesk/internal/domain/student"
	"github.com/studentdesk/studentdesk/pkg/logger"
	"github.com/studentdesk/studentdesk/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// SERVICE
// Loads fresh snapshots from the repositories and applies the aggregate
// functions of this package.
// ══════════════════════════════════════════════════════════════════════════════

// Service answers the read side of the dashboard and attendance pages.
type Service struct {
	courses    course.Repository
	students   student.Repository
	attendance attendance.Repository
	payments   payment.Repository
	clock      timeutil.Clock
	log        *logger.Logger
}

// NewService creates a query service. A nil clock uses timeutil.Now, a nil
// logger discards output.
func NewService(
	courses course.Repository,
	students student.Repository,
	attendanceRepo attendance.Repository,
	payments payment.Repository,
	clock timeutil.Clock,
	log *logger.Logger,
) *Service {
	if clock == nil {
		clock = timeutil.Now
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		courses:    courses,
		students:   students,
		attendance: attendanceRepo,
		payments:   payments,
		clock:      clock,
		log:        log.With(logger.Component("query")),
	}
}

// Today returns the service's current calendar day.
func (s *Service) Today() timeutil.Date {
	return timeutil.DateOf(s.clock())
}

// Snapshot loads all four collections.
func (s *Service) Snapshot(ctx context.Context) Snapshot {
	return Snapshot{
		Courses:    s.courses.List(ctx),
		Students:   s.students.List(ctx),
		Attendance: s.attendance.List(ctx),
		Payments:   s.payments.List(ctx),
	}
}

// Statistics computes the dashboard headline for today.
func (s *Service) Statistics(ctx context.Context) Statistics {
	stats := Summarize(s.Snapshot(ctx), s.Today())
	s.log.Debug("statistics computed",
		logger.Int("students", stats.TotalStudents),
		logger.Int("attendance_rate", stats.TodayAttendanceRate),
	)
	return stats
}

// TotalRevenue sums what fully paid installments brought in.
func (s *Service) TotalRevenue(ctx context.Context) float64 {
	return TotalRevenue(s.payments.List(ctx))
}

// PendingBalance sums what pending and partial installments still owe.
func (s *Service) PendingBalance(ctx context.Context) float64 {
	return PendingBalance(s.payments.List(ctx))
}

// TodayAttendanceRate is AttendanceRate for the clock's today.
func (s *Service) TodayAttendanceRate(ctx context.Context) int {
	return AttendanceRate(s.attendance.List(ctx), s.Today())
}

// DailyBreakdown counts the marks of one day by status.
// A zero date means today.
func (s *Service) DailyBreakdown(ctx context.Context, day timeutil.Date) Breakdown {
	if day.IsZero() {
		day = s.Today()
	}
	return DailyBreakdown(s.attendance.OnDate(ctx, day), day)
}

// ══════════════════════════════════════════════════════════════════════════════
// MONTHLY ATTENDANCE
// ══════════════════════════════════════════════════════════════════════════════

// GetMonthlyAttendanceQuery selects one student's calendar month.
type GetMonthlyAttendanceQuery struct {
	// StudentID is required.
	StudentID string

	// Month defaults to the current month when zero.
	Month timeutil.Month
}

// Validate checks the query and fills defaults.
func (q *GetMonthlyAttendanceQuery) Validate(today timeutil.Date) error {
	if q.StudentID == "" {
		return shared.NewDomainError("attendance", "MonthlyAttendance", shared.ErrInvalidInput, "student_id is required")
	}
	if q.Month.Year == 0 {
		q.Month = today.MonthOf()
	}
	return nil
}

// MonthlyAttendance builds the calendar view of one student. An unknown
// student yields a calendar with every working day unmarked.
func (s *Service) MonthlyAttendance(ctx context.Context, q GetMonthlyAttendanceQuery) (*MonthlyAttendance, error) {
	if err := q.Validate(s.Today()); err != nil {
		return nil, err
	}
	view := MonthlyView(s.attendance.ForStudent(ctx, q.StudentID), q.StudentID, q.Month)
	return &view, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DASHBOARD LISTS
// ══════════════════════════════════════════════════════════════════════════════

// RecentStudents returns the newest students with course names resolved.
func (s *Service) RecentStudents(ctx context.Context, limit int) []StudentRow {
	return RecentStudents(Snapshot{
		Courses:  s.courses.List(ctx),
		Students: s.students.List(ctx),
	}, limit)
}

// UpcomingPayments returns the earliest-due outstanding installments.
func (s *Service) UpcomingPayments(ctx context.Context, limit int) []PaymentRow {
	return UpcomingPayments(Snapshot{
		Students: s.students.List(ctx),
		Payments: s.payments.List(ctx),
	}, s.Today(), limit)
}

// CourseOverview lists courses with enrolment counts.
func (s *Service) CourseOverview(ctx context.Context) []CourseRow {
	return CourseOverview(Snapshot{
		Courses:  s.courses.List(ctx),
		Students: s.students.List(ctx),
	})
}

// Roster builds the attendance sheet for day. With a courseID only that
// course's students are listed. A zero date means today.
func (s *Service) Roster(ctx context.Context, day timeutil.Date, courseID string) Roster {
	if day.IsZero() {
		day = s.Today()
	}

	var students []student.Student
	if courseID != "" {
		students = s.students.ByCourse(ctx, courseID)
	} else {
		students = s.students.List(ctx)
	}
	return RosterSummary(students, s.attendance.OnDate(ctx, day), day)
}
