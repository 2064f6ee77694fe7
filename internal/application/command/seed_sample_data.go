package command

import (
	"context"
	"math/rand"
	"time"

	"github.com/studentdesk/studentdesk/internal/domain/attendance"
	"github.com/studentdesk/studentdesk/internal/domain/course"
	"github.com/studentdesk/studentdesk/internal/domain/payment"
	"github.com/studentdesk/studentdesk/internal/domain/student"
	"github.com/studentdesk/studentdesk/pkg/logger"
	"github.com/studentdesk/studentdesk/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// SEED SAMPLE DATA COMMAND
// Fills an empty store with demo courses, students, installments and a week
// of attendance. Collections that already hold rows are left alone, so the
// command is safe to run at every start.
// ══════════════════════════════════════════════════════════════════════════════

// SampleCourses are the courses seeded into an empty store.
var SampleCourses = []course.Course{
	{Name: "Web Development", Duration: 6, DurationUnit: course.UnitMonths, Fee: 15000, Description: "Full-stack web development course"},
	{Name: "Data Science", Duration: 8, DurationUnit: course.UnitMonths, Fee: 20000, Description: "Python, ML, and Data Analytics"},
	{Name: "UI/UX Design", Duration: 4, DurationUnit: course.UnitMonths, Fee: 12000, Description: "Design thinking and tools"},
	{Name: "Mobile App Development", Duration: 6, DurationUnit: course.UnitMonths, Fee: 18000, Description: "React Native & Flutter"},
}

type sampleStudent struct {
	student.Student
	courseIndex int
}

var sampleStudents = []sampleStudent{
	{student.Student{Name: "Rahul Sharma", Email: "rahul.sharma@email.com", Phone: "9876543210", JoiningDate: timeutil.NewDate(2024, time.January, 15), EndDate: timeutil.NewDate(2024, time.July, 15)}, 0},
	{student.Student{Name: "Priya Patel", Email: "priya.patel@email.com", Phone: "9876543211", JoiningDate: timeutil.NewDate(2024, time.February, 1), EndDate: timeutil.NewDate(2024, time.October, 1)}, 1},
	{student.Student{Name: "Amit Kumar", Email: "amit.kumar@email.com", Phone: "9876543212", JoiningDate: timeutil.NewDate(2024, time.January, 20), EndDate: timeutil.NewDate(2024, time.July, 20)}, 0},
	{student.Student{Name: "Sneha Gupta", Email: "sneha.gupta@email.com", Phone: "9876543213", JoiningDate: timeutil.NewDate(2024, time.March, 1), EndDate: timeutil.NewDate(2024, time.July, 1)}, 2},
	{student.Student{Name: "Vikram Singh", Email: "vikram.singh@email.com", Phone: "9876543214", JoiningDate: timeutil.NewDate(2024, time.February, 15), EndDate: timeutil.NewDate(2024, time.August, 15)}, 3},
}

// sampleStatuses is weighted towards present.
var sampleStatuses = []attendance.Status{
	attendance.StatusPresent,
	attendance.StatusPresent,
	attendance.StatusPresent,
	attendance.StatusAbsent,
	attendance.StatusLate,
	attendance.StatusPresent,
	attendance.StatusExcused,
}

// sampleAttendanceDays is how many days back from today attendance is seeded.
const sampleAttendanceDays = 7

// SeedSampleDataResult counts what was added.
type SeedSampleDataResult struct {
	Courses    int
	Students   int
	Payments   int
	Attendance int
}

// Skipped reports whether the store was already populated.
func (r SeedSampleDataResult) Skipped() bool {
	return r.Courses == 0 && r.Students == 0
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// SeedSampleDataHandler seeds demo data.
type SeedSampleDataHandler struct {
	courses    course.Repository
	students   student.Repository
	attendance attendance.Repository
	payments   payment.Repository
	clock      timeutil.Clock
	rnd        *rand.Rand
	log        *logger.Logger
}

// NewSeedSampleDataHandler creates the handler. A nil clock uses
// timeutil.Now, a nil rnd is seeded from the clock, a nil logger discards
// output.
func NewSeedSampleDataHandler(
	courses course.Repository,
	students student.Repository,
	attendanceRepo attendance.Repository,
	payments payment.Repository,
	clock timeutil.Clock,
	rnd *rand.Rand,
	log *logger.Logger,
) *SeedSampleDataHandler {
	if clock == nil {
		clock = timeutil.Now
	}
	if rnd == nil {
		rnd = rand.New(rand.NewSource(clock().UnixNano()))
	}
	if log == nil {
		log = logger.Nop()
	}
	return &SeedSampleDataHandler{
		courses:    courses,
		students:   students,
		attendance: attendanceRepo,
		payments:   payments,
		clock:      clock,
		rnd:        rnd,
		log:        log.With(logger.Component("seed")),
	}
}

// Handle seeds courses when there are none, then students with their
// installments and attendance when there are none. Courses must exist first
// because students reference them by position.
func (h *SeedSampleDataHandler) Handle(ctx context.Context) (*SeedSampleDataResult, error) {
	result := &SeedSampleDataResult{}

	if len(h.courses.List(ctx)) == 0 {
		for _, c := range SampleCourses {
			if _, err := h.courses.Add(ctx, c); err != nil {
				return result, err
			}
			result.Courses++
		}
	}

	if len(h.students.List(ctx)) > 0 {
		h.log.Debug("students already present, skipping", logger.Int("courses_added", result.Courses))
		return result, nil
	}

	courses := h.courses.List(ctx)
	added := make([]student.Student, 0, len(sampleStudents))
	for _, sample := range sampleStudents {
		s := sample.Student
		if sample.courseIndex < len(courses) {
			s.CourseID = courses[sample.courseIndex].ID
		}
		created, err := h.students.Add(ctx, s)
		if err != nil {
			return result, err
		}
		added = append(added, created)
		result.Students++
	}

	for i, s := range added {
		n, err := h.seedPayments(ctx, i, s, courses)
		result.Payments += n
		if err != nil {
			return result, err
		}
	}

	today := timeutil.DateOf(h.clock())
	for _, s := range added {
		n, err := h.seedAttendance(ctx, s, today)
		result.Attendance += n
		if err != nil {
			return result, err
		}
	}

	h.log.Info("sample data seeded",
		logger.Int("courses", result.Courses),
		logger.Int("students", result.Students),
		logger.Int("payments", result.Payments),
		logger.Int("attendance", result.Attendance),
	)
	return result, nil
}

// seedPayments adds three equal installments of the course fee. The second
// one varies by position so every status shows up: paid for the first two
// students, half paid for the third, pending for the rest.
func (h *SeedSampleDataHandler) seedPayments(ctx context.Context, index int, s student.Student, courses []course.Course) (int, error) {
	var fee float64
	found := false
	for _, c := range courses {
		if c.ID == s.CourseID {
			fee, found = c.Fee, true
			break
		}
	}
	if !found {
		return 0, nil
	}

	installment := fee / 3
	second := s.JoiningDate.AddMonths(2)
	third := s.JoiningDate.AddMonths(4)

	plan := []payment.Payment{{
		StudentID:         s.ID,
		Amount:            installment,
		DueDate:           s.JoiningDate,
		PaidDate:          s.JoiningDate,
		PaidAmount:        installment,
		Status:            payment.StatusPaid,
		InstallmentNumber: 1,
		Notes:             "Initial payment",
	}}

	secondPayment := payment.Payment{
		StudentID:         s.ID,
		Amount:            installment,
		DueDate:           second,
		InstallmentNumber: 2,
	}
	switch {
	case index < 2:
		secondPayment.PaidDate = second
		secondPayment.PaidAmount = installment
		secondPayment.Status = payment.StatusPaid
		secondPayment.Notes = "Second installment"
	case index == 2:
		secondPayment.PaidAmount = installment / 2
		secondPayment.Status = payment.StatusPartial
		secondPayment.Notes = "Partial payment received"
	default:
		secondPayment.Status = payment.StatusPending
	}
	plan = append(plan, secondPayment, payment.Payment{
		StudentID:         s.ID,
		Amount:            installment,
		DueDate:           third,
		Status:            payment.StatusPending,
		InstallmentNumber: 3,
		Notes:             "Final installment",
	})

	for n, p := range plan {
		if _, err := h.payments.Add(ctx, p); err != nil {
			return n, err
		}
	}
	return len(plan), nil
}

// seedAttendance marks today and the six days before it, skipping weekends.
func (h *SeedSampleDataHandler) seedAttendance(ctx context.Context, s student.Student, today timeutil.Date) (int, error) {
	written := 0
	for i := 0; i < sampleAttendanceDays; i++ {
		day := today.AddDays(-i)
		if day.IsWeekend() {
			continue
		}

		status := sampleStatuses[h.rnd.Intn(len(sampleStatuses))]
		var notes string
		switch status {
		case attendance.StatusExcused:
			notes = "Medical leave"
		case attendance.StatusLate:
			notes = "Traffic delay"
		}

		if _, err := h.attendance.Add(ctx, attendance.Record{
			StudentID: s.ID,
			Date:      day,
			Status:    status,
			Notes:     notes,
		}); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}
