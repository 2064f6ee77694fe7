package command

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studentdesk/studentdesk/internal/domain/attendance"
	"github.com/studentdesk/studentdesk/internal/domain/payment"
	"github.com/studentdesk/studentdesk/internal/domain/shared"
	"github.com/studentdesk/studentdesk/internal/infrastructure/persistence/kv"
	"github.com/studentdesk/studentdesk/internal/infrastructure/persistence/kvrepo"
	"github.com/studentdesk/studentdesk/pkg/timeutil"
)

type repos struct {
	courses    *kvrepo.CourseRepository
	students   *kvrepo.StudentRepository
	attendance *kvrepo.AttendanceRepository
	payments   *kvrepo.PaymentRepository
}

func newRepos(now time.Time) repos {
	store := kv.NewStore(kv.NewMemoryBackend(), nil)
	opts := kvrepo.Options{Now: func() time.Time { return now }}
	r := repos{
		courses:    kvrepo.NewCourseRepository(store, opts),
		attendance: kvrepo.NewAttendanceRepository(store, opts),
		payments:   kvrepo.NewPaymentRepository(store, opts),
	}
	r.students = kvrepo.NewStudentRepository(store, opts, r.attendance, r.payments)
	return r
}

// ══════════════════════════════════════════════════════════════════════════════
// MARK ATTENDANCE
// ══════════════════════════════════════════════════════════════════════════════

func TestMarkAttendance_Upsert(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	r := newRepos(now)
	h := NewMarkAttendanceHandler(r.attendance, timeutil.FixedClock(now), nil)

	first, err := h.Handle(ctx, MarkAttendanceCommand{StudentID: "s1", Status: attendance.StatusAbsent})
	require.NoError(t, err)
	assert.True(t, first.Created)
	assert.Equal(t, timeutil.DateOf(now), first.Record.Date)

	second, err := h.Handle(ctx, MarkAttendanceCommand{StudentID: "s1", Status: attendance.StatusLate})
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.Record.ID, second.Record.ID)

	records := r.attendance.List(ctx)
	require.Len(t, records, 1)
	assert.Equal(t, attendance.StatusLate, records[0].Status)
	assert.NotNil(t, records[0].UpdatedAt)
}

func TestMarkAttendance_DuplicateDayUpdatesLastRecord(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 9, 1, 9, 0, 0, 0, time.UTC)
	r := newRepos(now)
	day := timeutil.DateOf(now)
	h := NewMarkAttendanceHandler(r.attendance, timeutil.FixedClock(now), nil)

	older, err := r.attendance.Add(ctx, attendance.Record{StudentID: "s1", Date: day, Status: attendance.StatusAbsent})
	require.NoError(t, err)
	newer, err := r.attendance.Add(ctx, attendance.Record{StudentID: "s1", Date: day, Status: attendance.StatusPresent})
	require.NoError(t, err)

	res, err := h.Handle(ctx, MarkAttendanceCommand{StudentID: "s1", Date: day, Status: attendance.StatusLate})
	require.NoError(t, err)
	assert.False(t, res.Created)
	assert.Equal(t, newer.ID, res.Record.ID)

	_, err = h.SaveNote(ctx, SaveNoteCommand{StudentID: "s1", Date: day, Notes: "Traffic delay"})
	require.NoError(t, err)

	records := r.attendance.List(ctx)
	require.Len(t, records, 2)
	assert.Equal(t, older.ID, records[0].ID)
	assert.Equal(t, attendance.StatusAbsent, records[0].Status)
	assert.Empty(t, records[0].Notes)
	assert.Equal(t, attendance.StatusLate, records[1].Status)
	assert.Equal(t, "Traffic delay", records[1].Notes)
}

func TestMarkAttendance_Validation(t *testing.T) {
	r := newRepos(time.Now())
	h := NewMarkAttendanceHandler(r.attendance, nil, nil)

	_, err := h.Handle(context.Background(), MarkAttendanceCommand{Status: attendance.StatusPresent})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = h.Handle(context.Background(), MarkAttendanceCommand{StudentID: "s1", Status: "holiday"})
	assert.ErrorIs(t, err, shared.ErrInvalidStatus)
}

func TestSaveNote(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	r := newRepos(now)
	h := NewMarkAttendanceHandler(r.attendance, timeutil.FixedClock(now), nil)
	day := timeutil.DateOf(now)

	res, err := h.SaveNote(ctx, SaveNoteCommand{StudentID: "s1", Date: day, Notes: "Left early"})
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Equal(t, attendance.StatusPresent, res.Record.Status)

	_, err = h.Handle(ctx, MarkAttendanceCommand{StudentID: "s1", Date: day, Status: attendance.StatusExcused})
	require.NoError(t, err)
	res, err = h.SaveNote(ctx, SaveNoteCommand{StudentID: "s1", Date: day, Notes: "Medical leave"})
	require.NoError(t, err)
	assert.False(t, res.Created)
	assert.Equal(t, attendance.StatusExcused, res.Record.Status)
	assert.Equal(t, "Medical leave", res.Record.Notes)

	assert.Len(t, r.attendance.List(ctx), 1)
}

func TestMarkAllPresent(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	r := newRepos(now)
	h := NewMarkAttendanceHandler(r.attendance, timeutil.FixedClock(now), nil)
	day := timeutil.DateOf(now)

	_, err := h.Handle(ctx, MarkAttendanceCommand{StudentID: "s2", Date: day, Status: attendance.StatusAbsent})
	require.NoError(t, err)

	n, err := h.MarkAllPresent(ctx, MarkAllPresentCommand{StudentIDs: []string{"s1", "s2", "s3"}, Date: day})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	records := r.attendance.OnDate(ctx, day)
	require.Len(t, records, 3)
	for _, rec := range records {
		assert.Equal(t, attendance.StatusPresent, rec.Status)
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// SEED SAMPLE DATA
// ══════════════════════════════════════════════════════════════════════════════

func newSeeder(r repos, now time.Time) *SeedSampleDataHandler {
	return NewSeedSampleDataHandler(r.courses, r.students, r.attendance, r.payments,
		timeutil.FixedClock(now), rand.New(rand.NewSource(42)), nil)
}

func TestSeedSampleData_EmptyStore(t *testing.T) {
	ctx := context.Background()
	// Wednesday: the seven days back include one weekend.
	now := time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC)
	r := newRepos(now)

	res, err := newSeeder(r, now).Handle(ctx)
	require.NoError(t, err)
	assert.False(t, res.Skipped())

	assert.Len(t, r.courses.List(ctx), 4)
	assert.Len(t, r.students.List(ctx), 5)
	assert.Len(t, r.payments.List(ctx), 15)
	assert.Len(t, r.attendance.List(ctx), 25)
	assert.Equal(t, SeedSampleDataResult{Courses: 4, Students: 5, Payments: 15, Attendance: 25}, *res)

	for _, rec := range r.attendance.List(ctx) {
		assert.False(t, rec.Date.IsWeekend())
		assert.True(t, rec.Status.IsValid())
		switch rec.Status {
		case attendance.StatusExcused:
			assert.Equal(t, "Medical leave", rec.Notes)
		case attendance.StatusLate:
			assert.Equal(t, "Traffic delay", rec.Notes)
		default:
			assert.Empty(t, rec.Notes)
		}
	}
}

func TestSeedSampleData_Idempotent(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC)
	r := newRepos(now)
	seeder := newSeeder(r, now)

	_, err := seeder.Handle(ctx)
	require.NoError(t, err)

	res, err := seeder.Handle(ctx)
	require.NoError(t, err)
	assert.True(t, res.Skipped())

	assert.Len(t, r.courses.List(ctx), 4)
	assert.Len(t, r.students.List(ctx), 5)
	assert.Len(t, r.payments.List(ctx), 15)
	assert.Len(t, r.attendance.List(ctx), 25)
}

func TestSeedSampleData_Installments(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC)
	r := newRepos(now)

	_, err := newSeeder(r, now).Handle(ctx)
	require.NoError(t, err)

	students := r.students.List(ctx)
	courses := r.courses.List(ctx)
	require.Len(t, students, 5)
	assert.Equal(t, courses[0].ID, students[0].CourseID)
	assert.Equal(t, courses[0].ID, students[2].CourseID)
	assert.Equal(t, courses[3].ID, students[4].CourseID)

	wantSecond := []payment.Status{
		payment.StatusPaid, payment.StatusPaid, payment.StatusPartial, payment.StatusPending, payment.StatusPending,
	}
	for i, s := range students {
		plan := r.payments.ForStudent(ctx, s.ID)
		require.Len(t, plan, 3, s.Name)

		assert.Equal(t, payment.StatusPaid, plan[0].Status)
		assert.Equal(t, s.JoiningDate, plan[0].PaidDate)
		assert.Equal(t, wantSecond[i], plan[1].Status, s.Name)
		assert.Equal(t, s.JoiningDate.AddMonths(2), plan[1].DueDate)
		assert.Equal(t, payment.StatusPending, plan[2].Status)
		assert.Equal(t, s.JoiningDate.AddMonths(4), plan[2].DueDate)
		assert.Equal(t, 3, plan[2].InstallmentNumber)
	}

	// Sneha Gupta: UI/UX Design, 12000 / 3, second installment untouched.
	sneha := r.payments.ForStudent(ctx, students[3].ID)
	assert.Equal(t, 4000.0, sneha[0].Amount)
	assert.Equal(t, 0.0, sneha[1].PaidAmount)

	amit := r.payments.ForStudent(ctx, students[2].ID)
	assert.Equal(t, 2500.0, amit[1].PaidAmount)
	assert.Equal(t, "Partial payment received", amit[1].Notes)
	assert.True(t, amit[1].PaidDate.IsZero())
}

func TestSeedSampleData_KeepsExistingCourses(t *testing.T) {
	ctx := context.Background()
	// Sunday: today and yesterday are skipped.
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	r := newRepos(now)

	_, err := r.courses.Add(ctx, SampleCourses[2])
	require.NoError(t, err)

	res, err := newSeeder(r, now).Handle(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Courses)
	assert.Equal(t, 5, res.Students)

	// Only course index 0 exists: Rahul and Amit get installments, the
	// other three reference nothing and get none.
	assert.Len(t, r.payments.List(ctx), 6)
	assert.Len(t, r.attendance.List(ctx), 25)
}
