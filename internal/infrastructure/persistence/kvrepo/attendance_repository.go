package kvrepo

import (
	"context"

	"github.com/studentdesk/studentdesk/internal/domain/attendance"
	"github.com/studentdesk/studentdesk/internal/domain/student"
	"github.com/studentdesk/studentdesk/internal/infrastructure/persistence/kv"
	"github.com/studentdesk/studentdesk/pkg/timeutil"
)

// AttendanceRepository implements attendance.Repository.
type AttendanceRepository struct {
	items collection[attendance.Record]
	opts  Options
}

var (
	_ attendance.Repository = (*AttendanceRepository)(nil)
	_ student.Dependent     = (*AttendanceRepository)(nil)
)

// NewAttendanceRepository creates the attendance repository.
func NewAttendanceRepository(store *kv.Store, opts Options) *AttendanceRepository {
	opts = opts.withDefaults()
	return &AttendanceRepository{
		items: collection[attendance.Record]{
			store:  store,
			key:    opts.Keys.Attendance(),
			domain: "attendance",
			id:     func(a *attendance.Record) string { return a.ID },
		},
		opts: opts,
	}
}

func (r *AttendanceRepository) List(ctx context.Context) []attendance.Record {
	return r.items.load(ctx)
}

// Add stamps the record with a fresh ID and RecordedAt. It does not check
// for an existing record of the same student and day.
func (r *AttendanceRepository) Add(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	rec.ID = r.opts.NewID()
	rec.RecordedAt = r.opts.stamp()
	rec.UpdatedAt = nil
	return r.items.add(ctx, rec, validateRecord("Add"))
}

func (r *AttendanceRepository) Update(ctx context.Context, id string, p attendance.Patch) (*attendance.Record, error) {
	return r.items.update(ctx, id, func(rec *attendance.Record) {
		p.Apply(rec)
		now := r.opts.stamp()
		rec.UpdatedAt = &now
	}, validateRecord("Update"))
}

func (r *AttendanceRepository) Delete(ctx context.Context, id string) ([]attendance.Record, error) {
	return r.items.removeWhere(ctx, "Delete", func(rec *attendance.Record) bool { return rec.ID == id })
}

func (r *AttendanceRepository) ForStudent(ctx context.Context, studentID string) []attendance.Record {
	return r.items.filter(ctx, func(rec *attendance.Record) bool { return rec.StudentID == studentID })
}

func (r *AttendanceRepository) OnDate(ctx context.Context, date timeutil.Date) []attendance.Record {
	return r.items.filter(ctx, func(rec *attendance.Record) bool { return rec.Date == date })
}

// ForStudentOnDate returns the last record of the student on date, the one
// the day sheet shows.
func (r *AttendanceRepository) ForStudentOnDate(ctx context.Context, studentID string, date timeutil.Date) (attendance.Record, bool) {
	records := r.items.load(ctx)
	for i := len(records) - 1; i >= 0; i-- {
		if records[i].StudentID == studentID && records[i].Date == date {
			return records[i], true
		}
	}
	return attendance.Record{}, false
}

// DeleteForStudent removes every record of the student.
func (r *AttendanceRepository) DeleteForStudent(ctx context.Context, studentID string) error {
	_, err := r.items.removeWhere(ctx, "DeleteForStudent", func(rec *attendance.Record) bool {
		return rec.StudentID == studentID
	})
	return err
}

func validateRecord(op string) func(attendance.Record) error {
	return func(rec attendance.Record) error { return rec.Validate(op) }
}
