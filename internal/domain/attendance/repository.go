package attendance

import (
	"context"

	"github.com/studentdesk/studentdesk/pkg/timeutil"
)

// Repository is the collection-level CRUD contract for attendance records.
type Repository interface {
	List(ctx context.Context) []Record
	Add(ctx context.Context, r Record) (Record, error)

	// Update merges the patch into the record. Returns nil, nil when the ID is unknown.
	Update(ctx context.Context, id string, p Patch) (*Record, error)
	Delete(ctx context.Context, id string) ([]Record, error)

	// ForStudent returns every record of one student.
	ForStudent(ctx context.Context, studentID string) []Record

	// OnDate returns every record dated on the given day.
	OnDate(ctx context.Context, date timeutil.Date) []Record

	// ForStudentOnDate returns the first record of the student on the day.
	ForStudentOnDate(ctx context.Context, studentID string, date timeutil.Date) (Record, bool)

	// DeleteForStudent removes every record of one student.
	DeleteForStudent(ctx context.Context, studentID string) error
}
