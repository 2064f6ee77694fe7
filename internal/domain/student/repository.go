package student

import "context"

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// The contract for student storage. Implementations live in
// infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// Repository is the collection-level CRUD contract for students.
type Repository interface {
	// List returns every student in insertion order; empty when nothing is stored.
	List(ctx context.Context) []Student

	// Get returns the student with the given ID.
	Get(ctx context.Context, id string) (Student, bool)

	// ByCourse returns the students whose CourseID matches.
	ByCourse(ctx context.Context, courseID string) []Student

	// Add assigns an ID and creation stamp, defaults Status to active, then
	// appends the student.
	Add(ctx context.Context, s Student) (Student, error)

	// Update merges the patch into the student. Returns nil, nil when the ID is unknown.
	Update(ctx context.Context, id string, p Patch) (*Student, error)

	// Delete removes the student together with every attendance record and
	// payment that references it, and returns the remaining students.
	Delete(ctx context.Context, id string) ([]Student, error)
}

// Dependent is a collection whose rows reference students and must be
// removed when their student is deleted.
type Dependent interface {
	DeleteForStudent(ctx context.Context, studentID string) error
}
