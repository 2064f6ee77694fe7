package kvrepo

import (
	"context"

	"github.com/studentdesk/studentdesk/internal/domain/student"
	"github.com/studentdesk/studentdesk/internal/infrastructure/persistence/kv"
)

// StudentRepository implements student.Repository. Deleting a student also
// clears the student's rows from every registered dependent collection.
type StudentRepository struct {
	items      collection[student.Student]
	opts       Options
	dependents []student.Dependent
}

var _ student.Repository = (*StudentRepository)(nil)

// NewStudentRepository creates the student repository. Dependents are
// cleared in order on Delete.
func NewStudentRepository(store *kv.Store, opts Options, dependents ...student.Dependent) *StudentRepository {
	opts = opts.withDefaults()
	return &StudentRepository{
		items: collection[student.Student]{
			store:  store,
			key:    opts.Keys.Students(),
			domain: "student",
			id:     func(s *student.Student) string { return s.ID },
		},
		opts:       opts,
		dependents: dependents,
	}
}

func (r *StudentRepository) List(ctx context.Context) []student.Student {
	return r.items.load(ctx)
}

func (r *StudentRepository) Get(ctx context.Context, id string) (student.Student, bool) {
	return r.items.get(ctx, id)
}

func (r *StudentRepository) ByCourse(ctx context.Context, courseID string) []student.Student {
	return r.items.filter(ctx, func(s *student.Student) bool { return s.CourseID == courseID })
}

// Add stamps the student with a fresh ID and CreatedAt. An empty status
// becomes active.
func (r *StudentRepository) Add(ctx context.Context, s student.Student) (student.Student, error) {
	s.ID = r.opts.NewID()
	s.CreatedAt = r.opts.stamp()
	s.UpdatedAt = nil
	if s.Status == "" {
		s.Status = student.StatusActive
	}
	return r.items.add(ctx, s, validateStudent("Add"))
}

func (r *StudentRepository) Update(ctx context.Context, id string, p student.Patch) (*student.Student, error) {
	return r.items.update(ctx, id, func(s *student.Student) {
		p.Apply(s)
		now := r.opts.stamp()
		s.UpdatedAt = &now
	}, validateStudent("Update"))
}

// Delete removes the student, then the student's attendance and payments.
// The students collection is written first; a failure there leaves the
// dependents untouched.
func (r *StudentRepository) Delete(ctx context.Context, id string) ([]student.Student, error) {
	remaining, err := r.items.removeWhere(ctx, "Delete", func(s *student.Student) bool { return s.ID == id })
	if err != nil {
		return remaining, err
	}

	for _, dep := range r.dependents {
		if err := dep.DeleteForStudent(ctx, id); err != nil {
			return remaining, err
		}
	}
	return remaining, nil
}

func validateStudent(op string) func(student.Student) error {
	return func(s student.Student) error { return s.Validate(op) }
}
