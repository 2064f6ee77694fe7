package kvrepo

import (
	"context"

	"github.com/studentdesk/studentdesk/internal/domain/course"
	"github.com/studentdesk/studentdesk/internal/infrastructure/persistence/kv"
)

// CourseRepository implements course.Repository.
type CourseRepository struct {
	items collection[course.Course]
	opts  Options
}

var _ course.Repository = (*CourseRepository)(nil)

// NewCourseRepository creates the course repository.
func NewCourseRepository(store *kv.Store, opts Options) *CourseRepository {
	opts = opts.withDefaults()
	return &CourseRepository{
		items: collection[course.Course]{
			store:  store,
			key:    opts.Keys.Courses(),
			domain: "course",
			id:     func(c *course.Course) string { return c.ID },
		},
		opts: opts,
	}
}

func (r *CourseRepository) List(ctx context.Context) []course.Course {
	return r.items.load(ctx)
}

func (r *CourseRepository) Get(ctx context.Context, id string) (course.Course, bool) {
	return r.items.get(ctx, id)
}

// Add stamps the course with a fresh ID and CreatedAt; caller-supplied values
// for either are overwritten.
func (r *CourseRepository) Add(ctx context.Context, c course.Course) (course.Course, error) {
	c.ID = r.opts.NewID()
	c.CreatedAt = r.opts.stamp()
	c.UpdatedAt = nil
	return r.items.add(ctx, c, validateCourse("Add"))
}

func (r *CourseRepository) Update(ctx context.Context, id string, p course.Patch) (*course.Course, error) {
	return r.items.update(ctx, id, func(c *course.Course) {
		p.Apply(c)
		now := r.opts.stamp()
		c.UpdatedAt = &now
	}, validateCourse("Update"))
}

// Delete removes the course only. Students keep their CourseID.
func (r *CourseRepository) Delete(ctx context.Context, id string) ([]course.Course, error) {
	return r.items.removeWhere(ctx, "Delete", func(c *course.Course) bool { return c.ID == id })
}

func validateCourse(op string) func(course.Course) error {
	return func(c course.Course) error { return c.Validate(op) }
}
