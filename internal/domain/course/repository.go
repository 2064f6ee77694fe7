package course

import "context"

// Repository is the collection-level CRUD contract for courses.
// Implementations live in infrastructure/persistence.
type Repository interface {
	// List returns every course in insertion order; empty when nothing is stored.
	List(ctx context.Context) []Course

	// Get returns the course with the given ID.
	Get(ctx context.Context, id string) (Course, bool)

	// Add assigns an ID and creation stamp, then appends the course.
	Add(ctx context.Context, c Course) (Course, error)

	// Update merges the patch into the course. Returns nil, nil when the ID is unknown.
	Update(ctx context.Context, id string, p Patch) (*Course, error)

	// Delete removes the course and returns the remaining ones.
	// Students referencing the course are left as they are.
	Delete(ctx context.Context, id string) ([]Course, error)
}
