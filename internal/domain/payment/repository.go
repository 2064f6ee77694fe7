package payment

import "context"

// Repository is the collection-level CRUD contract for payments.
type Repository interface {
	List(ctx context.Context) []Payment
	Add(ctx context.Context, p Payment) (Payment, error)

	// Update merges the patch into the payment. Returns nil, nil when the ID is unknown.
	Update(ctx context.Context, id string, patch Patch) (*Payment, error)
	Delete(ctx context.Context, id string) ([]Payment, error)

	// ForStudent returns every installment of one student.
	ForStudent(ctx context.Context, studentID string) []Payment

	// DeleteForStudent removes every installment of one student.
	DeleteForStudent(ctx context.Context, studentID string) error
}
