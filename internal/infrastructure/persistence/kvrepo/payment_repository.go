package kvrepo

import (
	"context"

	"github.com/studentdesk/studentdesk/internal/domain/payment"
	"github.com/studentdesk/studentdesk/internal/domain/student"
	"github.com/studentdesk/studentdesk/internal/infrastructure/persistence/kv"
)

// PaymentRepository implements payment.Repository.
type PaymentRepository struct {
	items collection[payment.Payment]
	opts  Options
}

var (
	_ payment.Repository = (*PaymentRepository)(nil)
	_ student.Dependent  = (*PaymentRepository)(nil)
)

// NewPaymentRepository creates the payment repository.
func NewPaymentRepository(store *kv.Store, opts Options) *PaymentRepository {
	opts = opts.withDefaults()
	return &PaymentRepository{
		items: collection[payment.Payment]{
			store:  store,
			key:    opts.Keys.Payments(),
			domain: "payment",
			id:     func(p *payment.Payment) string { return p.ID },
		},
		opts: opts,
	}
}

func (r *PaymentRepository) List(ctx context.Context) []payment.Payment {
	return r.items.load(ctx)
}

// Add stamps the installment with a fresh ID and CreatedAt.
func (r *PaymentRepository) Add(ctx context.Context, p payment.Payment) (payment.Payment, error) {
	p.ID = r.opts.NewID()
	p.CreatedAt = r.opts.stamp()
	p.UpdatedAt = nil
	return r.items.add(ctx, p, validatePayment("Add"))
}

func (r *PaymentRepository) Update(ctx context.Context, id string, patch payment.Patch) (*payment.Payment, error) {
	return r.items.update(ctx, id, func(p *payment.Payment) {
		patch.Apply(p)
		now := r.opts.stamp()
		p.UpdatedAt = &now
	}, validatePayment("Update"))
}

func (r *PaymentRepository) Delete(ctx context.Context, id string) ([]payment.Payment, error) {
	return r.items.removeWhere(ctx, "Delete", func(p *payment.Payment) bool { return p.ID == id })
}

func (r *PaymentRepository) ForStudent(ctx context.Context, studentID string) []payment.Payment {
	return r.items.filter(ctx, func(p *payment.Payment) bool { return p.StudentID == studentID })
}

// DeleteForStudent removes every installment of the student.
func (r *PaymentRepository) DeleteForStudent(ctx context.Context, studentID string) error {
	_, err := r.items.removeWhere(ctx, "DeleteForStudent", func(p *payment.Payment) bool {
		return p.StudentID == studentID
	})
	return err
}

func validatePayment(op string) func(payment.Payment) error {
	return func(p payment.Payment) error { return p.Validate(op) }
}
