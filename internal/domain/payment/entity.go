// Package payment contains the payment model: one installment of a
// student's fee plan.
package payment

import (
	"time"

	"github.com/studentdesk/studentdesk/internal/domain/shared"
	"github.com/studentdesk/studentdesk/pkg/timeutil"
)

// Status is the settlement state of an installment.
type Status string

const (
	StatusPaid    Status = "paid"
	StatusPending Status = "pending"
	StatusPartial Status = "partial"
	// StatusOverdue is never stored. It is derived by EffectiveStatus from the
	// due date of an unsettled installment.
	StatusOverdue Status = "overdue"
)

// IsValid checks that the status may be stored.
func (s Status) IsValid() bool {
	switch s {
	case StatusPaid, StatusPending, StatusPartial:
		return true
	default:
		return false
	}
}

// IsOutstanding reports whether money is still owed under this status.
func (s Status) IsOutstanding() bool {
	return s == StatusPending || s == StatusPartial
}

// Payment is one installment owed by a student.
type Payment struct {
	ID                string        `json:"id"`
	StudentID         string        `json:"studentId" validate:"required"`
	Amount            float64       `json:"amount" validate:"gte=0"`
	DueDate           timeutil.Date `json:"dueDate"`
	PaidDate          timeutil.Date `json:"paidDate"`
	PaidAmount        float64       `json:"paidAmount" validate:"gte=0"`
	Status            Status        `json:"status" validate:"oneof=paid pending partial"`
	InstallmentNumber int           `json:"installmentNumber" validate:"gte=0"`
	Notes             string        `json:"notes"`
	CreatedAt         time.Time     `json:"createdAt"`
	UpdatedAt         *time.Time    `json:"updatedAt,omitempty"`
}

// Balance returns the amount still owed on the installment.
func (p Payment) Balance() float64 {
	return p.Amount - p.PaidAmount
}

// EffectiveStatus returns the stored status, or StatusOverdue when the
// installment is still outstanding and its due date is before today.
func (p Payment) EffectiveStatus(today timeutil.Date) Status {
	if p.Status.IsOutstanding() && !p.DueDate.IsZero() && p.DueDate.Before(today) {
		return StatusOverdue
	}
	return p.Status
}

// Validate checks the payment's attributes.
func (p Payment) Validate(op string) error {
	return shared.ValidateStruct("payment", op, p)
}

// Patch holds a partial update; nil fields are left unchanged.
type Patch struct {
	Amount            *float64
	DueDate           *timeutil.Date
	PaidDate          *timeutil.Date
	PaidAmount        *float64
	Status            *Status
	InstallmentNumber *int
	Notes             *string
}

// Apply merges the set fields of patch into p.
func (patch Patch) Apply(p *Payment) {
	if patch.Amount != nil {
		p.Amount = *patch.Amount
	}
	if patch.DueDate != nil {
		p.DueDate = *patch.DueDate
	}
	if patch.PaidDate != nil {
		p.PaidDate = *patch.PaidDate
	}
	if patch.PaidAmount != nil {
		p.PaidAmount = *patch.PaidAmount
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.InstallmentNumber != nil {
		p.InstallmentNumber = *patch.InstallmentNumber
	}
	if patch.Notes != nil {
		p.Notes = *patch.Notes
	}
}
