// Package attendance contains the attendance record model: one mark per
// student per calendar day.
package attendance

import (
	"time"

	"github.com/studentdesk/studentdesk/internal/domain/shared"
	"github.com/studentdesk/studentdesk/pkg/timeutil"
)

// Status is the attendance mark for a day.
type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLate    Status = "late"
	StatusExcused Status = "excused"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusPresent, StatusAbsent, StatusLate, StatusExcused}

// IsValid checks that the status is known.
func (s Status) IsValid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate, StatusExcused:
		return true
	default:
		return false
	}
}

// CountsAsAttended reports whether the mark counts towards attendance rates.
// Late arrivals count; excused absences do not.
func (s Status) CountsAsAttended() bool {
	return s == StatusPresent || s == StatusLate
}

// Record is the mark of one student on one day. Uniqueness of
// (StudentID, Date) is not enforced by storage; writers check first.
type Record struct {
	ID         string        `json:"id"`
	StudentID  string        `json:"studentId" validate:"required"`
	Date       timeutil.Date `json:"date"`
	Status     Status        `json:"status" validate:"oneof=present absent late excused"`
	Notes      string        `json:"notes"`
	RecordedAt time.Time     `json:"recordedAt"`
	UpdatedAt  *time.Time    `json:"updatedAt,omitempty"`
}

// Validate checks the record's attributes.
func (r Record) Validate(op string) error {
	var extra []shared.FieldError
	if r.Date.IsZero() {
		extra = append(extra, shared.FieldError{Field: "date", Rule: "required"})
	}
	return shared.ValidateStruct("attendance", op, r, extra...)
}

// Patch holds a partial update; nil fields are left unchanged.
type Patch struct {
	Status *Status
	Notes  *string
	Date   *timeutil.Date
}

// Apply merges the set fields of p into r.
func (p Patch) Apply(r *Record) {
	if p.Status != nil {
		r.Status = *p.Status
	}
	if p.Notes != nil {
		r.Notes = *p.Notes
	}
	if p.Date != nil {
		r.Date = *p.Date
	}
}
