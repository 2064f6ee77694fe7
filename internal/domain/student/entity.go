// Package student contains the student model: a person enrolled in a course,
// with contact details and an enrolment window.
package student

import (
	"time"

	"github.com/studentdesk/studentdesk/internal/domain/shared"
	"github.com/studentdesk/studentdesk/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENUMS
// ══════════════════════════════════════════════════════════════════════════════

// Status is the enrolment status of a student.
type Status string

const (
	// StatusActive - the student is currently attending.
	StatusActive Status = "active"
	// StatusInactive - the student has paused or left.
	StatusInactive Status = "inactive"
)

// IsValid checks that the status is known.
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive:
		return true
	default:
		return false
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// ENTITY
// ══════════════════════════════════════════════════════════════════════════════

// Student is an enrolled person. CourseID is a soft reference: it may point
// at a course that no longer exists.
type Student struct {
	ID          string        `json:"id"`
	Name        string        `json:"name" validate:"required,max=200"`
	Email       string        `json:"email" validate:"omitempty,email"`
	Phone       string        `json:"phone" validate:"omitempty,max=32"`
	CourseID    string        `json:"courseId"`
	JoiningDate timeutil.Date `json:"joiningDate"`
	EndDate     timeutil.Date `json:"endDate"`
	Status      Status        `json:"status" validate:"oneof=active inactive"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   *time.Time    `json:"updatedAt,omitempty"`
}

// IsActive reports whether the student is currently attending.
func (s Student) IsActive() bool {
	return s.Status == StatusActive
}

// Validate checks the student's attributes, including that the enrolment
// window does not end before it starts.
func (s Student) Validate(op string) error {
	var extra []shared.FieldError
	if !s.JoiningDate.IsZero() && !s.EndDate.IsZero() && s.EndDate.Before(s.JoiningDate) {
		extra = append(extra, shared.FieldError{Field: "endDate", Rule: "gtefield=joiningDate"})
	}
	return shared.ValidateStruct("student", op, s, extra...)
}

// Patch holds a partial update; nil fields are left unchanged.
type Patch struct {
	Name        *string
	Email       *string
	Phone       *string
	CourseID    *string
	JoiningDate *timeutil.Date
	EndDate     *timeutil.Date
	Status      *Status
}

// Apply merges the set fields of p into s.
func (p Patch) Apply(s *Student) {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Email != nil {
		s.Email = *p.Email
	}
	if p.Phone != nil {
		s.Phone = *p.Phone
	}
	if p.CourseID != nil {
		s.CourseID = *p.CourseID
	}
	if p.JoiningDate != nil {
		s.JoiningDate = *p.JoiningDate
	}
	if p.EndDate != nil {
		s.EndDate = *p.EndDate
	}
	if p.Status != nil {
		s.Status = *p.Status
	}
}
